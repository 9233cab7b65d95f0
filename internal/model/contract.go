package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentFrequency is insurance premium billing cadence
type PaymentFrequency string

const (
	// PaymentMonthly means premium is paid every month
	PaymentMonthly PaymentFrequency = "month"
	// PaymentQuarterly means premium is paid every 3 months
	PaymentQuarterly PaymentFrequency = "quarter"
	// PaymentSemiAnnual means premium is paid every 6 months
	PaymentSemiAnnual PaymentFrequency = "6-month"
	// PaymentAnnual means premium is paid every year
	PaymentAnnual PaymentFrequency = "year"
)

// Months returns number of months between two payments, 0 for unknown frequency
func (f PaymentFrequency) Months() int {
	switch f {
	case PaymentMonthly:
		return 1
	case PaymentQuarterly:
		return 3
	case PaymentSemiAnnual:
		return 6
	case PaymentAnnual:
		return 12
	default:
		return 0
	}
}

// InsuranceContract is insurance contract owned by customer
type InsuranceContract struct {
	ID               string           `json:"id" msgpack:"id"`
	Company          string           `json:"company" msgpack:"company"`
	ContractNumber   string           `json:"contractNumber" msgpack:"contractNumber"`
	PolicyDetails    string           `json:"policyDetails,omitempty" msgpack:"policyDetails"`
	JoinDate         time.Time        `json:"joinDate" msgpack:"joinDate"`
	PremiumAmount    decimal.Decimal  `json:"premiumAmount" msgpack:"premiumAmount"`
	PaymentFrequency PaymentFrequency `json:"paymentFrequency" msgpack:"paymentFrequency"`
	NextPaymentDate  time.Time        `json:"nextPaymentDate" msgpack:"nextPaymentDate"`
}
