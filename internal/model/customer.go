package model

import "time"

// Classification specifies customer sales pipeline status
type Classification string

const (
	// ClassificationSigned means customer signed at least one contract
	ClassificationSigned Classification = "Signed"
	// ClassificationPotential means customer is still being consulted
	ClassificationPotential Classification = "Potential"
	// ClassificationDropped means customer refused to sign
	ClassificationDropped Classification = "Dropped"
)

// Address is customer postal address
type Address struct {
	Hamlet   string `json:"hamlet,omitempty" msgpack:"hamlet"`
	Commune  string `json:"commune,omitempty" msgpack:"commune"`
	District string `json:"district,omitempty" msgpack:"district"`
	Province string `json:"province,omitempty" msgpack:"province"`
	City     string `json:"city,omitempty" msgpack:"city"`
}

// MeetingRecord is a single meeting with customer
type MeetingRecord struct {
	ID        string    `json:"id" msgpack:"id"`
	Date      time.Time `json:"date" msgpack:"date"`
	Notes     string    `json:"notes" msgpack:"notes"`
	CreatedAt time.Time `json:"createdAt" msgpack:"createdAt"`
}

// Customer is customer model entity
type Customer struct {
	ID              string              `json:"id" msgpack:"id"`
	Avatar          string              `json:"avatar,omitempty" msgpack:"avatar"`
	FullName        string              `json:"fullName" msgpack:"fullName"`
	PhoneNumber     string              `json:"phoneNumber" msgpack:"phoneNumber"`
	DateOfBirth     time.Time           `json:"dateOfBirth" msgpack:"dateOfBirth"`
	Address         Address             `json:"address" msgpack:"address"`
	Occupation      string              `json:"occupation,omitempty" msgpack:"occupation"`
	FinancialStatus string              `json:"financialStatus,omitempty" msgpack:"financialStatus"`
	FamilyInfo      string              `json:"familyInfo,omitempty" msgpack:"familyInfo"`
	Location        string              `json:"location,omitempty" msgpack:"location"`
	Classification  Classification      `json:"classification" msgpack:"classification"`
	Contracts       []InsuranceContract `json:"insuranceContracts" msgpack:"insuranceContracts"`
	Meetings        []MeetingRecord     `json:"meetingRecords" msgpack:"meetingRecords"`
	Files           []string            `json:"files" msgpack:"files"`
	CreatedBy       string              `json:"createdBy" msgpack:"createdBy"`
	CreatedAt       time.Time           `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt" msgpack:"updatedAt"`
}

// ContractByNumber returns index of contract with provided number or -1
func (c *Customer) ContractByNumber(number string) int {
	for i := range c.Contracts {
		if c.Contracts[i].ContractNumber == number {
			return i
		}
	}
	return -1
}

// CalendarDate keeps only calendar date of t as UTC midnight, used for dates without time of day
func CalendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
