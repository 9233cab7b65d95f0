package reminder

import (
	"errors"
	"fmt"
	"time"

	"github.com/umalmyha/insurance-crm/internal/model"
)

// ErrUnknownFrequency is returned for payment frequency which has no billing period
var ErrUnknownFrequency = errors.New("unknown payment frequency")

// NextPaymentDate steps from join date by billing period of frequency until the date is not before now
func NextPaymentDate(joinDate time.Time, frequency model.PaymentFrequency, now time.Time) (time.Time, error) {
	months := frequency.Months()
	if months == 0 {
		return time.Time{}, fmt.Errorf("%w %q", ErrUnknownFrequency, frequency)
	}

	next := joinDate
	for next.Before(now) {
		next = next.AddDate(0, months, 0)
	}
	return next, nil
}
