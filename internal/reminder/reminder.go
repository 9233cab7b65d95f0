// Package reminder derives reminders and dashboard statistics from a snapshot of customers.
//
// Everything here is pure: no I/O, no shared state and no clock reads. The reference moment
// is always passed by caller and its location is treated as the local calendar, so repeated
// calls with the same snapshot and moment return identical results.
package reminder

import (
	"fmt"
	"sort"
	"time"

	"github.com/umalmyha/insurance-crm/internal/model"
)

const (
	// BirthdayWindowDays is how many days ahead birthday is reported
	BirthdayWindowDays = 5
	// PaymentWindowDays is how many days ahead premium payment is reported
	PaymentWindowDays = 30
)

// Compute builds reminders for all customers and ranks them by urgency.
// Overdue payments go first ordered by days overdue, then birthdays and due payments
// ordered by days left. Ties keep order of customers and their contracts.
// Customers must not be mutated while Compute is running.
func Compute(customers []*model.Customer, now time.Time) []model.Reminder {
	reminders := make([]model.Reminder, 0)

	for _, c := range customers {
		if c == nil {
			continue
		}

		if r, ok := birthdayReminder(c, now); ok {
			reminders = append(reminders, r)
		}

		for i := range c.Contracts {
			if r, ok := paymentReminder(c, &c.Contracts[i], now); ok {
				reminders = append(reminders, r)
			}
		}
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		return ranksBefore(reminders[i], reminders[j])
	})
	return reminders
}

func birthdayReminder(c *model.Customer, now time.Time) (model.Reminder, bool) {
	if c.DateOfBirth.IsZero() {
		return model.Reminder{}, false
	}

	birthday := nextBirthday(c.DateOfBirth, now)
	days := daysCeil(now, birthday)
	if days < 0 || days > BirthdayWindowDays {
		return model.Reminder{}, false
	}

	return model.Reminder{
		CustomerID:   c.ID,
		CustomerName: c.FullName,
		Type:         model.ReminderBirthday,
		Date:         birthday,
		DaysUntil:    &days,
		Message:      fmt.Sprintf("Còn %d ngày nữa tới sinh nhật", days),
	}, true
}

func paymentReminder(c *model.Customer, contract *model.InsuranceContract, now time.Time) (model.Reminder, bool) {
	if contract.NextPaymentDate.IsZero() {
		return model.Reminder{}, false
	}

	days := daysCeil(now, inLocation(contract.NextPaymentDate, now.Location()))

	if days < 0 {
		overdue := -days
		return model.Reminder{
			CustomerID:   c.ID,
			CustomerName: c.FullName,
			Type:         model.ReminderPaymentOverdue,
			Date:         contract.NextPaymentDate,
			DaysOverdue:  &overdue,
			Message:      fmt.Sprintf("Đã trễ phí %d ngày - %s", overdue, contract.Company),
		}, true
	}

	if days > PaymentWindowDays {
		return model.Reminder{}, false
	}

	return model.Reminder{
		CustomerID:   c.ID,
		CustomerName: c.FullName,
		Type:         model.ReminderPaymentDue,
		Date:         contract.NextPaymentDate,
		DaysUntil:    &days,
		Message:      fmt.Sprintf("Còn %d ngày nữa tới hạn đóng phí - %s", days, contract.Company),
	}, true
}

func ranksBefore(a, b model.Reminder) bool {
	if a.Overdue() != b.Overdue() {
		return a.Overdue()
	}
	return severity(a) < severity(b)
}

// severity is days overdue for late payments and days left for everything else
func severity(r model.Reminder) int {
	if r.DaysOverdue != nil {
		return *r.DaysOverdue
	}
	if r.DaysUntil != nil {
		return *r.DaysUntil
	}
	return 0
}
