package reminder

import (
	"time"

	"github.com/umalmyha/insurance-crm/internal/model"
)

// Stats computes dashboard statistics, reminders are computed on the fly
func Stats(customers []*model.Customer, now time.Time) model.DashboardStats {
	return Summarize(customers, Compute(customers, now), now)
}

// Summarize computes dashboard statistics from customers and reminders already computed
// for the same snapshot and moment
func Summarize(customers []*model.Customer, reminders []model.Reminder, now time.Time) model.DashboardStats {
	stats := model.DashboardStats{TotalCustomers: len(customers)}
	monthStart := startOfMonth(now)

	for _, c := range customers {
		if c == nil {
			continue
		}

		switch c.Classification {
		case model.ClassificationSigned:
			stats.SignedCount++
		case model.ClassificationPotential:
			stats.PotentialCount++
		case model.ClassificationDropped:
			stats.DroppedCount++
		}

		if hasUpcomingMeeting(c, now) {
			stats.UpcomingMeetings++
		}

		if !c.CreatedAt.Before(monthStart) {
			stats.NewCustomersThisMonth++
		}
	}

	for _, r := range reminders {
		switch r.Type {
		case model.ReminderBirthday:
			stats.UpcomingBirthdays++
		case model.ReminderPaymentDue:
			stats.UpcomingPayments++
		case model.ReminderPaymentOverdue:
			stats.OverduePayments++
		}
	}

	return stats
}

func hasUpcomingMeeting(c *model.Customer, now time.Time) bool {
	for _, m := range c.Meetings {
		if m.Date.After(now) {
			return true
		}
	}
	return false
}
