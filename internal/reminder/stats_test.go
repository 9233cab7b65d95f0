package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/umalmyha/insurance-crm/internal/model"
)

func TestStatsCounts(t *testing.T) {
	monthStart := time.Date(2024, time.March, 1, 0, 0, 0, 0, testZone)

	signed := customerBornOn("signed", daysFromNow(1))
	signed.Classification = model.ClassificationSigned
	signed.CreatedAt = monthStart
	signed.Contracts = []model.InsuranceContract{
		contractDue("c1", "Prudential", daysFromNow(3)),
		contractDue("c2", "AIA", daysFromNow(-2)),
	}
	signed.Meetings = []model.MeetingRecord{
		{ID: "m1", Date: testNow.Add(time.Hour)},
		{ID: "m2", Date: testNow.Add(48 * time.Hour)},
	}

	potential := customerBornOn("potential", daysFromNow(60))
	potential.CreatedAt = monthStart.Add(-time.Nanosecond)
	potential.Meetings = []model.MeetingRecord{{ID: "m3", Date: testNow.Add(-time.Hour)}}

	dropped := customerBornOn("dropped", daysFromNow(60))
	dropped.Classification = model.ClassificationDropped
	dropped.CreatedAt = testNow

	t.Log("stats are aggregated over classification, meetings, reminders and creation date")
	{
		stats := Stats([]*model.Customer{signed, potential, dropped}, testNow)
		require.Equal(t, model.DashboardStats{
			TotalCustomers:        3,
			SignedCount:           1,
			PotentialCount:        1,
			DroppedCount:          1,
			UpcomingMeetings:      1,
			UpcomingPayments:      1,
			OverduePayments:       1,
			UpcomingBirthdays:     1,
			NewCustomersThisMonth: 2,
		}, stats)
	}

	t.Log("empty collection gives zero stats")
	{
		require.Equal(t, model.DashboardStats{}, Stats(nil, testNow))
	}
}

func TestStatsMatchReminders(t *testing.T) {
	customers := make([]*model.Customer, 0)
	for i := -20; i <= 40; i += 3 {
		c := customerBornOn("c", daysFromNow(i))
		c.Contracts = []model.InsuranceContract{
			contractDue("a", "A", daysFromNow(i)),
			contractDue("b", "B", daysFromNow(-i)),
		}
		customers = append(customers, c)
	}

	t.Log("reminder counters of stats equal counts of reminder types")
	{
		reminders := Compute(customers, testNow)
		stats := Stats(customers, testNow)

		require.Equal(t, len(remindersOfType(reminders, model.ReminderBirthday)), stats.UpcomingBirthdays)
		require.Equal(t, len(remindersOfType(reminders, model.ReminderPaymentDue)), stats.UpcomingPayments)
		require.Equal(t, len(remindersOfType(reminders, model.ReminderPaymentOverdue)), stats.OverduePayments)
		require.Equal(t, len(reminders), stats.UpcomingBirthdays+stats.UpcomingPayments+stats.OverduePayments)
	}
}

func TestStatsNewCustomersUseLocalMonth(t *testing.T) {
	// 2024-03-01 03:00 in UTC+7 is still February in UTC
	now := time.Date(2024, time.March, 1, 3, 0, 0, 0, testZone)
	c := &model.Customer{ID: "1", CreatedAt: time.Date(2024, time.February, 29, 18, 0, 0, 0, time.UTC)}

	t.Log("customer created after local midnight of the 1st is new this month")
	{
		stats := Stats([]*model.Customer{c}, now)
		require.Equal(t, 1, stats.NewCustomersThisMonth)
	}

	t.Log("month boundary follows location of now")
	{
		stats := Stats([]*model.Customer{c}, now.UTC())
		require.Equal(t, 1, stats.NewCustomersThisMonth, "moment is still in February in UTC")

		stats = Stats([]*model.Customer{c}, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC))
		require.Equal(t, 0, stats.NewCustomersThisMonth)
	}
}
