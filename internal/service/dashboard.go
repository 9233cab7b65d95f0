package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/umalmyha/insurance-crm/internal/metrics"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/internal/reminder"
	"github.com/umalmyha/insurance-crm/internal/repository"
	"github.com/umalmyha/insurance-crm/pkg/db/transactor"
)

// DashboardService represents behavior of dashboard service.
// Zero moment means now, moment is always read in calendar location.
type DashboardService interface {
	Reminders(context.Context, time.Time) ([]model.Reminder, error)
	Stats(context.Context, time.Time) (model.DashboardStats, error)
	Dashboard(context.Context, time.Time) (*model.Dashboard, error)
}

type dashboardService struct {
	transactor  transactor.Transactor
	customerRps repository.CustomerRepository
	location    *time.Location
	clock       func() time.Time
	metrics     *metrics.Metrics
}

// NewDashboardService builds new DashboardService
func NewDashboardService(
	transactor transactor.Transactor,
	customerRps repository.CustomerRepository,
	location *time.Location,
	clock func() time.Time,
	m *metrics.Metrics,
) DashboardService {
	return &dashboardService{
		transactor:  transactor,
		customerRps: customerRps,
		location:    location,
		clock:       clock,
		metrics:     m,
	}
}

func (s *dashboardService) Reminders(ctx context.Context, at time.Time) ([]model.Reminder, error) {
	d, err := s.Dashboard(ctx, at)
	if err != nil {
		return nil, err
	}
	return d.Reminders, nil
}

func (s *dashboardService) Stats(ctx context.Context, at time.Time) (model.DashboardStats, error) {
	d, err := s.Dashboard(ctx, at)
	if err != nil {
		return model.DashboardStats{}, err
	}
	return d.Stats, nil
}

func (s *dashboardService) Dashboard(ctx context.Context, at time.Time) (*model.Dashboard, error) {
	start := time.Now()
	now := s.moment(at)

	customers, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	reminders := reminder.Compute(customers, now)
	stats := reminder.Summarize(customers, reminders, now)

	s.metrics.ObserveCompute(start, len(customers))
	s.metrics.CountReminders(reminders)

	logrus.WithFields(logrus.Fields{
		"at":        now.Format(time.RFC3339),
		"customers": len(customers),
		"reminders": len(reminders),
		"overdue":   stats.OverduePayments,
	}).Debug("dashboard has been computed")

	return &model.Dashboard{At: now, Stats: stats, Reminders: reminders}, nil
}

// snapshot reads all customers within single transaction, so concurrent writes are never seen partially
func (s *dashboardService) snapshot(ctx context.Context) ([]*model.Customer, error) {
	var customers []*model.Customer
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		customers, err = s.customerRps.FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read customers snapshot - %w", err)
	}
	return customers, nil
}

func (s *dashboardService) moment(at time.Time) time.Time {
	if at.IsZero() {
		at = s.clock()
	}
	return at.In(s.location)
}
