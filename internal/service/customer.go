package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/umalmyha/insurance-crm/internal/cache"
	apperrors "github.com/umalmyha/insurance-crm/internal/errors"
	"github.com/umalmyha/insurance-crm/internal/metrics"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/internal/reminder"
	"github.com/umalmyha/insurance-crm/internal/repository"
	"github.com/umalmyha/insurance-crm/pkg/db/transactor"
)

// CustomerFilter narrows customers list
type CustomerFilter struct {
	// Query is matched against name (case-insensitive) and phone number
	Query          string
	Classification model.Classification
}

// CustomerService represents behavior of customer service
type CustomerService interface {
	FindAll(context.Context, CustomerFilter) ([]*model.Customer, error)
	FindByID(context.Context, string) (*model.Customer, error)
	Create(context.Context, *model.Customer) (*model.Customer, error)
	Update(context.Context, *model.Customer) (*model.Customer, error)
	DeleteByID(context.Context, string) error
	AddContract(context.Context, string, *model.InsuranceContract) (*model.Customer, error)
	RemoveContract(context.Context, string, string) (*model.Customer, error)
	AddMeeting(context.Context, string, *model.MeetingRecord) (*model.Customer, error)
	AttachFile(context.Context, string, string) (*model.Customer, error)
}

type customerService struct {
	// serializes writers, readers go straight to repository
	mu            sync.Mutex
	transactor    transactor.Transactor
	customerRps   repository.CustomerRepository
	customerCache cache.CustomerCacheRepository
	metrics       *metrics.Metrics
	now           func() time.Time
}

// NewCustomerService builds new CustomerService
func NewCustomerService(
	transactor transactor.Transactor,
	customerRps repository.CustomerRepository,
	customerCache cache.CustomerCacheRepository,
	m *metrics.Metrics,
) CustomerService {
	return &customerService{
		transactor:    transactor,
		customerRps:   customerRps,
		customerCache: customerCache,
		metrics:       m,
		now:           time.Now,
	}
}

func (s *customerService) FindAll(ctx context.Context, filter CustomerFilter) ([]*model.Customer, error) {
	customers, err := s.customerRps.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read customers - %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	if query == "" && filter.Classification == "" {
		return customers, nil
	}

	found := make([]*model.Customer, 0)
	for _, c := range customers {
		if filter.Classification != "" && c.Classification != filter.Classification {
			continue
		}

		if query != "" && !strings.Contains(strings.ToLower(c.FullName), query) && !strings.Contains(c.PhoneNumber, query) {
			continue
		}
		found = append(found, c)
	}
	return found, nil
}

// FindByID looks up cache first, customer read from repository is cached
func (s *customerService) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	c, err := s.customerCache.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer %s from cache - %w", id, err)
	}
	s.metrics.IncrementCacheLookup(c != nil)

	if c != nil {
		return c, nil
	}

	c, err = s.customerRps.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read customer %s - %w", id, err)
	}

	if c == nil {
		return nil, nil
	}

	if err := s.customerCache.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to cache customer %s - %w", id, err)
	}
	return c, nil
}

func (s *customerService) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.prepare(c, now); err != nil {
		return nil, err
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, c); err != nil {
			return err
		}
		return s.customerRps.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementMutation("create")
	return c, nil
}

// Update replaces customer entirely, creation audit fields are kept
func (s *customerService) Update(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if err := s.prepare(c, now); err != nil {
		return nil, err
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.customerRps.FindByID(ctx, c.ID)
		if err != nil {
			return err
		}

		if existing == nil {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("customer %s doesn't exist", c.ID))
		}

		c.CreatedAt = existing.CreatedAt
		c.CreatedBy = existing.CreatedBy
		c.UpdatedAt = now

		if err := s.checkUnique(ctx, c); err != nil {
			return err
		}
		return s.customerRps.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	if err := s.evict(ctx, c.ID); err != nil {
		return nil, err
	}

	s.metrics.IncrementMutation("update")
	return c, nil
}

func (s *customerService) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.customerRps.DeleteByID(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete customer %s - %w", id, err)
	}

	if err := s.evict(ctx, id); err != nil {
		return err
	}

	s.metrics.IncrementMutation("delete")
	return nil
}

// AddContract appends contract to customer, next payment date is derived from join date when missing
func (s *customerService) AddContract(ctx context.Context, customerID string, ic *model.InsuranceContract) (*model.Customer, error) {
	now := s.now().UTC()
	if err := prepareContract(ic, now); err != nil {
		return nil, err
	}

	return s.modify(ctx, customerID, "add-contract", func(ctx context.Context, c *model.Customer) error {
		if c.ContractByNumber(ic.ContractNumber) >= 0 {
			return duplicateContractErr(ic.ContractNumber)
		}

		owner, err := s.customerRps.FindByContractNumber(ctx, ic.ContractNumber)
		if err != nil {
			return err
		}

		if owner != nil {
			return duplicateContractErr(ic.ContractNumber)
		}

		c.Contracts = append(c.Contracts, *ic)
		return nil
	})
}

func (s *customerService) RemoveContract(ctx context.Context, customerID, contractID string) (*model.Customer, error) {
	return s.modify(ctx, customerID, "remove-contract", func(_ context.Context, c *model.Customer) error {
		for i := range c.Contracts {
			if c.Contracts[i].ID == contractID {
				c.Contracts = append(c.Contracts[:i], c.Contracts[i+1:]...)
				return nil
			}
		}
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("contract %s doesn't exist", contractID))
	})
}

func (s *customerService) AddMeeting(ctx context.Context, customerID string, m *model.MeetingRecord) (*model.Customer, error) {
	m.ID = uuid.NewString()
	m.CreatedAt = s.now().UTC()

	return s.modify(ctx, customerID, "add-meeting", func(_ context.Context, c *model.Customer) error {
		c.Meetings = append(c.Meetings, *m)
		return nil
	})
}

func (s *customerService) AttachFile(ctx context.Context, customerID, path string) (*model.Customer, error) {
	return s.modify(ctx, customerID, "attach-file", func(_ context.Context, c *model.Customer) error {
		c.Files = append(c.Files, path)
		return nil
	})
}

// modify loads customer, applies fn and stores result within single transaction
func (s *customerService) modify(
	ctx context.Context,
	customerID string,
	operation string,
	fn func(context.Context, *model.Customer) error,
) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c *model.Customer
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.customerRps.FindByID(ctx, customerID)
		if err != nil {
			return err
		}

		if c == nil {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("customer %s doesn't exist", customerID))
		}

		if err := fn(ctx, c); err != nil {
			return err
		}
		c.UpdatedAt = s.now().UTC()
		return s.customerRps.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	if err := s.evict(ctx, c.ID); err != nil {
		return nil, err
	}

	s.metrics.IncrementMutation(operation)
	return c, nil
}

// evict drops cached customer, it is called only after transaction is committed
func (s *customerService) evict(ctx context.Context, id string) error {
	if err := s.customerCache.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to evict customer %s from cache - %w", id, err)
	}
	return nil
}

func (s *customerService) prepare(c *model.Customer, now time.Time) error {
	c.DateOfBirth = model.CalendarDate(c.DateOfBirth)

	if c.Contracts == nil {
		c.Contracts = make([]model.InsuranceContract, 0)
	}

	if c.Meetings == nil {
		c.Meetings = make([]model.MeetingRecord, 0)
	}

	if c.Files == nil {
		c.Files = make([]string, 0)
	}

	for i := range c.Contracts {
		if err := prepareContract(&c.Contracts[i], now); err != nil {
			return err
		}
	}

	for i := range c.Meetings {
		if c.Meetings[i].ID == "" {
			c.Meetings[i].ID = uuid.NewString()
		}

		if c.Meetings[i].CreatedAt.IsZero() {
			c.Meetings[i].CreatedAt = now
		}
	}
	return nil
}

func prepareContract(ic *model.InsuranceContract, now time.Time) error {
	if ic.ID == "" {
		ic.ID = uuid.NewString()
	}

	if !ic.NextPaymentDate.IsZero() || ic.JoinDate.IsZero() {
		return nil
	}

	next, err := reminder.NextPaymentDate(ic.JoinDate, ic.PaymentFrequency, now)
	if err != nil {
		if errors.Is(err, reminder.ErrUnknownFrequency) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	ic.NextPaymentDate = next
	return nil
}

// checkUnique verifies that phone number and contract numbers of c are not used by other customers
func (s *customerService) checkUnique(ctx context.Context, c *model.Customer) error {
	owner, err := s.customerRps.FindByPhoneNumber(ctx, c.PhoneNumber)
	if err != nil {
		return err
	}

	if owner != nil && owner.ID != c.ID {
		return apperrors.NewBusinessErr("phoneNumber", fmt.Sprintf("customer with phone number %s already exists", c.PhoneNumber))
	}

	seen := make(map[string]struct{}, len(c.Contracts))
	for _, ic := range c.Contracts {
		if _, ok := seen[ic.ContractNumber]; ok {
			return duplicateContractErr(ic.ContractNumber)
		}
		seen[ic.ContractNumber] = struct{}{}

		owner, err := s.customerRps.FindByContractNumber(ctx, ic.ContractNumber)
		if err != nil {
			return err
		}

		if owner != nil && owner.ID != c.ID {
			return duplicateContractErr(ic.ContractNumber)
		}
	}
	return nil
}

func duplicateContractErr(number string) error {
	return apperrors.NewBusinessErr("contractNumber", fmt.Sprintf("contract number %s already exists", number))
}
