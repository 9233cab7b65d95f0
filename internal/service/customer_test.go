package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	cacheMocks "github.com/umalmyha/insurance-crm/internal/cache/mocks"
	apperrors "github.com/umalmyha/insurance-crm/internal/errors"
	"github.com/umalmyha/insurance-crm/internal/metrics"
	"github.com/umalmyha/insurance-crm/internal/model"
	rpsMocks "github.com/umalmyha/insurance-crm/internal/repository/mocks"
)

var testCustomerNow = time.Date(2024, time.March, 10, 3, 0, 0, 0, time.UTC)

type customerTestData struct {
	ctx      context.Context
	customer *model.Customer
}

type customerServiceTestSuite struct {
	suite.Suite
	customerSvc       CustomerService
	transactorMock    *rpsMocks.Transactor
	customerRpsMock   *rpsMocks.CustomerRepository
	customerCacheMock *cacheMocks.CustomerCacheRepository
	testData          *customerTestData
}

func (s *customerServiceTestSuite) SetupTest() {
	t := s.T()

	s.testData = &customerTestData{
		ctx: context.Background(),
		customer: &model.Customer{
			ID:             "ecc770d9-4576-4f72-affa-8b1454246692",
			FullName:       "Nguyễn Văn An",
			PhoneNumber:    "0901234567",
			DateOfBirth:    time.Date(1985, time.March, 13, 0, 0, 0, 0, time.UTC),
			Classification: model.ClassificationSigned,
			CreatedBy:      "b6ae1c0b-bb8b-4d5c-8d53-5d4d4fc3b0b5",
			CreatedAt:      time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC),
			Contracts: []model.InsuranceContract{
				{
					ID:               "7c4b1b50-08d8-4a6e-a0a4-0b4c8f7a9a10",
					Company:          "Prudential",
					ContractNumber:   "PRU-0001",
					JoinDate:         time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC),
					PremiumAmount:    decimal.NewFromInt(1500000),
					PaymentFrequency: model.PaymentMonthly,
					NextPaymentDate:  time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
				},
			},
			Meetings: make([]model.MeetingRecord, 0),
			Files:    make([]string, 0),
		},
	}

	s.transactorMock = rpsMocks.NewTransactor(t)
	s.transactorMock.On(
		"WithinTransaction",
		mock.Anything,
		mock.AnythingOfType("func(context.Context) error"),
	).Return(func(ctx context.Context, txFunc func(ctx context.Context) error) error {
		return txFunc(ctx)
	}).Maybe()

	s.customerRpsMock = rpsMocks.NewCustomerRepository(t)
	s.customerCacheMock = cacheMocks.NewCustomerCacheRepository(t)

	svc := NewCustomerService(s.transactorMock, s.customerRpsMock, s.customerCacheMock, metrics.New(prometheus.NewRegistry()))
	svc.(*customerService).now = func() time.Time { return testCustomerNow }
	s.customerSvc = svc
}

func (s *customerServiceTestSuite) TestFindByIDFromCache() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerCacheMock.On("FindByID", ctx, customer.ID).Return(customer, nil).Once()

	s.T().Log("customer must be found in cache")
	{
		_, err := s.customerSvc.FindByID(ctx, customer.ID)
		s.Assert().NoError(err, "no error must be raised")
		s.customerRpsMock.AssertNotCalled(s.T(), "FindByID", ctx, customer.ID)
	}
}

func (s *customerServiceTestSuite) TestFindByIDNotFound() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerCacheMock.On("FindByID", ctx, customer.ID).Return(nil, nil).Once()
	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(nil, nil).Once()

	s.T().Log("customer is missing in cache and in primary datasource")
	{
		c, err := s.customerSvc.FindByID(ctx, customer.ID)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().Nil(c, "no customer must be present but it was found")
		s.customerCacheMock.AssertNotCalled(s.T(), "Create", ctx, mock.AnythingOfType("*model.Customer"))
	}
}

func (s *customerServiceTestSuite) TestFindByIDCached() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerCacheMock.On("FindByID", ctx, customer.ID).Return(nil, nil).Once()
	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(customer, nil).Once()
	s.customerCacheMock.On("Create", ctx, customer).Return(nil).Once()

	s.T().Log("customer is not in cache, found in primary datasource and cached")
	{
		c, err := s.customerSvc.FindByID(ctx, customer.ID)
		s.Assert().NoError(err, "no error must be raised")
		s.Assert().NotNil(c, "customer must be found")
		s.customerCacheMock.AssertCalled(s.T(), "Create", ctx, mock.AnythingOfType("*model.Customer"))
	}
}

func (s *customerServiceTestSuite) TestDeleteByIDCacheFailed() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("DeleteByID", ctx, customer.ID).Return(nil).Once()
	s.customerCacheMock.On("DeleteByID", ctx, customer.ID).Return(errors.New("cache err")).Once()

	s.T().Log("delete customer from cache failed")
	{
		err := s.customerSvc.DeleteByID(ctx, customer.ID)
		s.Assert().Error(err, "cache raised error - error must be raised up")
	}
}

func (s *customerServiceTestSuite) TestDeleteByIDRepositoryFailed() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("DeleteByID", ctx, customer.ID).Return(errors.New("db err")).Once()

	s.T().Log("customer stays cached when delete is not committed")
	{
		err := s.customerSvc.DeleteByID(ctx, customer.ID)
		s.Assert().Error(err, "repository raised error - error must be raised up")
		s.customerCacheMock.AssertNotCalled(s.T(), "DeleteByID", ctx, customer.ID)
	}
}

func (s *customerServiceTestSuite) TestDeleteByIDSuccessfully() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerCacheMock.On("DeleteByID", ctx, customer.ID).Return(nil).Once()
	s.customerRpsMock.On("DeleteByID", ctx, customer.ID).Return(nil).Once()

	s.T().Log("deleted successfully")
	{
		err := s.customerSvc.DeleteByID(ctx, customer.ID)
		s.Assert().NoError(err, "no error must be raised")
		s.customerRpsMock.AssertCalled(s.T(), "DeleteByID", ctx, customer.ID)
	}
}

func (s *customerServiceTestSuite) TestCreateSuccessfully() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	customer.DateOfBirth = time.Date(1985, time.March, 13, 0, 0, 0, 0, time.FixedZone("ICT", 7*60*60))
	customer.Contracts[0].NextPaymentDate = time.Time{}

	s.customerRpsMock.On("FindByPhoneNumber", ctx, customer.PhoneNumber).Return(nil, nil).Once()
	s.customerRpsMock.On("FindByContractNumber", ctx, "PRU-0001").Return(nil, nil).Once()
	s.customerRpsMock.On("Create", ctx, customer).Return(nil).Once()

	s.T().Log("customer must be created successfully")
	{
		c, err := s.customerSvc.Create(ctx, customer)
		s.Require().NoError(err, "no error must be raised")
		s.Assert().NotEqual("ecc770d9-4576-4f72-affa-8b1454246692", c.ID, "new id must be generated")
		s.Assert().Equal(testCustomerNow, c.CreatedAt, "creation time must be set")
		s.Assert().Equal(time.Date(1985, time.March, 13, 0, 0, 0, 0, time.UTC), c.DateOfBirth, "date of birth must keep calendar date")
	}

	s.T().Log("next payment date is derived from join date")
	{
		next := customer.Contracts[0].NextPaymentDate
		s.Assert().Equal(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), next, "next monthly payment after now is expected")
	}
}

func (s *customerServiceTestSuite) TestCreatePhoneNumberReserved() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	other := &model.Customer{ID: "c4b4c4a8-4d4e-4c63-9ea8-a6c7d2ff5ac0", PhoneNumber: customer.PhoneNumber}

	s.customerRpsMock.On("FindByPhoneNumber", ctx, customer.PhoneNumber).Return(other, nil).Once()

	s.T().Log("phone number is used by another customer")
	{
		_, err := s.customerSvc.Create(ctx, customer)
		s.Assert().Error(err, "phone number is reserved but no error raised")
		s.Assert().IsType(&apperrors.BusinessErr{}, err, "error must be business error")
		s.customerRpsMock.AssertNotCalled(s.T(), "Create", ctx, mock.AnythingOfType("*model.Customer"))
	}
}

func (s *customerServiceTestSuite) TestCreateContractNumberReserved() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	owner := &model.Customer{ID: "c4b4c4a8-4d4e-4c63-9ea8-a6c7d2ff5ac0"}

	s.customerRpsMock.On("FindByPhoneNumber", ctx, customer.PhoneNumber).Return(nil, nil).Once()
	s.customerRpsMock.On("FindByContractNumber", ctx, "PRU-0001").Return(owner, nil).Once()

	s.T().Log("contract number is used by another customer")
	{
		_, err := s.customerSvc.Create(ctx, customer)
		s.Assert().Error(err, "contract number is reserved but no error raised")
		s.Assert().IsType(&apperrors.BusinessErr{}, err, "error must be business error")
	}
}

func (s *customerServiceTestSuite) TestCreateDuplicateContractsInPayload() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	customer.Contracts = append(customer.Contracts, customer.Contracts[0])
	customer.Contracts[1].ID = ""

	s.customerRpsMock.On("FindByPhoneNumber", ctx, customer.PhoneNumber).Return(nil, nil).Once()
	s.customerRpsMock.On("FindByContractNumber", ctx, "PRU-0001").Return(nil, nil).Once()

	s.T().Log("same contract number twice for one customer")
	{
		_, err := s.customerSvc.Create(ctx, customer)
		s.Assert().Error(err, "contract number is duplicated but no error raised")
		s.Assert().IsType(&apperrors.BusinessErr{}, err, "error must be business error")
	}
}

func (s *customerServiceTestSuite) TestCreateUnknownFrequency() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	customer.Contracts[0].NextPaymentDate = time.Time{}
	customer.Contracts[0].PaymentFrequency = model.PaymentFrequency("week")

	s.T().Log("contract with unknown frequency is rejected")
	{
		_, err := s.customerSvc.Create(ctx, customer)
		s.Require().Error(err, "unknown frequency but no error raised")

		var echoErr *echo.HTTPError
		s.Require().ErrorAs(err, &echoErr, "error must be echo error")
		s.Assert().Equal(http.StatusBadRequest, echoErr.Code)
	}
}

func (s *customerServiceTestSuite) TestUpdateNotFound() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(nil, nil).Once()

	s.T().Log("customer doesn't exist")
	{
		_, err := s.customerSvc.Update(ctx, customer)
		s.Require().Error(err, "customer doesn't exist but no error raised")

		var echoErr *echo.HTTPError
		s.Require().ErrorAs(err, &echoErr, "error must be echo error")
		s.Assert().Equal(http.StatusNotFound, echoErr.Code)
		s.customerRpsMock.AssertNotCalled(s.T(), "Update", ctx, mock.AnythingOfType("*model.Customer"))
	}
}

func (s *customerServiceTestSuite) TestUpdateKeepsCreationAudit() {
	ctx := s.testData.ctx
	existing := s.testData.customer

	upd := &model.Customer{
		ID:             existing.ID,
		FullName:       "Nguyễn Văn An",
		PhoneNumber:    existing.PhoneNumber,
		Classification: model.ClassificationDropped,
		CreatedBy:      "someone-else",
	}

	s.customerRpsMock.On("FindByID", ctx, existing.ID).Return(existing, nil).Once()
	s.customerRpsMock.On("FindByPhoneNumber", ctx, existing.PhoneNumber).Return(existing, nil).Once()
	s.customerCacheMock.On("DeleteByID", ctx, existing.ID).Return(nil).Once()
	s.customerRpsMock.On("Update", ctx, upd).Return(nil).Once()

	s.T().Log("customer is replaced but creation fields are kept")
	{
		c, err := s.customerSvc.Update(ctx, upd)
		s.Require().NoError(err, "no error must be raised")
		s.Assert().Equal(existing.CreatedAt, c.CreatedAt, "creation time must be kept")
		s.Assert().Equal(existing.CreatedBy, c.CreatedBy, "creator must be kept")
		s.Assert().Equal(testCustomerNow, c.UpdatedAt, "update time must be set")
		s.Assert().Empty(c.Contracts, "contracts are replaced too")
	}
}

func (s *customerServiceTestSuite) TestAddContractSuccessfully() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	ic := &model.InsuranceContract{
		Company:          "Manulife",
		ContractNumber:   "MNL-0002",
		JoinDate:         time.Date(2022, time.June, 20, 0, 0, 0, 0, time.UTC),
		PremiumAmount:    decimal.RequireFromString("12000000"),
		PaymentFrequency: model.PaymentAnnual,
	}

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(customer, nil).Once()
	s.customerRpsMock.On("FindByContractNumber", ctx, ic.ContractNumber).Return(nil, nil).Once()
	s.customerCacheMock.On("DeleteByID", ctx, customer.ID).Return(nil).Once()
	s.customerRpsMock.On("Update", ctx, customer).Return(nil).Once()

	s.T().Log("contract is appended with derived next payment date")
	{
		c, err := s.customerSvc.AddContract(ctx, customer.ID, ic)
		s.Require().NoError(err, "no error must be raised")
		s.Require().Len(c.Contracts, 2, "contract must be appended")
		s.Assert().NotEmpty(c.Contracts[1].ID, "contract id must be generated")
		s.Assert().Equal(time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC), c.Contracts[1].NextPaymentDate)
	}
}

func (s *customerServiceTestSuite) TestAddContractNumberReserved() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	ic := &model.InsuranceContract{
		Company:          "Prudential",
		ContractNumber:   "PRU-0001",
		PaymentFrequency: model.PaymentMonthly,
		NextPaymentDate:  testCustomerNow,
	}

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(customer, nil).Once()

	s.T().Log("contract number already belongs to the customer")
	{
		_, err := s.customerSvc.AddContract(ctx, customer.ID, ic)
		s.Assert().Error(err, "contract number is reserved but no error raised")
		s.Assert().IsType(&apperrors.BusinessErr{}, err, "error must be business error")
		s.customerRpsMock.AssertNotCalled(s.T(), "Update", ctx, mock.AnythingOfType("*model.Customer"))
	}
}

func (s *customerServiceTestSuite) TestRemoveContractNotFound() {
	ctx := s.testData.ctx
	customer := s.testData.customer

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(customer, nil).Once()

	s.T().Log("unknown contract can't be removed")
	{
		_, err := s.customerSvc.RemoveContract(ctx, customer.ID, "unknown")
		s.Require().Error(err, "contract doesn't exist but no error raised")

		var echoErr *echo.HTTPError
		s.Require().ErrorAs(err, &echoErr, "error must be echo error")
		s.Assert().Equal(http.StatusNotFound, echoErr.Code)
	}
}

func (s *customerServiceTestSuite) TestRemoveContractSuccessfully() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	contractID := customer.Contracts[0].ID

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(customer, nil).Once()
	s.customerCacheMock.On("DeleteByID", ctx, customer.ID).Return(nil).Once()
	s.customerRpsMock.On("Update", ctx, customer).Return(nil).Once()

	s.T().Log("contract is removed")
	{
		c, err := s.customerSvc.RemoveContract(ctx, customer.ID, contractID)
		s.Require().NoError(err, "no error must be raised")
		s.Assert().Empty(c.Contracts, "contract must be removed")
	}
}

func (s *customerServiceTestSuite) TestAddMeetingSuccessfully() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	meeting := &model.MeetingRecord{Date: testCustomerNow.Add(48 * time.Hour), Notes: "tư vấn gói hưu trí"}

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(customer, nil).Once()
	s.customerCacheMock.On("DeleteByID", ctx, customer.ID).Return(nil).Once()
	s.customerRpsMock.On("Update", ctx, customer).Return(nil).Once()

	s.T().Log("meeting is recorded")
	{
		c, err := s.customerSvc.AddMeeting(ctx, customer.ID, meeting)
		s.Require().NoError(err, "no error must be raised")
		s.Require().Len(c.Meetings, 1, "meeting must be appended")
		s.Assert().NotEmpty(c.Meetings[0].ID, "meeting id must be generated")
		s.Assert().Equal(testCustomerNow, c.Meetings[0].CreatedAt)
	}
}

func (s *customerServiceTestSuite) TestModifyEvictsAfterCommit() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	meeting := &model.MeetingRecord{Date: testCustomerNow.Add(24 * time.Hour), Notes: "ký hợp đồng"}

	calls := make([]string, 0)
	s.transactorMock.ExpectedCalls = nil
	s.transactorMock.On(
		"WithinTransaction",
		mock.Anything,
		mock.AnythingOfType("func(context.Context) error"),
	).Return(func(ctx context.Context, txFunc func(ctx context.Context) error) error {
		err := txFunc(ctx)
		calls = append(calls, "commit")
		return err
	}).Once()

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(customer, nil).Once()
	s.customerRpsMock.On("Update", ctx, customer).Return(nil).Run(func(mock.Arguments) {
		calls = append(calls, "update")
	}).Once()
	s.customerCacheMock.On("DeleteByID", ctx, customer.ID).Return(nil).Run(func(mock.Arguments) {
		calls = append(calls, "evict")
	}).Once()

	s.T().Log("cache is evicted once transaction is committed")
	{
		_, err := s.customerSvc.AddMeeting(ctx, customer.ID, meeting)
		s.Require().NoError(err, "no error must be raised")
		s.Assert().Equal([]string{"update", "commit", "evict"}, calls)
	}
}

func (s *customerServiceTestSuite) TestModifyFailedKeepsCache() {
	ctx := s.testData.ctx
	customer := s.testData.customer
	meeting := &model.MeetingRecord{Date: testCustomerNow.Add(24 * time.Hour), Notes: "ký hợp đồng"}

	s.customerRpsMock.On("FindByID", ctx, customer.ID).Return(customer, nil).Once()
	s.customerRpsMock.On("Update", ctx, customer).Return(errors.New("db err")).Once()

	s.T().Log("cache is untouched when transaction fails")
	{
		_, err := s.customerSvc.AddMeeting(ctx, customer.ID, meeting)
		s.Assert().Error(err, "repository raised error - error must be raised up")
		s.customerCacheMock.AssertNotCalled(s.T(), "DeleteByID", ctx, customer.ID)
	}
}

func (s *customerServiceTestSuite) TestAttachFileCustomerNotFound() {
	ctx := s.testData.ctx

	s.customerRpsMock.On("FindByID", ctx, "missing").Return(nil, nil).Once()

	s.T().Log("file can't be attached to unknown customer")
	{
		_, err := s.customerSvc.AttachFile(ctx, "missing", "files/contract.pdf")
		s.Assert().Error(err, "customer doesn't exist but no error raised")
		s.Assert().IsType(&echo.HTTPError{}, err, "error must be echo error")
	}
}

func (s *customerServiceTestSuite) TestFindAllFiltered() {
	ctx := s.testData.ctx

	customers := []*model.Customer{
		{ID: "1", FullName: "Nguyễn Văn An", PhoneNumber: "0901234567", Classification: model.ClassificationSigned},
		{ID: "2", FullName: "Trần Thị Bình", PhoneNumber: "0912345678", Classification: model.ClassificationPotential},
		{ID: "3", FullName: "Lê Văn Cường", PhoneNumber: "0923456789", Classification: model.ClassificationPotential},
	}

	s.customerRpsMock.On("FindAll", ctx).Return(customers, nil).Times(4)

	s.T().Log("no filter returns everything")
	{
		found, err := s.customerSvc.FindAll(ctx, CustomerFilter{})
		s.Require().NoError(err, "no error must be raised")
		s.Assert().Len(found, 3)
	}

	s.T().Log("name is matched case-insensitively")
	{
		found, err := s.customerSvc.FindAll(ctx, CustomerFilter{Query: "VĂN"})
		s.Require().NoError(err, "no error must be raised")
		s.Assert().Len(found, 2)
	}

	s.T().Log("phone number is matched by substring")
	{
		found, err := s.customerSvc.FindAll(ctx, CustomerFilter{Query: "0912"})
		s.Require().NoError(err, "no error must be raised")
		s.Require().Len(found, 1)
		s.Assert().Equal("2", found[0].ID)
	}

	s.T().Log("classification narrows result")
	{
		found, err := s.customerSvc.FindAll(ctx, CustomerFilter{Query: "văn", Classification: model.ClassificationPotential})
		s.Require().NoError(err, "no error must be raised")
		s.Require().Len(found, 1)
		s.Assert().Equal("3", found[0].ID)
	}
}

// start customer service test suite
func TestCustomerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(customerServiceTestSuite))
}
