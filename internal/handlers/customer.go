package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/umalmyha/insurance-crm/internal/auth"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/internal/service"
)

type identifier struct {
	ID string `json:"id" validate:"required,uuid"`
}

type address struct {
	Hamlet   string `json:"hamlet"`
	Commune  string `json:"commune"`
	District string `json:"district"`
	Province string `json:"province"`
	City     string `json:"city"`
}

type newContract struct {
	Company          string                 `json:"company" validate:"required,max=200"`
	ContractNumber   string                 `json:"contractNumber" validate:"required,max=50"`
	PolicyDetails    string                 `json:"policyDetails"`
	JoinDate         time.Time              `json:"joinDate"`
	PremiumAmount    decimal.Decimal        `json:"premiumAmount" swaggertype:"string"`
	PaymentFrequency model.PaymentFrequency `json:"paymentFrequency" validate:"required,oneof=month quarter 6-month year"`
	NextPaymentDate  time.Time              `json:"nextPaymentDate"`
}

type newMeeting struct {
	Date  time.Time `json:"date" validate:"required"`
	Notes string    `json:"notes" validate:"max=4000"`
}

type newCustomer struct {
	FullName        string               `json:"fullName" validate:"required,max=200"`
	PhoneNumber     string               `json:"phoneNumber" validate:"required,max=20"`
	DateOfBirth     time.Time            `json:"dateOfBirth"`
	Avatar          string               `json:"avatar"`
	Address         address              `json:"address"`
	Occupation      string               `json:"occupation"`
	FinancialStatus string               `json:"financialStatus"`
	FamilyInfo      string               `json:"familyInfo"`
	Location        string               `json:"location"`
	Classification  model.Classification `json:"classification" validate:"required,oneof=Signed Potential Dropped"`
	Contracts       []newContract        `json:"insuranceContracts" validate:"dive"`
	Meetings        []newMeeting         `json:"meetingRecords" validate:"dive"`
}

type updateCustomer struct {
	ID string `param:"id" validate:"required,uuid"`
	newCustomer
}

type customerContract struct {
	CustomerID string `param:"id" validate:"required,uuid"`
	newContract
}

type customerMeeting struct {
	CustomerID string `param:"id" validate:"required,uuid"`
	newMeeting
}

type customersQuery struct {
	Query          string               `query:"q"`
	Classification model.Classification `query:"classification" validate:"omitempty,oneof=Signed Potential Dropped"`
}

// CustomerHTTPHandler is http handler for customer endpoint
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc}
}

// Get gets customer
// @Summary     Get single customer by id
// @Description Returns single customer with provided id
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     200    {object} model.Customer
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id} [get]
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	customer, err := h.customerSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if customer == nil {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("customer %s doesn't exist", id))
	}

	return c.JSON(http.StatusOK, customer)
}

// GetAll gets customers
// @Summary     Get all customers
// @Description Returns customers, optionally filtered by name/phone and classification
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       q              query    string false "Part of name (case-insensitive) or phone number"
// @Param       classification query    string false "Classification" Enums(Signed, Potential, Dropped)
// @Success     200            {array}  model.Customer
// @Failure     400            {object} echo.HTTPError
// @Failure     500            {object} echo.HTTPError
// @Router      /api/customers [get]
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	var q customersQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&q); err != nil {
		return err
	}

	customers, err := h.customerSvc.FindAll(c.Request().Context(), service.CustomerFilter{
		Query:          q.Query,
		Classification: q.Classification,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// Post creates new customer
// @Summary     New Customer
// @Description Creates new customer, phone number and contract numbers must be unique
// @Tags        customers
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param 		newCustomer body	 newCustomer true "Data for new customer"
// @Success     201    		{object} model.Customer
// @Failure     400    		{object} echo.HTTPError
// @Failure     409    		{object} errors.BusinessErr
// @Failure     500    		{object} echo.HTTPError
// @Router      /api/customers [post]
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var nc newCustomer
	if err := c.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nc); err != nil {
		return err
	}

	cust, err := nc.customer()
	if err != nil {
		return err
	}

	if claims := auth.ClaimsFromContext(c.Request().Context()); claims != nil {
		cust.CreatedBy = claims.Subject
	}

	customer, err := h.customerSvc.Create(c.Request().Context(), cust)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, customer)
}

// Put updates customer
// @Summary     Update Customer
// @Description Replaces customer data, contracts and meetings
// @Tags        customers
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param       id     		   path 	string 		   true "Customer guid" Format(uuid)
// @Param 		updateCustomer body	    newCustomer    true "Customer data"
// @Success     200    		   {object} model.Customer
// @Failure     400    		   {object} echo.HTTPError
// @Failure     404    		   {object} echo.HTTPError
// @Failure     409    		   {object} errors.BusinessErr
// @Failure     500    		   {object} echo.HTTPError
// @Router      /api/customers/{id} [put]
func (h *CustomerHTTPHandler) Put(c echo.Context) error {
	var uc updateCustomer
	if err := c.Bind(&uc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&uc); err != nil {
		return err
	}

	cust, err := uc.customer()
	if err != nil {
		return err
	}
	cust.ID = uc.ID

	customer, err := h.customerSvc.Update(c.Request().Context(), cust)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteByID deletes customer
// @Summary     Delete customer by id
// @Description Deletes customer with provided id together with contracts and meetings
// @Tags        customers
// @Security	ApiKeyAuth
// @Param       id     path 	string true "Customer guid" Format(uuid)
// @Success     204    "Successful status code"
// @Failure     400    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/customers/{id} [delete]
func (h *CustomerHTTPHandler) DeleteByID(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	if err := h.customerSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// PostContract adds contract to customer
// @Summary     New insurance contract
// @Description Adds insurance contract to customer, next payment date is derived from join date if omitted
// @Tags        customers
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param       id          path 	 string      true "Customer guid" Format(uuid)
// @Param 		newContract body	 newContract true "Contract data"
// @Success     201    		{object} model.Customer
// @Failure     400    		{object} echo.HTTPError
// @Failure     404    		{object} echo.HTTPError
// @Failure     409    		{object} errors.BusinessErr
// @Failure     500    		{object} echo.HTTPError
// @Router      /api/customers/{id}/contracts [post]
func (h *CustomerHTTPHandler) PostContract(c echo.Context) error {
	var cc customerContract
	if err := c.Bind(&cc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&cc); err != nil {
		return err
	}

	ic, err := cc.contract()
	if err != nil {
		return err
	}

	customer, err := h.customerSvc.AddContract(c.Request().Context(), cc.CustomerID, ic)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, customer)
}

// DeleteContract removes contract from customer
// @Summary     Remove insurance contract
// @Description Removes insurance contract from customer
// @Tags        customers
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id         path 	string true "Customer guid" Format(uuid)
// @Param       contractId path 	string true "Contract guid" Format(uuid)
// @Success     200        {object} model.Customer
// @Failure     400        {object} echo.HTTPError
// @Failure     404        {object} echo.HTTPError
// @Failure     500        {object} echo.HTTPError
// @Router      /api/customers/{id}/contracts/{contractId} [delete]
func (h *CustomerHTTPHandler) DeleteContract(c echo.Context) error {
	id, contractID := c.Param("id"), c.Param("contractId")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	if err := c.Validate(&identifier{ID: contractID}); err != nil {
		return err
	}

	customer, err := h.customerSvc.RemoveContract(c.Request().Context(), id, contractID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customer)
}

// PostMeeting records meeting with customer
// @Summary     New meeting record
// @Description Records meeting with customer
// @Tags        customers
// @Security	ApiKeyAuth
// @Accept		json
// @Produce     json
// @Param       id         path 	string     true "Customer guid" Format(uuid)
// @Param 		newMeeting body	    newMeeting true "Meeting data"
// @Success     201        {object} model.Customer
// @Failure     400        {object} echo.HTTPError
// @Failure     404        {object} echo.HTTPError
// @Failure     500        {object} echo.HTTPError
// @Router      /api/customers/{id}/meetings [post]
func (h *CustomerHTTPHandler) PostMeeting(c echo.Context) error {
	var cm customerMeeting
	if err := c.Bind(&cm); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&cm); err != nil {
		return err
	}

	customer, err := h.customerSvc.AddMeeting(c.Request().Context(), cm.CustomerID, &model.MeetingRecord{
		Date:  cm.Date.UTC(),
		Notes: cm.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, customer)
}

func (nc *newContract) contract() (*model.InsuranceContract, error) {
	if nc.PremiumAmount.IsNegative() {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "premium amount can't be negative")
	}

	return &model.InsuranceContract{
		Company:          nc.Company,
		ContractNumber:   nc.ContractNumber,
		PolicyDetails:    nc.PolicyDetails,
		JoinDate:         model.CalendarDate(nc.JoinDate),
		PremiumAmount:    nc.PremiumAmount,
		PaymentFrequency: nc.PaymentFrequency,
		NextPaymentDate:  model.CalendarDate(nc.NextPaymentDate),
	}, nil
}

func (nc *newCustomer) customer() (*model.Customer, error) {
	contracts := make([]model.InsuranceContract, 0, len(nc.Contracts))
	for i := range nc.Contracts {
		ic, err := nc.Contracts[i].contract()
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *ic)
	}

	meetings := make([]model.MeetingRecord, 0, len(nc.Meetings))
	for _, m := range nc.Meetings {
		meetings = append(meetings, model.MeetingRecord{Date: m.Date.UTC(), Notes: m.Notes})
	}

	return &model.Customer{
		FullName:    nc.FullName,
		PhoneNumber: nc.PhoneNumber,
		DateOfBirth: nc.DateOfBirth,
		Avatar:      nc.Avatar,
		Address: model.Address{
			Hamlet:   nc.Address.Hamlet,
			Commune:  nc.Address.Commune,
			District: nc.Address.District,
			Province: nc.Address.Province,
			City:     nc.Address.City,
		},
		Occupation:      nc.Occupation,
		FinancialStatus: nc.FinancialStatus,
		FamilyInfo:      nc.FamilyInfo,
		Location:        nc.Location,
		Classification:  nc.Classification,
		Contracts:       contracts,
		Meetings:        meetings,
		Files:           make([]string, 0),
	}, nil
}
