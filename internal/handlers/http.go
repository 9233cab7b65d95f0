package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/umalmyha/insurance-crm/internal/auth"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/internal/service"
)

type newUser struct {
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=6,max=72"`
	FullName    string     `json:"fullName" validate:"required,max=200"`
	Role        model.Role `json:"role" validate:"required,oneof=Admin Manager Staff"`
	PhoneNumber string     `json:"phoneNumber" validate:"max=20"`
	Avatar      string     `json:"avatar"`
}

type usersQuery struct {
	Query string `query:"q"`
}

type newLearningContent struct {
	Title        string                    `json:"title" validate:"required,max=300"`
	Description  string                    `json:"description"`
	Type         model.LearningContentType `json:"type" validate:"required,oneof=video pdf announcement"`
	URL          string                    `json:"url" validate:"omitempty,url"`
	ThumbnailURL string                    `json:"thumbnailUrl" validate:"omitempty,url"`
}

type learningQuery struct {
	Type model.LearningContentType `query:"type" validate:"omitempty,oneof=video pdf announcement"`
}

type momentQuery struct {
	At string `query:"at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// UserHTTPHandler is http handler for user endpoint
type UserHTTPHandler struct {
	userSvc service.UserService
}

// NewUserHTTPHandler builds new UserHTTPHandler
func NewUserHTTPHandler(userSvc service.UserService) *UserHTTPHandler {
	return &UserHTTPHandler{userSvc: userSvc}
}

// Post creates new user
// @Summary     New user
// @Description Registers new user with provided role, email must be unique
// @Tags        users
// @Security	ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       newUser body	 newUser true "New user data"
// @Success     201     {object} model.User
// @Failure     400     {object} echo.HTTPError
// @Failure     403     {object} echo.HTTPError
// @Failure     409     {object} echo.HTTPError
// @Failure     500     {object} echo.HTTPError
// @Router      /api/users [post]
func (h *UserHTTPHandler) Post(c echo.Context) error {
	var nu newUser
	if err := c.Bind(&nu); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nu); err != nil {
		return err
	}

	var createdBy string
	if claims := auth.ClaimsFromContext(c.Request().Context()); claims != nil {
		createdBy = claims.Subject
	}

	u, err := h.userSvc.Create(c.Request().Context(), service.NewUser{
		Email:       nu.Email,
		Password:    nu.Password,
		FullName:    nu.FullName,
		Role:        nu.Role,
		PhoneNumber: nu.PhoneNumber,
		Avatar:      nu.Avatar,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, u)
}

// GetAll gets users
// @Summary     Get all users
// @Description Returns users, optionally filtered by name, email or role
// @Tags        users
// @Security	ApiKeyAuth
// @Produce     json
// @Param       q      query    string false "Part of name, email or role"
// @Success     200    {array}  model.User
// @Failure     403    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/users [get]
func (h *UserHTTPHandler) GetAll(c echo.Context) error {
	var q usersQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	users, err := h.userSvc.FindAll(c.Request().Context(), q.Query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get gets user
// @Summary     Get single user by id
// @Description Returns single user with provided id
// @Tags        users
// @Security	ApiKeyAuth
// @Produce     json
// @Param       id     path 	string true "User guid" Format(uuid)
// @Success     200    {object} model.User
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/users/{id} [get]
func (h *UserHTTPHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}
	return h.respondUser(c, id)
}

// Me gets current user
// @Summary     Current user
// @Description Returns user the access token was issued for
// @Tags        users
// @Security	ApiKeyAuth
// @Produce     json
// @Success     200    {object} model.User
// @Failure     401    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/users/me [get]
func (h *UserHTTPHandler) Me(c echo.Context) error {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "user is not authorized")
	}
	return h.respondUser(c, claims.Subject)
}

func (h *UserHTTPHandler) respondUser(c echo.Context, id string) error {
	u, err := h.userSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if u == nil {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("user %s doesn't exist", id))
	}
	return c.JSON(http.StatusOK, u)
}

// LearningHTTPHandler is http handler for learning content endpoint
type LearningHTTPHandler struct {
	learningSvc service.LearningService
}

// NewLearningHTTPHandler builds new LearningHTTPHandler
func NewLearningHTTPHandler(learningSvc service.LearningService) *LearningHTTPHandler {
	return &LearningHTTPHandler{learningSvc: learningSvc}
}

// GetAll gets learning content
// @Summary     Get learning content
// @Description Returns learning content newest first
// @Tags        learning
// @Security	ApiKeyAuth
// @Produce     json
// @Param       type   query    string false "Content type" Enums(video, pdf, announcement)
// @Success     200    {array}  model.LearningContent
// @Failure     400    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/learning [get]
func (h *LearningHTTPHandler) GetAll(c echo.Context) error {
	var q learningQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&q); err != nil {
		return err
	}

	contents, err := h.learningSvc.FindAll(c.Request().Context(), q.Type)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contents)
}

// Post creates learning content
// @Summary     New learning content
// @Description Publishes video, pdf or announcement
// @Tags        learning
// @Security	ApiKeyAuth
// @Accept      json
// @Produce     json
// @Param       newLearningContent body	    newLearningContent true "Learning content"
// @Success     201                {object} model.LearningContent
// @Failure     400                {object} echo.HTTPError
// @Failure     403                {object} echo.HTTPError
// @Failure     500                {object} echo.HTTPError
// @Router      /api/learning [post]
func (h *LearningHTTPHandler) Post(c echo.Context) error {
	var nlc newLearningContent
	if err := c.Bind(&nlc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nlc); err != nil {
		return err
	}

	lc := &model.LearningContent{
		Title:        nlc.Title,
		Description:  nlc.Description,
		Type:         nlc.Type,
		URL:          nlc.URL,
		ThumbnailURL: nlc.ThumbnailURL,
	}

	if claims := auth.ClaimsFromContext(c.Request().Context()); claims != nil {
		lc.CreatedBy = claims.Subject
	}

	created, err := h.learningSvc.Create(c.Request().Context(), lc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// DeleteByID deletes learning content
// @Summary     Delete learning content by id
// @Description Deletes learning content with provided id
// @Tags        learning
// @Security	ApiKeyAuth
// @Param       id     path 	string true "Learning content guid" Format(uuid)
// @Success     204    "Successful status code"
// @Failure     400    {object} echo.HTTPError
// @Failure     403    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/learning/{id} [delete]
func (h *LearningHTTPHandler) DeleteByID(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	if err := h.learningSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DashboardHTTPHandler is http handler for reminders and dashboard statistics
type DashboardHTTPHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHTTPHandler builds new DashboardHTTPHandler
func NewDashboardHTTPHandler(dashboardSvc service.DashboardService) *DashboardHTTPHandler {
	return &DashboardHTTPHandler{dashboardSvc: dashboardSvc}
}

// Reminders gets reminders
// @Summary     Reminders
// @Description Returns birthday and payment reminders, overdue payments go first
// @Tags        dashboard
// @Security	ApiKeyAuth
// @Produce     json
// @Param       at     query    string false "Moment in RFC3339, current time if omitted"
// @Success     200    {array}  model.Reminder
// @Failure     400    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/reminders [get]
func (h *DashboardHTTPHandler) Reminders(c echo.Context) error {
	at, err := moment(c)
	if err != nil {
		return err
	}

	reminders, err := h.dashboardSvc.Reminders(c.Request().Context(), at)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reminders)
}

// Stats gets dashboard statistics
// @Summary     Dashboard statistics
// @Description Returns customers summary
// @Tags        dashboard
// @Security	ApiKeyAuth
// @Produce     json
// @Param       at     query    string false "Moment in RFC3339, current time if omitted"
// @Success     200    {object} model.DashboardStats
// @Failure     400    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/dashboard/stats [get]
func (h *DashboardHTTPHandler) Stats(c echo.Context) error {
	at, err := moment(c)
	if err != nil {
		return err
	}

	stats, err := h.dashboardSvc.Stats(c.Request().Context(), at)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Dashboard gets reminders and statistics together
// @Summary     Dashboard
// @Description Returns reminders and statistics computed at the same moment
// @Tags        dashboard
// @Security	ApiKeyAuth
// @Produce     json
// @Param       at     query    string false "Moment in RFC3339, current time if omitted"
// @Success     200    {object} model.Dashboard
// @Failure     400    {object} echo.HTTPError
// @Failure     500    {object} echo.HTTPError
// @Router      /api/dashboard [get]
func (h *DashboardHTTPHandler) Dashboard(c echo.Context) error {
	at, err := moment(c)
	if err != nil {
		return err
	}

	d, err := h.dashboardSvc.Dashboard(c.Request().Context(), at)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// moment reads optional at query parameter, zero time means now
func moment(c echo.Context) (time.Time, error) {
	var q momentQuery
	if err := c.Bind(&q); err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&q); err != nil {
		return time.Time{}, err
	}
	return parseMoment(q.At)
}

func parseMoment(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("moment %s is not RFC3339 - %v", raw, err))
	}
	return at, nil
}
