package infra

import (
	"errors"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/umalmyha/insurance-crm/internal/auth"
	apperrors "github.com/umalmyha/insurance-crm/internal/errors"
	"github.com/umalmyha/insurance-crm/internal/handlers"
	"github.com/umalmyha/insurance-crm/internal/middleware"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/internal/service"
	"github.com/umalmyha/insurance-crm/internal/validation"
)

// Services is set of application services exposed over http and grpc
type Services struct {
	Auth      service.AuthService
	User      service.UserService
	Customer  service.CustomerService
	Dashboard service.DashboardService
	Learning  service.LearningService
}

// RouterCfg is http router settings
type RouterCfg struct {
	AuthCfg  handlers.AuthCfg
	FilesDir string
	Gatherer prometheus.Gatherer
}

// Router builds echo application with all api routes
func Router(
	svcs Services,
	jwtValidator *auth.JwtValidator,
	v *validator.Validate,
	trans ut.Translator,
	cfg RouterCfg,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = handlers.JSONSerializer{}
	e.Validator = validation.Echo(v, trans)
	e.HTTPErrorHandler = errorHandler(e)

	// Middleware
	authorizeMw := middleware.Authorize(jwtValidator)
	adminOnlyMw := middleware.RequireRole(model.RoleAdmin)
	managersMw := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

	// Handlers
	authHandler := handlers.NewAuthHTTPHandler(svcs.Auth, cfg.AuthCfg)
	userHandler := handlers.NewUserHTTPHandler(svcs.User)
	customerHandler := handlers.NewCustomerHTTPHandler(svcs.Customer)
	fileHandler := handlers.NewFileHTTPHandler(svcs.Customer, cfg.FilesDir)
	learningHandler := handlers.NewLearningHTTPHandler(svcs.Learning)
	dashboardHandler := handlers.NewDashboardHTTPHandler(svcs.Dashboard)

	// Service routes
	if cfg.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API routes
	api := e.Group("/api")

	// auth
	authAPI := api.Group("/auth")
	authAPI.POST("/login", authHandler.Login)
	authAPI.POST("/logout", authHandler.Logout)
	authAPI.POST("/refresh", authHandler.Refresh)

	// users
	usersAPI := api.Group("/users", authorizeMw)
	usersAPI.GET("/me", userHandler.Me)
	usersAPI.GET("", userHandler.GetAll, adminOnlyMw)
	usersAPI.GET("/:id", userHandler.Get, adminOnlyMw)
	usersAPI.POST("", userHandler.Post, adminOnlyMw)

	// customers
	customersAPI := api.Group("/customers", authorizeMw)
	customersAPI.GET("", customerHandler.GetAll)
	customersAPI.GET("/:id", customerHandler.Get)
	customersAPI.POST("", customerHandler.Post, managersMw)
	customersAPI.PUT("/:id", customerHandler.Put, managersMw)
	customersAPI.DELETE("/:id", customerHandler.DeleteByID, managersMw)
	customersAPI.POST("/:id/contracts", customerHandler.PostContract, managersMw)
	customersAPI.DELETE("/:id/contracts/:contractId", customerHandler.DeleteContract, managersMw)
	customersAPI.POST("/:id/meetings", customerHandler.PostMeeting)
	customersAPI.POST("/:id/files", fileHandler.Upload, managersMw)
	customersAPI.GET("/:id/files/:name", fileHandler.Download)

	// learning
	learningAPI := api.Group("/learning", authorizeMw)
	learningAPI.GET("", learningHandler.GetAll)
	learningAPI.POST("", learningHandler.Post, adminOnlyMw)
	learningAPI.DELETE("/:id", learningHandler.DeleteByID, adminOnlyMw)

	// reminders and dashboard
	api.GET("/reminders", dashboardHandler.Reminders, authorizeMw)
	api.GET("/dashboard", dashboardHandler.Dashboard, authorizeMw)
	api.GET("/dashboard/stats", dashboardHandler.Stats, authorizeMw)

	return e
}

// errorHandler responds with conflict for business rule violations and bad request for invalid payload
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			businessErr *apperrors.BusinessErr
			payloadErr  *validation.PayloadError
			status      int
			body        any
		)

		switch {
		case errors.As(err, &businessErr):
			status, body = http.StatusConflict, businessErr
		case errors.As(err, &payloadErr):
			status, body = http.StatusBadRequest, payloadErr
		default:
			logrus.WithFields(logrus.Fields{
				"method": c.Request().Method,
				"uri":    c.Request().RequestURI,
			}).Errorf("request processing failed - %v", err)
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		if err := c.JSON(status, body); err != nil {
			logrus.Errorf("failed to write error response - %v", err)
		}
	}
}
