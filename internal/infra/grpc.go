package infra

import (
	"github.com/go-playground/validator/v10"
	"github.com/umalmyha/insurance-crm/internal/auth"
	"github.com/umalmyha/insurance-crm/internal/handlers"
	"github.com/umalmyha/insurance-crm/internal/interceptors"
	"github.com/umalmyha/insurance-crm/rpc"
	"google.golang.org/grpc"
)

// GrpcServer builds gRPC server with reminder service registered
func GrpcServer(svcs Services, jwtValidator *auth.JwtValidator, v *validator.Validate) *grpc.Server {
	reminderSvc := interceptors.UnaryApplicableForService(rpc.ReminderServiceName)

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		interceptors.ErrorUnaryInterceptor(),
		interceptors.AuthUnaryInterceptor(jwtValidator, reminderSvc),
		interceptors.ValidatorUnaryInterceptor(v, reminderSvc),
	))

	rpc.RegisterReminderServiceServer(server, handlers.NewReminderGrpcHandler(svcs.Dashboard))
	return server
}
