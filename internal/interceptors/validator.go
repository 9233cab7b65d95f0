package interceptors

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ValidatorUnaryInterceptor runs struct validation on payload, payloads which are not structs are passed through
func ValidatorUnaryInterceptor(v *validator.Validate, applicables ...UnaryInterceptorApplicable) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		if !isUnaryInterceptorApplicable(info, applicables...) {
			return h(ctx, req)
		}

		if err := v.StructCtx(ctx, req); err != nil {
			var invalidErr *validator.InvalidValidationError
			if !errors.As(err, &invalidErr) {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
		}

		return h(ctx, req)
	}
}
