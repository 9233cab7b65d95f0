package interceptors

import (
	"context"
	"strings"

	"github.com/umalmyha/insurance-crm/internal/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	accessTokenHeader   = "accesstoken"
	authorizationHeader = "authorization"
)

// AuthUnaryInterceptor verifies that jwt is provided in metadata and valid, claims are put into context
func AuthUnaryInterceptor(validator *auth.JwtValidator, applicables ...UnaryInterceptorApplicable) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		if !isUnaryInterceptorApplicable(info, applicables...) {
			return h(ctx, req)
		}

		headers, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "no auth info provided")
		}

		token := accessToken(headers)
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, "accessToken header is missing")
		}

		claims, err := validator.Verify(token)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "invalid access token provided - %v", err)
		}

		return h(auth.WithClaims(ctx, claims), req)
	}
}

// accessToken reads token from accessToken header or from bearer authorization header
func accessToken(headers metadata.MD) string {
	if tokenHdr := headers.Get(accessTokenHeader); len(tokenHdr) > 0 {
		return tokenHdr[0]
	}

	if authHdr := headers.Get(authorizationHeader); len(authHdr) > 0 {
		if token, ok := strings.CutPrefix(authHdr[0], "Bearer "); ok {
			return token
		}
	}
	return ""
}
