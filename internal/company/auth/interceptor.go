// Package auth guards the mutating CompanyService calls with HS256 bearer
// tokens, both on the gRPC server and on the REST gateway. Verified claims
// travel on the request context so later layers can attribute changes.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	authorizationHeader = "authorization"
	bearerPrefix        = "Bearer "
)

var (
	errMissingAuthorization = errors.New("authorization header required")
	errBearerFormat         = errors.New("invalid authorization format")
)

// ProtectedMethods lists the full gRPC method names that require a valid token.
var ProtectedMethods = []string{
	"/company.v1.CompanyService/CreateCompany",
	"/company.v1.CompanyService/UpdateCompany",
	"/company.v1.CompanyService/DeleteCompany",
	"/company.v1.CompanyService/DeleteAllCompanies",
}

type claimsKey struct{}

// NewContext returns a copy of ctx carrying verified token claims.
func NewContext(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by NewContext.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(jwt.MapClaims)
	return claims, ok
}

// Subject returns the "sub" claim of the authenticated caller, or "" for
// anonymous requests.
func Subject(ctx context.Context) string {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

// Interceptor rejects calls to protected methods that lack a valid token.
// It runs ahead of call logging, so rejections are logged here.
type Interceptor struct {
	secret    []byte
	protected map[string]struct{}
	logger    *zap.Logger
}

func NewAuthInterceptor(jwtSecret string, logger *zap.Logger) *Interceptor {
	protected := make(map[string]struct{}, len(ProtectedMethods))
	for _, method := range ProtectedMethods {
		protected[method] = struct{}{}
	}
	return &Interceptor{
		secret:    []byte(jwtSecret),
		protected: protected,
		logger:    logger.Named("auth"),
	}
}

// Unary returns the interceptor as a grpc.UnaryServerInterceptor.
func (i *Interceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if _, ok := i.protected[info.FullMethod]; !ok {
			return handler(ctx, req)
		}

		ctx, err := authorize(ctx, headerFromMetadata(ctx), i.secret)
		if err != nil {
			i.logger.Warn("Rejected unauthenticated call",
				zap.String("method", info.FullMethod),
				zap.Error(err),
			)
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(ctx, req)
	}
}

func headerFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(authorizationHeader); len(values) > 0 {
		return values[0]
	}
	return ""
}

// authorize verifies an Authorization header value and stores its claims on ctx.
func authorize(ctx context.Context, header string, secret []byte) (context.Context, error) {
	token, err := parseBearer(header)
	if err != nil {
		return ctx, err
	}
	claims, err := parseClaims(token, secret)
	if err != nil {
		return ctx, err
	}
	return NewContext(ctx, claims), nil
}

func parseBearer(header string) (string, error) {
	if header == "" {
		return "", errMissingAuthorization
	}
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || token == "" {
		return "", errBearerFormat
	}
	return token, nil
}

func parseClaims(token string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Join(errors.New("invalid token"), err)
	}
	return claims, nil
}
