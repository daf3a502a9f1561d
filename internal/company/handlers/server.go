// Package handlers provides gRPC and HTTP server implementations for
// serving the CompanyService, bridging the transport layer and business logic,
// translating between wire messages and domain models.
package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gartstein/companies/internal/company/auth"
	"github.com/gartstein/companies/internal/company/models"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// CompanyController defines the business logic interface
// that the gRPC/HTTP handlers will invoke.
type CompanyController interface {
	CreateCompany(ctx context.Context, form *models.CompanyForm) (*models.Company, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	GetCompanyByName(ctx context.Context, name string) (*models.Company, error)
	GetCompanyByNickname(ctx context.Context, nickname string) (*models.Company, error)
	ListCompanies(ctx context.Context, opts models.ListOptions) ([]models.Company, error)
	UpdateCompany(ctx context.Context, id string, form *models.CompanyForm) (*models.Company, error)
	DeleteCompany(ctx context.Context, id string) error
	DeleteAllCompanies(ctx context.Context) error
}

// Server holds references to both a gRPC server and an HTTP server.
type Server struct {
	grpcServer   *grpc.Server
	httpServer   *http.Server
	health       *health.Server
	logger       *zap.Logger
	grpcEndpoint string
	httpEndpoint string
}

// NewServer constructs a Server with separate endpoints for gRPC and HTTP.
func NewServer(
	grpcPort int,
	httpPort int,
	logger *zap.Logger,
	grpcOpts ...grpc.ServerOption,
) *Server {
	s := &Server{
		grpcServer:   grpc.NewServer(grpcOpts...),
		httpServer:   &http.Server{ReadHeaderTimeout: 10 * time.Second},
		health:       health.NewServer(),
		logger:       logger.Named("server"),
		grpcEndpoint: fmt.Sprintf(":%d", grpcPort),
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
	}
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	return s
}

// RegisterGRPCHandler registers the gRPC handler for the CompanyService.
func (s *Server) RegisterGRPCHandler(h CompanyServiceServer) {
	s.grpcServer.RegisterService(&CompanyServiceDesc, h)
	s.health.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
}

// RegisterHTTPGateway mounts the REST routes for h, guarded by the JWT middleware.
func (s *Server) RegisterHTTPGateway(h CompanyServiceServer, jwtSecret string) error {
	mux, err := NewGatewayMux(h)
	if err != nil {
		return err
	}

	s.httpServer.Handler = auth.HTTPMiddleware(mux, jwtSecret)
	s.httpServer.Addr = s.httpEndpoint
	return nil
}

// Start runs the gRPC and HTTP servers concurrently, returning on the first error.
func (s *Server) Start() error {
	var wg sync.WaitGroup
	wg.Add(2)
	errChan := make(chan error, 2)

	go func() {
		defer wg.Done()
		s.logger.Info("Starting gRPC server", zap.String("endpoint", s.grpcEndpoint))
		lis, err := net.Listen("tcp", s.grpcEndpoint)
		if err != nil {
			errChan <- fmt.Errorf("gRPC listen error: %w", err)
			return
		}
		if err := s.grpcServer.Serve(lis); err != nil {
			errChan <- fmt.Errorf("gRPC serve error: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		s.logger.Info("Starting HTTP server", zap.String("endpoint", s.httpEndpoint))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP serve error: %w", err)
		}
	}()

	go func() {
		wg.Wait()
		close(errChan)
	}()

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}

// Stop gracefully shuts down both gRPC and HTTP servers.
func (s *Server) Stop() {
	s.logger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Servers stopped")
}

// LoggingInterceptor logs every unary call with its method, caller, latency
// and status. The caller is the token subject when an auth interceptor ran
// earlier in the chain, "anonymous" otherwise.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	logger = logger.Named("grpc")
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		caller := auth.Subject(ctx)
		if caller == "" {
			caller = "anonymous"
		}
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("caller", caller),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			logger.Warn("gRPC call failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("gRPC call", fields...)
		}
		return resp, err
	}
}
