// Package grpc serves the TrainPi RPC service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/trainpi/internal/logging"
	"github.com/dmitrijs2005/trainpi/internal/rpc"
	"github.com/dmitrijs2005/trainpi/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address    string
	users      services.Users
	exceptions services.Exceptions
	logger     logging.Logger
	jwtSecret  []byte
}

func NewGRPCServer(a string, l logging.Logger, us services.Users, es services.Exceptions, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		users:      us,
		exceptions: es,
		jwtSecret:  []byte(secretKey),
	}
}

// NewServer builds a grpc.Server with the access token interceptor and the
// TrainPi service registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterTrainPiServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
