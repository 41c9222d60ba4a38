package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/models"
	"github.com/dmitrijs2005/trainpi/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrorValidation), errors.Is(err, models.ErrUnknownStatus):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		s.logger.Error(ctx, "rpc failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {
	u, err := s.users.Register(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.RegisterResponse{User: *u}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*models.AuthResult, error) {
	res, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return res, nil
}

func (s *GRPCServer) Ping(context.Context, *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "ok"}, nil
}

func (s *GRPCServer) ListExceptions(ctx context.Context, req *rpc.ListExceptionsRequest) (*rpc.ListExceptionsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	filter, err := models.ParseStatusFilter(req.Status)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	items, err := s.exceptions.List(ctx, userID, filter)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.ListExceptionsResponse{Exceptions: items}, nil
}

func (s *GRPCServer) CreateException(ctx context.Context, req *rpc.CreateExceptionRequest) (*rpc.ExceptionResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	e, err := s.exceptions.Create(ctx, userID, req.Type, req.Remarks)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.ExceptionResponse{Exception: *e}, nil
}

func (s *GRPCServer) ClearException(ctx context.Context, req *rpc.ClearExceptionRequest) (*rpc.ExceptionResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id must be positive")
	}
	e, err := s.exceptions.Clear(ctx, userID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.ExceptionResponse{Exception: *e}, nil
}
