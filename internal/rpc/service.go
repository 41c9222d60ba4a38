package rpc

import (
	"context"

	"github.com/dmitrijs2005/trainpi/internal/models"
	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "trainpi.v1.TrainPi"

// FullMethod returns "/trainpi.v1.TrainPi/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Methods that do not require an access token.
var PublicMethods = map[string]struct{}{
	FullMethod("Register"): {},
	FullMethod("Login"):    {},
	FullMethod("Ping"):     {},
}

// TrainPiServer is implemented by the server transport.
type TrainPiServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*models.AuthResult, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	ListExceptions(context.Context, *ListExceptionsRequest) (*ListExceptionsResponse, error)
	CreateException(context.Context, *CreateExceptionRequest) (*ExceptionResponse, error)
	ClearException(context.Context, *ClearExceptionRequest) (*ExceptionResponse, error)
}

func unary[Req, Resp any](method string, call func(TrainPiServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	handler := func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(TrainPiServer)
		next := func(ctx context.Context, req any) (any, error) {
			resp, err := call(s, ctx, req.(*Req))
			if err != nil {
				return nil, err
			}
			return resp, nil
		}
		if interceptor == nil {
			return next(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		return interceptor(ctx, in, info, next)
	}
	return grpc.MethodDesc{MethodName: method, Handler: handler}
}

// ServiceDesc describes the TrainPi service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TrainPiServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", TrainPiServer.Register),
		unary("Login", TrainPiServer.Login),
		unary("Ping", TrainPiServer.Ping),
		unary("ListExceptions", TrainPiServer.ListExceptions),
		unary("CreateException", TrainPiServer.CreateException),
		unary("ClearException", TrainPiServer.ClearException),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "trainpi/v1/trainpi.json",
}

// RegisterTrainPiServer registers srv on s.
func RegisterTrainPiServer(s grpc.ServiceRegistrar, srv TrainPiServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client is the client stub for the TrainPi service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, FullMethod(method), in, out, opts...)
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	if err := c.invoke(ctx, "Register", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*models.AuthResult, error) {
	out := new(models.AuthResult)
	if err := c.invoke(ctx, "Login", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	out := new(PingResponse)
	if err := c.invoke(ctx, "Ping", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListExceptions(ctx context.Context, in *ListExceptionsRequest, opts ...grpc.CallOption) (*ListExceptionsResponse, error) {
	out := new(ListExceptionsResponse)
	if err := c.invoke(ctx, "ListExceptions", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateException(ctx context.Context, in *CreateExceptionRequest, opts ...grpc.CallOption) (*ExceptionResponse, error) {
	out := new(ExceptionResponse)
	if err := c.invoke(ctx, "CreateException", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ClearException(ctx context.Context, in *ClearExceptionRequest, opts ...grpc.CallOption) (*ExceptionResponse, error) {
	out := new(ExceptionResponse)
	if err := c.invoke(ctx, "ClearException", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
