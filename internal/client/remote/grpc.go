package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trainpi/internal/client/session"
	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/models"
	"github.com/dmitrijs2005/trainpi/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	conn    *grpc.ClientConn
	client  *rpc.Client
	session *session.Session
	timeout time.Duration
}

// NewGRPCClient dials addr lazily; no network traffic happens until the
// first call. Extra dial options are appended after the defaults.
func NewGRPCClient(addr string, timeout time.Duration, sess *session.Session, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{session: sess, timeout: timeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewClient(conn)
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the session token and bounds every call
// by the configured timeout.
func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.session != nil && c.session.Token != "" {
		ctx = withAccessToken(ctx, c.session.Token)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (c *GRPCClient) mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %w: %s", ErrRemote, common.ErrorNotFound, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %w: %s", ErrRemote, common.ErrorAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %w: %s", ErrRemote, common.ErrorValidation, st.Message())
	default:
		return fmt.Errorf("%w: rpc error: %s", ErrRemote, st.Message())
	}
}

func (c *GRPCClient) List(ctx context.Context) ([]models.Exception, error) {
	res, err := c.client.ListExceptions(ctx, &rpc.ListExceptionsRequest{})
	if err != nil {
		return nil, c.mapError(err)
	}
	if res.Exceptions == nil {
		return nil, fmt.Errorf("%w: expected an array", ErrMalformedPayload)
	}
	if err := validateAll(res.Exceptions); err != nil {
		return nil, err
	}
	return res.Exceptions, nil
}

func (c *GRPCClient) Clear(ctx context.Context, id int64) (*models.Exception, error) {
	res, err := c.client.ClearException(ctx, &rpc.ClearExceptionRequest{ID: id})
	if err != nil {
		return nil, c.mapError(err)
	}
	if err := validateAll([]models.Exception{res.Exception}); err != nil {
		return nil, err
	}
	return &res.Exception, nil
}

func (c *GRPCClient) Create(ctx context.Context, typ, remarks string) (*models.Exception, error) {
	res, err := c.client.CreateException(ctx, &rpc.CreateExceptionRequest{Type: typ, Remarks: remarks})
	if err != nil {
		return nil, c.mapError(err)
	}
	if err := validateAll([]models.Exception{res.Exception}); err != nil {
		return nil, err
	}
	return &res.Exception, nil
}

func (c *GRPCClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	res, err := c.client.Login(ctx, &rpc.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, c.mapError(err)
	}
	return res, nil
}

func (c *GRPCClient) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	res, err := c.client.Register(ctx, &rpc.RegisterRequest{Email: email, Password: password, FullName: fullName})
	if err != nil {
		return nil, c.mapError(err)
	}
	return &res.User, nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	if _, err := c.client.Ping(ctx, &rpc.PingRequest{}); err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}
