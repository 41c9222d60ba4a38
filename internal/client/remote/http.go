package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/trainpi/internal/client/session"
	"github.com/dmitrijs2005/trainpi/internal/common"
	"github.com/dmitrijs2005/trainpi/internal/models"
	"github.com/dmitrijs2005/trainpi/internal/rpc"
)

const maxErrorBody = 4 << 10

type HTTPClient struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

// NewHTTPClient returns a client for the REST API at baseURL. sess may be
// nil for the unauthenticated calls (Register, Login, Ping).
func NewHTTPClient(baseURL string, timeout time.Duration, sess *session.Session) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
	}
}

func (c *HTTPClient) List(ctx context.Context) ([]models.Exception, error) {
	var items []models.Exception
	if err := c.do(ctx, http.MethodGet, "/exceptions", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, fmt.Errorf("%w: expected an array", ErrMalformedPayload)
	}
	if err := validateAll(items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) Clear(ctx context.Context, id int64) (*models.Exception, error) {
	var e models.Exception
	path := "/exceptions/" + strconv.FormatInt(id, 10) + "/clear"
	if err := c.do(ctx, http.MethodPost, path, nil, &e); err != nil {
		return nil, err
	}
	if err := validateAll([]models.Exception{e}); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) Create(ctx context.Context, typ, remarks string) (*models.Exception, error) {
	var e models.Exception
	req := rpc.CreateExceptionRequest{Type: typ, Remarks: remarks}
	if err := c.do(ctx, http.MethodPost, "/exceptions", req, &e); err != nil {
		return nil, err
	}
	if err := validateAll([]models.Exception{e}); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", rpc.LoginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	var res rpc.RegisterResponse
	req := rpc.RegisterRequest{Email: email, Password: password, FullName: fullName}
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var res rpc.PingResponse
	return c.do(ctx, http.MethodGet, "/health", nil, &res)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil && c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

// statusError maps a non-2xx answer onto the package sentinels, keeping the
// server's message when it sent one.
func statusError(resp *http.Response) error {
	msg := http.StatusText(resp.StatusCode)
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		msg = body.Error
	}

	switch code := resp.StatusCode; {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %w: %s", ErrRemote, common.ErrorNotFound, msg)
	case code == http.StatusConflict:
		return fmt.Errorf("%w: %w: %s", ErrRemote, common.ErrorAlreadyExists, msg)
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %w: %s", ErrRemote, common.ErrorValidation, msg)
	case code >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, code, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrRemote, code, msg)
	}
}
