package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spec-kit/freight-console/internal/observability"
)

const maxResponseBytes = 8 << 20

// Config configures the back-office client.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	RateBurst     int
	LoginPath     string
	Transport     http.RoundTripper
	Validator     ExpiryChecker
	Logger        *zap.Logger
	Metrics       *observability.Metrics
}

// Client talks to the back-office REST API. Every answer is expected in the
// {success, data, message} envelope.
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
	validate  *validator.Validate
	loginPath string
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// New builds a client whose transport authenticates with the caller's session.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid upstream base url %q: %w", cfg.BaseURL, err)
	}
	if cfg.Validator == nil {
		return nil, errors.New("apiclient: token validator is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: NewAuthenticator(cfg.Transport, cfg.Validator, logger),
		},
		limiter:   limiter,
		validate:  validator.New(),
		loginPath: loginPath,
		logger:    logger,
		metrics:   cfg.Metrics,
	}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// call issues one request. group is the first path segment, used for metrics.
// out may be nil; when set it receives the decoded and validated data field.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	group := strings.SplitN(strings.TrimLeft(path, "/"), "/", 2)[0]
	op := method + " " + path

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: op, Err: err}
		}
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordUpstream(group, method, 0, time.Since(start))
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.RecordUpstream(group, method, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthError{
			Redirect: LoginRedirect(c.loginPath, LocationFrom(ctx)),
			Err:      &StatusError{Method: method, URL: path, StatusCode: resp.StatusCode, Message: env.Message},
		}
	case resp.StatusCode >= http.StatusInternalServerError:
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: &StatusError{Method: method, URL: path, StatusCode: resp.StatusCode, Message: env.Message}}
	case resp.StatusCode >= http.StatusBadRequest:
		return &BusinessError{StatusCode: resp.StatusCode, Message: env.Message}
	case decodeErr != nil:
		return &TransportError{Op: op, Err: fmt.Errorf("decode envelope: %w", decodeErr)}
	case !env.Success:
		return &BusinessError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &TransportError{Op: op, Err: errors.New("response carried no data")}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode data: %w", err)}
	}
	if err := c.validatePayload(out); err != nil {
		c.logger.Warn("upstream payload failed validation", zap.String("op", op), zap.Error(err))
		return &TransportError{Op: op, Err: fmt.Errorf("invalid payload: %w", err)}
	}
	return nil
}

func (c *Client) validatePayload(out any) error {
	value := reflect.Indirect(reflect.ValueOf(out))
	switch value.Kind() {
	case reflect.Struct:
		return c.validate.Struct(value.Interface())
	case reflect.Slice:
		for i := 0; i < value.Len(); i++ {
			item := reflect.Indirect(value.Index(i))
			if item.Kind() != reflect.Struct {
				continue
			}
			if err := c.validate.Struct(item.Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}

// Validate checks v against its validate tags. Handlers use it on request bodies.
func (c *Client) Validate(v any) error {
	return c.validatePayload(v)
}
