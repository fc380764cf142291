package anubis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/skate-fantasy/internal/domain/user"
	"github.com/riskibarqy/skate-fantasy/internal/observability"
	"github.com/riskibarqy/skate-fantasy/internal/platform/cache"
	"github.com/riskibarqy/skate-fantasy/internal/platform/logging"
	"github.com/riskibarqy/skate-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/skate-fantasy/internal/usecase"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errAnubisTransient = errors.New("anubis transient failure")

const (
	defaultOperatorRole = "operator"
	defaultTokenTTL     = 30 * time.Second
	tokenCachePrefix    = "anubis:token:"
)

type Config struct {
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	OperatorRole   string
	TokenCacheTTL  time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client verifies bearer tokens against the Anubis introspection endpoint.
// Verified principals are cached by token hash for a short time.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	operatorRole  string
	breaker       *resilience.CircuitBreaker
	tokens        *cache.Store
	logger        *logging.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if strings.TrimSpace(cfg.OperatorRole) == "" {
		cfg.OperatorRole = defaultOperatorRole
	}
	if cfg.TokenCacheTTL <= 0 {
		cfg.TokenCacheTTL = defaultTokenTTL
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: introspectionURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		operatorRole:  cfg.OperatorRole,
		breaker:       resilience.NewCircuitBreakerFromConfig("anubis", cfg.CircuitBreaker, observability.CircuitStateListener(logger)),
		tokens:        cache.NewStore(cfg.TokenCacheTTL),
		logger:        logger.Named("anubis"),
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := tokenCacheKey(token)
	if raw, ok := c.tokens.Get(ctx, cacheKey); ok {
		var cached user.Principal
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	var principal user.Principal
	err := c.breaker.Execute(func() error {
		var err error
		principal, err = c.introspect(ctx, token)
		return err
	}, isTransient)
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return user.Principal{}, fmt.Errorf("%w: anubis circuit open", usecase.ErrDependencyUnavailable)
		}
		if errors.Is(err, errAnubisTransient) {
			return user.Principal{}, fmt.Errorf("%w: %s", usecase.ErrDependencyUnavailable, err.Error())
		}
		return user.Principal{}, err
	}

	if raw, err := json.Marshal(principal); err == nil {
		c.tokens.Set(ctx, cacheKey, raw)
	}
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := json.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: request introspection: %v", errAnubisTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: read introspect response: %v", errAnubisTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		// our admin key was refused; the caller is not at fault
		c.logger.ErrorContext(ctx, "anubis rejected admin key", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: anubis rejected service credentials", usecase.ErrDependencyUnavailable)
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.WarnContext(ctx, "anubis introspection failed", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: status %d", errAnubisTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		c.logger.WarnContext(ctx, "anubis introspection non-200", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("anubis introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}
	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID:     decoded.UserID,
		Email:      decoded.Email,
		Roles:      decoded.Roles,
		IsOperator: hasRole(decoded.Roles, c.operatorRole),
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool     `json:"active"`
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}
