// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mockapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// Context keys set by requireBearer.
const (
	contextClaimsKey = "mockapi.claims"
)

// Config configures a mock API server.
type Config struct {
	// Secret signs access tokens.
	Secret string

	// TTL is the access token lifetime.
	TTL time.Duration

	// LoginRate is the sustained login attempts per second per client.
	LoginRate float64

	// LoginBurst is the login attempt burst per client.
	LoginBurst int

	// BcryptCost for seeded users. Tests use bcrypt.MinCost.
	BcryptCost int

	// SeedOrders adds demo orders on start.
	SeedOrders bool
}

// DefaultConfig returns the settings used by cmd/mockapi.
func DefaultConfig() Config {
	return Config{
		Secret:     "mesdesk-dev-secret",
		TTL:        DefaultTTL,
		LoginRate:  1,
		LoginBurst: 5,
		SeedOrders: true,
	}
}

// Envelope is the response shape of every endpoint.
type Envelope struct {
	Success   bool        `json:"success"`
	Code      uint32      `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// LoginData is the data block of a successful login.
type LoginData struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   uint32 `json:"expiresIn"`
	Username    string `json:"username"`
	UserID      uint32 `json:"userId"`
}

// =============================================================================
// SERVER
// =============================================================================

// Server is an in-memory implementation of the MES API.
type Server struct {
	echo   *echo.Echo
	cfg    Config
	users  *UserStore
	tokens *TokenManager
	orders *OrderStore
	now    func() time.Time

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
}

// New creates a server with the default users.
func New(cfg Config) (*Server, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret is required")
	}
	if cfg.LoginRate <= 0 {
		cfg.LoginRate = DefaultConfig().LoginRate
	}
	if cfg.LoginBurst <= 0 {
		cfg.LoginBurst = DefaultConfig().LoginBurst
	}

	users, err := DefaultUsers(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	s := &Server{
		echo:     echo.New(),
		cfg:      cfg,
		users:    users,
		tokens:   NewTokenManager(cfg.Secret, cfg.TTL),
		orders:   NewOrderStore(),
		now:      time.Now,
		limiters: make(map[string]*rate.Limiter),
	}
	if cfg.SeedOrders {
		s.orders.Seed()
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError
	s.echo.Use(s.logRequests)
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.echo.GET("/health", s.handleHealth)

	s.echo.POST("/api/auth/login", s.handleLogin, s.limitLogin)

	api := s.echo.Group("/api", s.requireBearer)
	api.POST("/auth/logout", s.handleLogout)
	api.GET("/auth/me", s.handleMe)
	api.GET("/orders", s.handleListOrders)
	api.POST("/orders", s.handleCreateOrder)
	api.PUT("/orders/:id", s.handleUpdateOrder)
	api.DELETE("/orders/:id", s.handleDeleteOrder)
}

// ServeHTTP makes Server an http.Handler, which is what httptest needs.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Users exposes the account store.
func (s *Server) Users() *UserStore { return s.users }

// Tokens exposes the token manager.
func (s *Server) Tokens() *TokenManager { return s.tokens }

// Orders exposes the order store.
func (s *Server) Orders() *OrderStore { return s.orders }

// Start listens on addr until Shutdown.
func (s *Server) Start(addr string) error {
	log.Printf("mock API listening on %s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// =============================================================================
// RESPONSES
// =============================================================================

func (s *Server) envelope(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{
		Success:   status >= 200 && status < 300,
		Code:      uint32(status),
		Message:   message,
		Data:      data,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}

// handleError renders echo's own errors (404, 405, bind failures) as
// envelopes too.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	message := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}
	if status == http.StatusInternalServerError {
		log.Printf("mock API error: %s %s: %v", c.Request().Method, c.Path(), err)
	}
	_ = s.envelope(c, status, message, nil)
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// logRequests logs method, path, status and duration. Headers and bodies
// are never logged.
func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
		}
		log.Printf("mockapi %s %s -> %d (%s)", c.Request().Method, c.Request().URL.Path,
			status, time.Since(start).Round(time.Millisecond))
		return err
	}
}

func (s *Server) limiterFor(key string) *rate.Limiter {
	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()

	limiter, ok := s.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.LoginRate), s.cfg.LoginBurst)
		s.limiters[key] = limiter
	}
	return limiter
}

// limitLogin throttles login attempts per client address.
func (s *Server) limitLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.limiterFor(c.RealIP()).Allow() {
			return s.envelope(c, http.StatusTooManyRequests, "too many login attempts, try again later", nil)
		}
		return next(c)
	}
}

// requireBearer rejects requests without a valid bearer token.
func (s *Server) requireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
		if header == "" {
			return s.envelope(c, http.StatusUnauthorized, "missing authorization header", nil)
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], TokenType) {
			return s.envelope(c, http.StatusUnauthorized, "invalid authorization header", nil)
		}

		claims, err := s.tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			msg := "invalid or expired token"
			if errors.Is(err, ErrTokenRevoked) {
				msg = "token has been revoked"
			}
			return s.envelope(c, http.StatusUnauthorized, msg, nil)
		}
		c.Set(contextClaimsKey, claims)
		return next(c)
	}
}

func claimsFrom(c echo.Context) *Claims {
	claims, _ := c.Get(contextClaimsKey).(*Claims)
	return claims
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleHealth(c echo.Context) error {
	return s.envelope(c, http.StatusOK, "ok", map[string]string{"status": "up"})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return s.envelope(c, http.StatusBadRequest, "malformed request body", nil)
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return s.envelope(c, http.StatusBadRequest, "username and password are required", nil)
	}

	user, err := s.users.Authenticate(req.Username, req.Password)
	if err != nil {
		return s.envelope(c, http.StatusUnauthorized, ErrInvalidCredentials.Error(), nil)
	}

	token, expiresIn, err := s.tokens.Issue(user)
	if err != nil {
		return err
	}
	return s.envelope(c, http.StatusOK, "login successful", LoginData{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresIn:   expiresIn,
		Username:    user.Username,
		UserID:      user.ID,
	})
}

func (s *Server) handleLogout(c echo.Context) error {
	s.tokens.Revoke(claimsFrom(c))
	return s.envelope(c, http.StatusOK, "logout successful", nil)
}

func (s *Server) handleMe(c echo.Context) error {
	claims := claimsFrom(c)
	user, ok := s.users.Lookup(claims.UserID)
	if !ok {
		return s.envelope(c, http.StatusNotFound, "user not found", nil)
	}
	return s.envelope(c, http.StatusOK, "ok", user)
}

func (s *Server) handleListOrders(c echo.Context) error {
	orders := s.orders.List()
	return s.envelope(c, http.StatusOK, "ok", map[string]interface{}{
		"orders": orders,
		"total":  len(orders),
		"active": s.orders.Active(),
	})
}

func (s *Server) handleCreateOrder(c echo.Context) error {
	var in OrderInput
	if err := c.Bind(&in); err != nil {
		return s.envelope(c, http.StatusBadRequest, "malformed request body", nil)
	}
	order, err := s.orders.Create(in, claimsFrom(c).Username)
	if err != nil {
		return s.envelope(c, http.StatusBadRequest, err.Error(), nil)
	}
	return s.envelope(c, http.StatusCreated, "order created", order)
}

func (s *Server) handleUpdateOrder(c echo.Context) error {
	var in OrderInput
	if err := c.Bind(&in); err != nil {
		return s.envelope(c, http.StatusBadRequest, "malformed request body", nil)
	}
	order, err := s.orders.Update(c.Param("id"), in)
	if errors.Is(err, ErrOrderNotFound) {
		return s.envelope(c, http.StatusNotFound, err.Error(), nil)
	}
	if err != nil {
		return s.envelope(c, http.StatusBadRequest, err.Error(), nil)
	}
	return s.envelope(c, http.StatusOK, "order updated", order)
}

func (s *Server) handleDeleteOrder(c echo.Context) error {
	if err := s.orders.Delete(c.Param("id")); err != nil {
		return s.envelope(c, http.StatusNotFound, err.Error(), nil)
	}
	return s.envelope(c, http.StatusOK, "order deleted", nil)
}
