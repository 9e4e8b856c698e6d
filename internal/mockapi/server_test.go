// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/mesdesk/internal/auth"
	"github.com/jeranaias/mesdesk/internal/session"
)

func newTestServer(t *testing.T, mutate func(*Config)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.LoginBurst = 100
	cfg.LoginRate = 100
	if mutate != nil {
		mutate(&cfg)
	}
	srv, err := New(cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, ts
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (int, Envelope, json.RawMessage) {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw struct {
		Envelope
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return resp.StatusCode, raw.Envelope, raw.Data
}

func login(t *testing.T, base, username, password string) LoginData {
	t.Helper()
	status, env, data := doJSON(t, http.MethodPost, base+"/api/auth/login", "",
		map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status, env.Message)
	var ld LoginData
	require.NoError(t, json.Unmarshal(data, &ld))
	return ld
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

func TestLogin(t *testing.T) {
	_, ts := newTestServer(t, nil)

	ld := login(t, ts.URL, "admin", "123456")
	assert.Equal(t, "Bearer", ld.TokenType)
	assert.Equal(t, uint32(3600), ld.ExpiresIn)
	assert.Equal(t, "admin", ld.Username)
	assert.Equal(t, uint32(1), ld.UserID)
	assert.Equal(t, 3, strings.Count(ld.AccessToken, ".")+1, "token should be a JWT")

	tests := []struct {
		name   string
		body   interface{}
		status int
	}{
		{"wrong password", map[string]string{"username": "admin", "password": "nope"}, http.StatusUnauthorized},
		{"unknown user", map[string]string{"username": "ghost", "password": "123456"}, http.StatusUnauthorized},
		{"missing password", map[string]string{"username": "admin"}, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, env, _ := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", tc.body)
			assert.Equal(t, tc.status, status)
			assert.False(t, env.Success)
			assert.Equal(t, uint32(tc.status), env.Code)
			assert.NotEmpty(t, env.Message)
			assert.NotEmpty(t, env.Timestamp)
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	_, ts := newTestServer(t, func(c *Config) {
		c.LoginRate = 0.001
		c.LoginBurst = 2
	})

	body := map[string]string{"username": "admin", "password": "bad"}
	for i := 0; i < 2; i++ {
		status, _, _ := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, status)
	}

	status, env, _ := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, uint32(429), env.Code)
	assert.False(t, env.Success)
}

func TestLogout_RevokesToken(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	ld := login(t, ts.URL, "admin", "123456")

	status, env, _ := doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", ld.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	status, env, _ = doJSON(t, http.MethodPost, ts.URL+"/api/auth/logout", ld.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, 1, srv.Tokens().RevokedCount())

	status, env, _ = doJSON(t, http.MethodGet, ts.URL+"/api/auth/me", ld.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, env.Message, "revoked")
}

func TestRequireBearer(t *testing.T) {
	_, ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic YWRtaW46MTIzNDU2"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/orders", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestTokenManager_Expiry(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	token, expiresIn, err := m.Issue(User{ID: 1, Username: "admin"})
	require.NoError(t, err)
	assert.Equal(t, uint32(60), expiresIn)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), claims.UserID)

	now = now.Add(2 * time.Minute)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	other := NewTokenManager("other-secret", time.Minute)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenManager_RevokePrunesExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	t1, _, _ := m.Issue(User{ID: 1})
	c1, err := m.Parse(t1)
	require.NoError(t, err)
	m.Revoke(c1)
	assert.Equal(t, 1, m.RevokedCount())

	now = now.Add(5 * time.Minute)
	t2, _, _ := m.Issue(User{ID: 1})
	c2, err := m.Parse(t2)
	require.NoError(t, err)
	m.Revoke(c2)
	assert.Equal(t, 1, m.RevokedCount(), "first revocation should have been pruned")

	m.Revoke(nil)
}

// =============================================================================
// ORDERS
// =============================================================================

func TestOrdersCRUD(t *testing.T) {
	_, ts := newTestServer(t, func(c *Config) { c.SeedOrders = false })
	token := login(t, ts.URL, "operator", "operator123").AccessToken

	status, env, data := doJSON(t, http.MethodPost, ts.URL+"/api/orders", token,
		OrderInput{Product: "Valve V-3", Quantity: 10})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var created Order
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Len(t, created.ID, 36)
	assert.Equal(t, StatusPlanned, created.Status)
	assert.Equal(t, "operator", created.CreatedBy)

	status, _, _ = doJSON(t, http.MethodPost, ts.URL+"/api/orders", token, OrderInput{Product: "", Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, data = doJSON(t, http.MethodPut, ts.URL+"/api/orders/"+created.ID, token,
		OrderInput{Product: "Valve V-3", Quantity: 12, Status: StatusInProgress})
	require.Equal(t, http.StatusOK, status)
	var updated Order
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.Equal(t, 12, updated.Quantity)

	status, _, data = doJSON(t, http.MethodGet, ts.URL+"/api/orders", token, nil)
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Orders []Order `json:"orders"`
		Total  int     `json:"total"`
		Active int     `json:"active"`
	}
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 1, list.Active)

	status, _, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/orders/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/orders/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUnknownRouteIsEnvelope(t *testing.T) {
	_, ts := newTestServer(t, nil)
	status, env, _ := doJSON(t, http.MethodGet, ts.URL+"/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Equal(t, uint32(404), env.Code)
}

// =============================================================================
// CLIENT AGAINST MOCK API
// =============================================================================

func TestAuthServiceRoundTrip(t *testing.T) {
	_, ts := newTestServer(t, nil)
	ctx := context.Background()

	store := session.NewStore()
	svc := auth.NewService(auth.NewClient(ts.URL, store))

	resp, err := svc.Login(ctx, "admin", "wrong")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.False(t, svc.IsLoggedIn())

	resp, err = svc.Login(ctx, "admin", "123456")
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.True(t, svc.IsLoggedIn())

	header, ok := store.AuthHeader()
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(header, "Bearer "))

	req, err := svc.Client().Get(ctx, "/api/orders")
	require.NoError(t, err)
	var orders auth.Response[json.RawMessage]
	status, err := svc.Client().DoJSON(req, &orders)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, orders.OK())

	result := svc.Logout(ctx)
	assert.True(t, result.LoggedOut)
	assert.True(t, result.Notified)
	assert.False(t, svc.IsLoggedIn())

	_, err = svc.Client().Get(ctx, "/api/orders")
	assert.ErrorIs(t, err, auth.ErrNotLoggedIn)
}
