// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mockapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
// The two cases are not distinguished.
var ErrInvalidCredentials = errors.New("invalid username or password")

// User is an account known to the mock API.
type User struct {
	ID       uint32 `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	hash     []byte
}

// UserStore holds accounts with bcrypt-hashed passwords.
type UserStore struct {
	mu     sync.RWMutex
	byName map[string]*User
	nextID uint32
	cost   int
}

// NewUserStore creates an empty store. cost 0 uses bcrypt.DefaultCost.
func NewUserStore(cost int) *UserStore {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserStore{
		byName: make(map[string]*User),
		nextID: 1,
		cost:   cost,
	}
}

// DefaultUsers seeds the demo accounts. admin/123456 always gets id 1.
func DefaultUsers(cost int) (*UserStore, error) {
	s := NewUserStore(cost)
	if _, err := s.Add("admin", "123456", "administrator"); err != nil {
		return nil, err
	}
	if _, err := s.Add("operator", "operator123", "operator"); err != nil {
		return nil, err
	}
	return s, nil
}

// Add creates a user and returns it. Usernames are unique.
func (s *UserStore) Add(username, password, role string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, fmt.Errorf("username is required")
	}
	if password == "" {
		return User{}, fmt.Errorf("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[username]; exists {
		return User{}, fmt.Errorf("user %q already exists", username)
	}
	u := &User{ID: s.nextID, Username: username, Role: role, hash: hash}
	s.byName[username] = u
	s.nextID++
	return *u, nil
}

// Authenticate checks a username/password pair.
func (s *UserStore) Authenticate(username, password string) (User, error) {
	s.mu.RLock()
	u, ok := s.byName[username]
	s.mu.RUnlock()
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return *u, nil
}

// Lookup finds a user by id.
func (s *UserStore) Lookup(id uint32) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.byName {
		if u.ID == id {
			return *u, true
		}
	}
	return User{}, false
}

// List returns all users ordered by id.
func (s *UserStore) List() []User {
	s.mu.RLock()
	users := make([]User, 0, len(s.byName))
	for _, u := range s.byName {
		users = append(users, *u)
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}
