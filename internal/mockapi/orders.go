// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mockapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned for an unknown order id.
var ErrOrderNotFound = errors.New("order not found")

// Order statuses.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

var validStatuses = map[string]bool{
	StatusPlanned:    true,
	StatusInProgress: true,
	StatusDone:       true,
}

// Order is a production order.
type Order struct {
	ID        string    `json:"id"`
	Product   string    `json:"product"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderInput is the writable part of an order.
type OrderInput struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

// Validate checks an input, filling the default status.
func (in *OrderInput) Validate() error {
	in.Product = strings.TrimSpace(in.Product)
	if in.Product == "" {
		return fmt.Errorf("product is required")
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if in.Status == "" {
		in.Status = StatusPlanned
	}
	if !validStatuses[in.Status] {
		return fmt.Errorf("unknown status %q", in.Status)
	}
	return nil
}

// OrderStore is an in-memory order table.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]Order
	now    func() time.Time
}

// NewOrderStore creates an empty store.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[string]Order),
		now:    time.Now,
	}
}

// Seed adds a few demo orders.
func (s *OrderStore) Seed() {
	for _, in := range []OrderInput{
		{Product: "Gearbox housing GX-200", Quantity: 120, Status: StatusInProgress},
		{Product: "Drive shaft DS-18", Quantity: 400, Status: StatusPlanned},
		{Product: "Bearing cap BC-7", Quantity: 950, Status: StatusDone},
	} {
		_, _ = s.Create(in, "admin")
	}
}

// List returns all orders, newest first.
func (s *OrderStore) List() []Order {
	s.mu.RLock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Active counts orders that are not done.
func (s *OrderStore) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, o := range s.orders {
		if o.Status != StatusDone {
			n++
		}
	}
	return n
}

// Create stores a new order.
func (s *OrderStore) Create(in OrderInput, createdBy string) (Order, error) {
	if err := in.Validate(); err != nil {
		return Order{}, err
	}
	o := Order{
		ID:        uuid.NewString(),
		Product:   in.Product,
		Quantity:  in.Quantity,
		Status:    in.Status,
		CreatedBy: createdBy,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.orders[o.ID] = o
	s.mu.Unlock()
	return o, nil
}

// Update replaces the writable fields of an order.
func (s *OrderStore) Update(id string, in OrderInput) (Order, error) {
	if err := in.Validate(); err != nil {
		return Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	o.Product = in.Product
	o.Quantity = in.Quantity
	o.Status = in.Status
	s.orders[id] = o
	return o, nil
}

// Delete removes an order.
func (s *OrderStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}
