// Package cart stores session-scoped shopping carts. Each browser session
// gets its own cart, keyed by the session ID issued by the HTTP layer.
package cart

import (
	"context"
	"sync"

	"garden-store/internal/model"
)

// Store defines the interface for session cart persistence.
type Store interface {
	// Lines returns the cart lines for a session, in insertion order.
	Lines(ctx context.Context, sessionID string) ([]model.CartLine, error)

	// Add merges a line into the session cart. Adding a product that is
	// already present accumulates its quantity onto the existing line.
	// The merged line is returned.
	Add(ctx context.Context, sessionID string, line model.CartLine) (model.CartLine, error)

	// Remove drops the line for a product. Removing an absent product is a no-op.
	Remove(ctx context.Context, sessionID string, productID int64) error

	// Clear discards the whole session cart.
	Clear(ctx context.Context, sessionID string) error
}

// memoryStore implements Store with an in-process map. It is the fallback
// when Redis is not configured; carts do not survive a restart.
type memoryStore struct {
	mu    sync.RWMutex
	carts map[string][]model.CartLine
}

// NewMemoryStore creates an in-process cart store.
func NewMemoryStore() Store {
	return &memoryStore{
		carts: make(map[string][]model.CartLine),
	}
}

// Lines returns the cart lines for a session.
func (s *memoryStore) Lines(ctx context.Context, sessionID string) ([]model.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make([]model.CartLine, len(s.carts[sessionID]))
	copy(lines, s.carts[sessionID])
	return lines, nil
}

// Add merges a line into the session cart.
func (s *memoryStore) Add(ctx context.Context, sessionID string, line model.CartLine) (model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[sessionID] = mergeLine(s.carts[sessionID], line)
	for _, l := range s.carts[sessionID] {
		if l.ProductID == line.ProductID {
			return l, nil
		}
	}
	return line, nil
}

// Remove drops the line for a product.
func (s *memoryStore) Remove(ctx context.Context, sessionID string, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[sessionID] = removeLine(s.carts[sessionID], productID)
	return nil
}

// Clear discards the whole session cart.
func (s *memoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

// mergeLine accumulates quantity onto an existing line or appends a new one.
// At most one line per product ID is kept.
func mergeLine(lines []model.CartLine, line model.CartLine) []model.CartLine {
	for i, l := range lines {
		if l.ProductID == line.ProductID {
			lines[i].Quantity += line.Quantity
			return lines
		}
	}
	return append(lines, line)
}

// removeLine drops the line for a product, preserving order.
func removeLine(lines []model.CartLine, productID int64) []model.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}
