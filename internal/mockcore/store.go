package mockcore

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

var (
	// ErrNotFound is returned for an unknown customer id.
	ErrNotFound = errors.New("customer not found")
	// ErrDuplicateEmail is returned when an email is registered twice.
	ErrDuplicateEmail = errors.New("email already registered")
)

type customer struct {
	snapshot     newcore.CustomerSnapshot
	passwordHash []byte
}

// Store keeps every customer the fake backend has onboarded.
type Store struct {
	mu        sync.RWMutex
	customers map[string]*customer
	emails    map[string]string
}

func NewStore() *Store {
	return &Store{
		customers: make(map[string]*customer),
		emails:    make(map[string]string),
	}
}

// Create stores a new customer. Emails are unique case-insensitively.
func (s *Store) Create(_ context.Context, snap newcore.CustomerSnapshot, passwordHash []byte) error {
	email := strings.ToLower(snap.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.emails[email]; taken {
		return ErrDuplicateEmail
	}
	s.emails[email] = snap.CustomerID
	s.customers[snap.CustomerID] = &customer{snapshot: snap, passwordHash: passwordHash}
	return nil
}

// Get returns a copy of the customer's snapshot.
func (s *Store) Get(_ context.Context, id string) (newcore.CustomerSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return newcore.CustomerSnapshot{}, ErrNotFound
	}
	return cloneSnapshot(c.snapshot), nil
}

// Update applies fn to the stored snapshot under the write lock.
func (s *Store) Update(_ context.Context, id string, fn func(*newcore.CustomerSnapshot)) (newcore.CustomerSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return newcore.CustomerSnapshot{}, ErrNotFound
	}
	fn(&c.snapshot)
	return cloneSnapshot(c.snapshot), nil
}

// PasswordHash returns the bcrypt hash stored at registration.
func (s *Store) PasswordHash(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.passwordHash, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.customers)
}

func cloneSnapshot(snap newcore.CustomerSnapshot) newcore.CustomerSnapshot {
	snap.LegalDocuments = slices.Clone(snap.LegalDocuments)
	return snap
}
