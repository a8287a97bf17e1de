package storage

import (
	"sort"
	"sync"

	"github.com/getlbsim/lbsim/pkg/balancer"
)

// InMemoryBalancerStore is a thread-safe in-memory implementation of
// BalancerStore. The lock serializes whole operations, not
// reconcile-then-mutate sequences; see BalancerStore.
type InMemoryBalancerStore struct {
	mu      sync.RWMutex
	records map[string]*balancer.Record
	flags   map[string]balancer.BehaviorFlags
}

// NewInMemoryBalancerStore creates an empty store.
func NewInMemoryBalancerStore() *InMemoryBalancerStore {
	return &InMemoryBalancerStore{
		records: make(map[string]*balancer.Record),
		flags:   make(map[string]balancer.BehaviorFlags),
	}
}

// Get retrieves a record by id. Returns nil if not found.
func (s *InMemoryBalancerStore) Get(id string) *balancer.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[id]
}

// Set stores or replaces a record.
func (s *InMemoryBalancerStore) Set(rec *balancer.Record) error {
	if rec == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return nil
}

// Delete removes a record and its flags. Returns true if the record existed.
func (s *InMemoryBalancerStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[id]; !exists {
		return false
	}
	delete(s.records, id)
	delete(s.flags, id)
	return true
}

// ListByTenant returns the tenant's records sorted by creation time, then id.
func (s *InMemoryBalancerStore) ListByTenant(tenant string) []*balancer.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*balancer.Record, 0)
	for _, rec := range s.records {
		if rec.TenantID == tenant {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Flags returns the shared behavior flag map for a balancer, or nil.
func (s *InMemoryBalancerStore) Flags(id string) balancer.BehaviorFlags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[id]
}

// SetFlags stores the behavior flag map for a balancer.
func (s *InMemoryBalancerStore) SetFlags(id string, flags balancer.BehaviorFlags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[id] = flags
}

// Count returns the number of stored records.
func (s *InMemoryBalancerStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear removes all records and flags.
func (s *InMemoryBalancerStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*balancer.Record)
	s.flags = make(map[string]balancer.BehaviorFlags)
}

// Exists checks whether a record with the given id is stored.
func (s *InMemoryBalancerStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.records[id]
	return exists
}

var _ BalancerStore = (*InMemoryBalancerStore)(nil)
