// Package storage provides the in-memory balancer store. The store is pure
// bookkeeping: it owns the record map and the parallel behavior flag map and
// applies no business rules.
package storage

import (
	"github.com/getlbsim/lbsim/pkg/balancer"
)

// BalancerStore stores balancer records and their behavior flags, keyed by
// balancer id. Callers must check existence; lookups on unknown ids return
// zero values. Reconcile-then-mutate is not atomic across two calls, so
// hosts serving concurrent callers must serialize operations per balancer
// id.
type BalancerStore interface {
	// Get retrieves a record by id. Returns nil if not found.
	Get(id string) *balancer.Record

	// Set stores or replaces a record.
	Set(rec *balancer.Record) error

	// Delete removes a record and its flags. Returns true if the record
	// existed.
	Delete(id string) bool

	// ListByTenant returns the tenant's records ordered by creation time,
	// then id.
	ListByTenant(tenant string) []*balancer.Record

	// Flags returns the behavior flag map for a balancer, or nil. The map
	// is shared, not copied: flag defaults written during reconciliation
	// persist.
	Flags(id string) balancer.BehaviorFlags

	// SetFlags stores the behavior flag map for a balancer.
	SetFlags(id string, flags balancer.BehaviorFlags)

	// Count returns the number of stored records.
	Count() int

	// Clear removes all records and flags.
	Clear()

	// Exists checks whether a record with the given id is stored.
	Exists(id string) bool
}
