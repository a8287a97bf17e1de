// Package lifecycle implements the time-driven status state machine for
// simulated load balancers. All time is supplied by the caller; the engine
// never reads a clock, so a sequence of operations at given synthetic times
// always produces the same statuses.
package lifecycle

import (
	"log/slog"
	"time"

	"github.com/getlbsim/lbsim/pkg/balancer"
	"github.com/getlbsim/lbsim/pkg/logging"
)

const (
	// DefaultFlagDuration is written back into a duration flag that is
	// present without an explicit value, the first time it is evaluated.
	DefaultFlagDuration = 10 * time.Second

	// DeletedGracePeriod is how long a DELETED balancer remains observable
	// before it is purged from the store.
	DeletedGracePeriod = 3600 * time.Second
)

// timedTransition describes a status that waits for a flag duration to
// elapse and then moves to the next status.
type timedTransition struct {
	flag     balancer.FlagName
	next     balancer.Status
	optional bool // transition only runs while the flag is present
	restamp  bool // UpdatedAt is stamped on every evaluation in this status
}

// flagTransition describes a flag that forces a status while ACTIVE.
type flagTransition struct {
	flag balancer.FlagName
	next balancer.Status
}

// timedTransitions is the waiting half of the transition table, keyed by
// current status.
var timedTransitions = map[balancer.Status]timedTransition{
	balancer.StatusBuild:         {flag: balancer.FlagBuilding, next: balancer.StatusActive},
	balancer.StatusPendingUpdate: {flag: balancer.FlagPendingUpdate, next: balancer.StatusActive, optional: true},
	balancer.StatusPendingDelete: {flag: balancer.FlagPendingDelete, next: balancer.StatusDeleted, restamp: true},
}

// activeTransitions is checked in priority order while ACTIVE; the first
// present flag wins.
var activeTransitions = []flagTransition{
	{flag: balancer.FlagPendingUpdate, next: balancer.StatusPendingUpdate},
	{flag: balancer.FlagPendingDelete, next: balancer.StatusPendingDelete},
	{flag: balancer.FlagErrorState, next: balancer.StatusError},
}

// Outcome reports the result of a reconcile.
type Outcome struct {
	// Status is the balancer's status after reconciliation.
	Status balancer.Status
	// Changed is true when the status transitioned during this call.
	Changed bool
	// Purge is true when the balancer's deletion grace period has elapsed
	// and the record must be removed from the store.
	Purge bool
}

// Engine advances balancer statuses. It is stateless; every call carries the
// record, its flags, and the current synthetic time.
type Engine struct {
	log *slog.Logger
}

// New creates an Engine logging transitions to log. A nil logger disables
// logging.
func New(log *slog.Logger) *Engine {
	if log == nil {
		log = logging.Nop()
	}
	return &Engine{log: log}
}

// Reconcile advances rec's status to reflect the synthetic time now.
// mayTransition gates only the ACTIVE row of the transition table: flag
// checks that force a pending status run solely on calls that are allowed to
// trigger a state change. Duration flags are defaulted in place. The record
// is updated in place; the caller owns removing it from its store when the
// outcome says Purge.
func (e *Engine) Reconcile(rec *balancer.Record, flags balancer.BehaviorFlags, now time.Time, mayTransition bool) Outcome {
	from := rec.Status

	switch rec.Status {
	case balancer.StatusActive:
		if mayTransition {
			for _, t := range activeTransitions {
				if flags.Has(t.flag) {
					rec.Status = t.next
					break
				}
			}
			// Stamped whenever this row is evaluated, transition or not.
			rec.UpdatedAt = now
		}

	case balancer.StatusDeleted:
		if now.Sub(rec.UpdatedAt) >= DeletedGracePeriod {
			e.log.Debug("balancer purged", "id", rec.ID)
			return Outcome{Status: rec.Status, Purge: true}
		}

	default:
		if t, ok := timedTransitions[rec.Status]; ok {
			e.applyTimed(rec, flags, now, t)
		}
	}

	changed := rec.Status != from
	if changed {
		e.log.Debug("balancer transitioned", "id", rec.ID, "from", from, "to", rec.Status)
	}
	return Outcome{Status: rec.Status, Changed: changed}
}

// applyTimed runs one waiting transition: when the flag's duration has
// elapsed since the last update, the record moves to the next status.
func (e *Engine) applyTimed(rec *balancer.Record, flags balancer.BehaviorFlags, now time.Time, t timedTransition) {
	if t.optional && !flags.Has(t.flag) {
		return
	}
	d := flags.DurationOrDefault(t.flag, DefaultFlagDuration)
	if now.Sub(rec.UpdatedAt) >= d {
		rec.Status = t.next
		rec.UpdatedAt = now
	} else if t.restamp {
		rec.UpdatedAt = now
	}
}
