package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getlbsim/lbsim/pkg/balancer"
)

var base = time.Unix(1_700_000_000, 0).UTC()

func newRecord(status balancer.Status) *balancer.Record {
	return &balancer.Record{
		ID:        "lb-1",
		TenantID:  "tenant-1",
		Status:    status,
		CreatedAt: base,
		UpdatedAt: base,
	}
}

func TestBuildTransitionsToActiveAfterFlagDuration(t *testing.T) {
	e := New(nil)
	rec := newRecord(balancer.StatusBuild)
	flags := balancer.BehaviorFlags{balancer.FlagBuilding: 5 * time.Second}

	out := e.Reconcile(rec, flags, base, false)
	assert.Equal(t, balancer.StatusBuild, out.Status)
	assert.False(t, out.Changed)

	out = e.Reconcile(rec, flags, base.Add(4*time.Second), false)
	assert.Equal(t, balancer.StatusBuild, out.Status)

	out = e.Reconcile(rec, flags, base.Add(5*time.Second), false)
	assert.Equal(t, balancer.StatusActive, out.Status)
	assert.True(t, out.Changed)
	assert.Equal(t, base.Add(5*time.Second), rec.UpdatedAt)
}

func TestBuildDefaultsFlagDurationInPlace(t *testing.T) {
	e := New(nil)
	rec := newRecord(balancer.StatusBuild)
	flags := balancer.BehaviorFlags{balancer.FlagBuilding: 0}

	out := e.Reconcile(rec, flags, base.Add(9*time.Second), false)
	assert.Equal(t, balancer.StatusBuild, out.Status)
	// The default is written back so later evaluations are stable.
	assert.Equal(t, DefaultFlagDuration, flags[balancer.FlagBuilding])

	out = e.Reconcile(rec, flags, base.Add(10*time.Second), false)
	assert.Equal(t, balancer.StatusActive, out.Status)
}

func TestActiveRequiresMayTransition(t *testing.T) {
	e := New(nil)
	rec := newRecord(balancer.StatusActive)
	flags := balancer.BehaviorFlags{balancer.FlagPendingDelete: 0}

	out := e.Reconcile(rec, flags, base.Add(time.Second), false)
	assert.Equal(t, balancer.StatusActive, out.Status)
	assert.Equal(t, base, rec.UpdatedAt, "observe-only calls must not stamp updated")

	out = e.Reconcile(rec, flags, base.Add(time.Second), true)
	assert.Equal(t, balancer.StatusPendingDelete, out.Status)
	assert.Equal(t, base.Add(time.Second), rec.UpdatedAt)
}

func TestActiveFlagPriorityOrder(t *testing.T) {
	tests := []struct {
		name  string
		flags balancer.BehaviorFlags
		want  balancer.Status
	}{
		{
			name: "pending update beats pending delete and error",
			flags: balancer.BehaviorFlags{
				balancer.FlagPendingUpdate: 0,
				balancer.FlagPendingDelete: 0,
				balancer.FlagErrorState:    0,
			},
			want: balancer.StatusPendingUpdate,
		},
		{
			name: "pending delete beats error",
			flags: balancer.BehaviorFlags{
				balancer.FlagPendingDelete: 0,
				balancer.FlagErrorState:    0,
			},
			want: balancer.StatusPendingDelete,
		},
		{
			name:  "error alone",
			flags: balancer.BehaviorFlags{balancer.FlagErrorState: 0},
			want:  balancer.StatusError,
		},
		{
			name:  "no flags stays active",
			flags: balancer.BehaviorFlags{},
			want:  balancer.StatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(nil)
			rec := newRecord(balancer.StatusActive)
			out := e.Reconcile(rec, tt.flags, base.Add(time.Second), true)
			assert.Equal(t, tt.want, out.Status)
			assert.Equal(t, base.Add(time.Second), rec.UpdatedAt,
				"updated is stamped whenever the ACTIVE row is evaluated")
		})
	}
}

func TestPendingUpdateReturnsToActive(t *testing.T) {
	e := New(nil)
	rec := newRecord(balancer.StatusPendingUpdate)
	flags := balancer.BehaviorFlags{balancer.FlagPendingUpdate: 7 * time.Second}

	out := e.Reconcile(rec, flags, base.Add(6*time.Second), false)
	assert.Equal(t, balancer.StatusPendingUpdate, out.Status)
	assert.Equal(t, base, rec.UpdatedAt)

	out = e.Reconcile(rec, flags, base.Add(7*time.Second), false)
	assert.Equal(t, balancer.StatusActive, out.Status)
}

func TestPendingUpdateWithoutFlagStaysPut(t *testing.T) {
	e := New(nil)
	rec := newRecord(balancer.StatusPendingUpdate)

	out := e.Reconcile(rec, balancer.BehaviorFlags{}, base.Add(time.Hour), false)
	assert.Equal(t, balancer.StatusPendingUpdate, out.Status)
}

func TestPendingDeleteStampsEveryEvaluation(t *testing.T) {
	e := New(nil)
	rec := newRecord(balancer.StatusPendingDelete)
	flags := balancer.BehaviorFlags{balancer.FlagPendingDelete: 0}

	out := e.Reconcile(rec, flags, base.Add(4*time.Second), false)
	assert.Equal(t, balancer.StatusPendingDelete, out.Status)
	assert.Equal(t, base.Add(4*time.Second), rec.UpdatedAt)
	assert.Equal(t, DefaultFlagDuration, flags[balancer.FlagPendingDelete])

	// Elapsed restarts from the last evaluation.
	out = e.Reconcile(rec, flags, base.Add(13*time.Second), false)
	assert.Equal(t, balancer.StatusPendingDelete, out.Status)

	out = e.Reconcile(rec, flags, base.Add(23*time.Second), false)
	assert.Equal(t, balancer.StatusDeleted, out.Status)
	assert.Equal(t, base.Add(23*time.Second), rec.UpdatedAt)
}

func TestDeletedPurgesAfterGracePeriod(t *testing.T) {
	e := New(nil)
	rec := newRecord(balancer.StatusDeleted)

	out := e.Reconcile(rec, balancer.BehaviorFlags{}, base.Add(DeletedGracePeriod-time.Second), false)
	assert.False(t, out.Purge)
	assert.Equal(t, balancer.StatusDeleted, out.Status)

	out = e.Reconcile(rec, balancer.BehaviorFlags{}, base.Add(DeletedGracePeriod), false)
	assert.True(t, out.Purge)
}

func TestReconcileNeverMovesBackward(t *testing.T) {
	// Walk a balancer through its whole lifecycle and check the status
	// index never decreases at increasing times.
	order := map[balancer.Status]int{
		balancer.StatusBuild:         0,
		balancer.StatusActive:        1,
		balancer.StatusPendingDelete: 2,
		balancer.StatusDeleted:       3,
	}

	e := New(nil)
	rec := newRecord(balancer.StatusBuild)
	flags := balancer.BehaviorFlags{
		balancer.FlagBuilding:      2 * time.Second,
		balancer.FlagPendingDelete: 3 * time.Second,
	}

	last := order[rec.Status]
	for step := 0; step < 40; step++ {
		now := base.Add(time.Duration(step) * time.Second)
		out := e.Reconcile(rec, flags, now, true)
		if out.Purge {
			break
		}
		require.GreaterOrEqual(t, order[out.Status], last,
			"status moved backward at step %d: %s", step, out.Status)
		last = order[out.Status]
	}
}

func TestReconcileIsDeterministic(t *testing.T) {
	run := func() balancer.Status {
		e := New(nil)
		rec := newRecord(balancer.StatusBuild)
		flags := balancer.BehaviorFlags{balancer.FlagBuilding: 0}
		e.Reconcile(rec, flags, base.Add(3*time.Second), false)
		e.Reconcile(rec, flags, base.Add(11*time.Second), false)
		return rec.Status
	}
	assert.Equal(t, run(), run())
}
