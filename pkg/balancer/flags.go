package balancer

import (
	"strconv"
	"time"
)

// FlagName is a behavior flag key. The vocabulary is fixed; metadata keys
// outside it are plain annotations with no effect on the lifecycle.
type FlagName string

// Behavior flag vocabulary.
const (
	FlagBuilding      FlagName = "lb_building"
	FlagPendingUpdate FlagName = "lb_pending_update"
	FlagPendingDelete FlagName = "lb_pending_delete"
	FlagErrorState    FlagName = "lb_error_state"
)

// flagVocabulary lists every recognized behavior flag.
var flagVocabulary = []FlagName{
	FlagBuilding,
	FlagPendingUpdate,
	FlagPendingDelete,
	FlagErrorState,
}

// BehaviorFlags maps a flag to its duration. A zero duration means the flag
// is present without an explicit value; the lifecycle engine defaults it in
// place on first evaluation so later evaluations are stable.
type BehaviorFlags map[FlagName]time.Duration

// Has reports whether the flag is present, with or without a duration.
func (f BehaviorFlags) Has(name FlagName) bool {
	_, ok := f[name]
	return ok
}

// DurationOrDefault returns the flag's duration, writing def back into the
// map when the flag is present without an explicit value. The flag must be
// present.
func (f BehaviorFlags) DurationOrDefault(name FlagName, def time.Duration) time.Duration {
	d := f[name]
	if d <= 0 {
		f[name] = def
		return def
	}
	return d
}

// FlagsFromMetadata derives the behavior flag map from creation metadata.
// Values are interpreted as whole seconds; anything unparsable counts as
// presence without a duration.
func FlagsFromMetadata(meta []MetaItem) BehaviorFlags {
	flags := make(BehaviorFlags)
	for _, item := range meta {
		for _, name := range flagVocabulary {
			if FlagName(item.Key) == name {
				flags[name] = flagSeconds(item.Value)
			}
		}
	}
	return flags
}

// flagSeconds converts a metadata value into a duration. JSON numbers decode
// as float64; numeric strings are accepted as well.
func flagSeconds(v any) time.Duration {
	switch n := v.(type) {
	case float64:
		return time.Duration(n * float64(time.Second))
	case int:
		return time.Duration(n) * time.Second
	case string:
		if secs, err := strconv.ParseFloat(n, 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return 0
}
