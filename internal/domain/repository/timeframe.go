package repository

import "fmt"

// Timeframe is a bar granularity, both for physical storage and for
// requested output. The two may differ: requesting weekly output from daily
// storage triggers resampling.
type Timeframe string

const (
	TFDaily     Timeframe = "daily"
	TFWeekly    Timeframe = "weekly"
	TFMonthly   Timeframe = "monthly"
	TFQuarterly Timeframe = "quarterly"
)

// Timeframes lists every supported value, finest first.
var Timeframes = []Timeframe{TFDaily, TFWeekly, TFMonthly, TFQuarterly}

// Period is the calendar grouping token consumed by the aggregator.
type Period int

const (
	PeriodNone Period = iota // no aggregation
	PeriodWeek
	PeriodMonth
	PeriodQuarter
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TFDaily, TFWeekly, TFMonthly, TFQuarterly:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default storage timeframe.
func DefaultTimeframe() Timeframe { return TFDaily }

// ParseTimeframe converts a raw string to a valid timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if !IsValidTimeframe(tf) {
		return "", fmt.Errorf("timeframe must be one of %s, %s, %s, %s; got %q",
			TFDaily, TFWeekly, TFMonthly, TFQuarterly, s)
	}
	return tf, nil
}

const (
	defaultChunkSize = 6 * 1024
	weeklyChunkSize  = 19 * 1024
)

// Policy tells the loader how to serve one target timeframe from the native
// storage granularity: which calendar period to aggregate by, how many
// native rows a period count translates to, and a read-chunk hint for the
// tail reader. A policy never changes after construction.
type Policy struct {
	Native    Timeframe
	Target    Timeframe
	Group     Period // PeriodNone when Target == Native
	ChunkSize int    // reader performance hint, bytes
}

// Rows converts a requested period count into the number of native-granularity
// rows the reader must budget for.
func (p Policy) Rows(period int) int {
	switch {
	case p.Target == p.Native:
		return period
	case p.Target == TFWeekly:
		return 7 * period
	case p.Target == TFMonthly:
		if p.Native == TFWeekly {
			return 30 * period / 7
		}
		return 30 * period
	case p.Target == TFQuarterly:
		return 90 * period
	}
	return period
}

func newPolicy(native, target Timeframe) Policy {
	p := Policy{Native: native, Target: target, ChunkSize: defaultChunkSize}
	if target == native {
		return p
	}
	switch target {
	case TFWeekly:
		p.Group = PeriodWeek
		p.ChunkSize = weeklyChunkSize
	case TFMonthly:
		p.Group = PeriodMonth
	case TFQuarterly:
		p.Group = PeriodQuarter
	}
	return p
}

// PolicyTable is the static timeframe policy table, computed once at engine
// construction and read-only afterwards.
type PolicyTable map[Timeframe]Policy

// NewPolicyTable builds policies for every target timeframe served from the
// given native storage timeframe. An unrecognized native timeframe is a
// configuration error.
func NewPolicyTable(native Timeframe) (PolicyTable, error) {
	if !IsValidTimeframe(native) {
		return nil, fmt.Errorf("native timeframe must be one of %s, %s, %s, %s; got %q",
			TFDaily, TFWeekly, TFMonthly, TFQuarterly, native)
	}
	t := make(PolicyTable, len(Timeframes))
	for _, tf := range Timeframes {
		t[tf] = newPolicy(native, tf)
	}
	return t, nil
}

// For returns the policy serving the target timeframe.
func (t PolicyTable) For(target Timeframe) (Policy, error) {
	p, ok := t[target]
	if !ok {
		return Policy{}, fmt.Errorf("unrecognized timeframe %q", target)
	}
	return p, nil
}
