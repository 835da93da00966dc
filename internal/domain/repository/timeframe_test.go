package repository

import "testing"

func TestNewPolicyTableRejectsUnknownNative(t *testing.T) {
	if _, err := NewPolicyTable("hourly"); err == nil {
		t.Fatalf("expected error for unknown native timeframe")
	}
}

func TestPolicyRows(t *testing.T) {
	table, err := NewPolicyTable(TFDaily)
	if err != nil {
		t.Fatalf("table: %v", err)
	}

	cases := []struct {
		target Timeframe
		period int
		want   int
	}{
		{TFDaily, 160, 160},
		{TFWeekly, 160, 1120},
		{TFMonthly, 160, 4800},
		{TFQuarterly, 160, 14400},
	}
	for _, c := range cases {
		p, err := table.For(c.target)
		if err != nil {
			t.Fatalf("policy %s: %v", c.target, err)
		}
		if got := p.Rows(c.period); got != c.want {
			t.Fatalf("%s rows(%d) = %d, want %d", c.target, c.period, got, c.want)
		}
	}
}

func TestPolicyRowsWeeklyNative(t *testing.T) {
	table, err := NewPolicyTable(TFWeekly)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	p, err := table.For(TFMonthly)
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	// monthly from weekly storage needs ~30/7 rows per period
	if got := p.Rows(160); got != 30*160/7 {
		t.Fatalf("rows = %d, want %d", got, 30*160/7)
	}
	wp, err := table.For(TFWeekly)
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if wp.Group != PeriodNone {
		t.Fatalf("native target must not aggregate")
	}
	if got := wp.Rows(50); got != 50 {
		t.Fatalf("native rows = %d, want 50", got)
	}
}

func TestPolicyChunkHints(t *testing.T) {
	table, _ := NewPolicyTable(TFDaily)
	daily, _ := table.For(TFDaily)
	weekly, _ := table.For(TFWeekly)
	if daily.ChunkSize != 6*1024 {
		t.Fatalf("daily chunk = %d", daily.ChunkSize)
	}
	if weekly.ChunkSize != 19*1024 {
		t.Fatalf("weekly chunk = %d", weekly.ChunkSize)
	}
}

func TestParseTimeframe(t *testing.T) {
	if _, err := ParseTimeframe("weekly"); err != nil {
		t.Fatalf("weekly should parse: %v", err)
	}
	if _, err := ParseTimeframe("1m"); err == nil {
		t.Fatalf("expected error for 1m")
	}
}

func TestPolicyTableForUnknownTarget(t *testing.T) {
	table, _ := NewPolicyTable(TFDaily)
	if _, err := table.For("hourly"); err == nil {
		t.Fatalf("expected error for unknown target")
	}
}
