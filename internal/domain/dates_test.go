package domain

import (
	"testing"
	"time"
)

func TestDecodeDate_Legacy(t *testing.T) {
	// MMDDYYHHR: 15 June 1995, 12 UTC, run 0.
	got := DecodeDate(61595120, NewDiagnostics(nil))
	want := time.Date(1995, time.June, 15, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("legacy decode: expected %v, got %v", want, got)
	}
}

func TestDecodeDate_Modern(t *testing.T) {
	diag := NewDiagnostics(nil)
	tests := []struct {
		code int64
		want time.Time
	}{
		{123200000, time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)},
		{123200001, time.Date(1980, 1, 1, 0, 0, 4, 0, time.UTC)},
		{123200900, time.Date(1980, 1, 1, 1, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := DecodeDate(tt.code, diag); !got.Equal(tt.want) {
			t.Errorf("DecodeDate(%d): expected %v, got %v", tt.code, tt.want, got)
		}
	}
}

func TestEncodeDate_Inverse(t *testing.T) {
	want := time.Date(2021, 3, 14, 6, 0, 0, 0, time.UTC)
	if got := DecodeDate(EncodeDate(want), NewDiagnostics(nil)); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDecodeDate_ClampsWithSingleWarning(t *testing.T) {
	diag := NewDiagnostics(nil)
	// Month 0 and day 40 in 1995 at 06 UTC.
	got := DecodeDate(4095060, diag)
	want := time.Date(1995, time.January, 1, 6, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	DecodeDate(4095060, diag)

	if n := len(diag.Warnings()); n != 2 {
		t.Fatalf("expected 2 distinct warnings, got %d: %v", n, diag.Warnings())
	}
}

func TestDecodeTimeAxis_Degenerate(t *testing.T) {
	diag := NewDiagnostics(nil)
	for i := 0; i < 3; i++ {
		axis := DecodeTimeAxis([]int64{0}, diag)
		if axis.Kind != TimeIndex {
			t.Fatalf("expected index axis, got kind %d", axis.Kind)
		}
	}
	warnings := diag.Warnings()
	if len(warnings) != 1 || warnings[0] != "degenerate time axis detected" {
		t.Errorf("expected one degenerate-axis warning, got %v", warnings)
	}
}

func TestDecodeTimeAxis_Hours(t *testing.T) {
	axis := DecodeTimeAxis([]int64{123200000, 123203600}, NewDiagnostics(nil))
	if axis.Kind != TimeCalendar {
		t.Fatalf("expected calendar axis")
	}
	hours := axis.Hours()
	if hours[0] != 0 || hours[1] != 4 {
		t.Errorf("expected [0 4], got %v", hours)
	}
}

func TestDecodeTimeAxis_MixedLayoutsDecodeAsSteps(t *testing.T) {
	diag := NewDiagnostics(nil)
	axis := DecodeTimeAxis([]int64{0, 123200900}, diag)
	if axis.Kind != TimeCalendar {
		t.Fatalf("expected calendar axis")
	}
	want := []time.Time{
		time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC).Add(-123200000 * 4 * time.Second),
		time.Date(1980, 1, 1, 1, 0, 0, 0, time.UTC),
	}
	for i := range want {
		if !axis.Times[i].Equal(want[i]) {
			t.Errorf("time %d: expected %v, got %v", i, want[i], axis.Times[i])
		}
	}
	if n := len(diag.Warnings()); n != 0 {
		t.Errorf("expected no clamp warnings, got %v", diag.Warnings())
	}

	axis = DecodeTimeAxis([]int64{61595120, 123200900}, NewDiagnostics(nil))
	if got := axis.Times[1].Sub(axis.Times[0]); got != (123200900-61595120)*4*time.Second {
		t.Errorf("expected both values on the step layout, got spacing %v", got)
	}
}

func TestDecodeTimeAxis_AllLegacy(t *testing.T) {
	axis := DecodeTimeAxis([]int64{61595120, 61595180}, NewDiagnostics(nil))
	want := time.Date(1995, time.June, 15, 18, 0, 0, 0, time.UTC)
	if !axis.Times[1].Equal(want) {
		t.Errorf("expected %v, got %v", want, axis.Times[1])
	}
}
