package store

import (
	"errors"
	"testing"
)

func TestNextRollSuffix(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     int
		wantErr  error
	}{
		{name: "empty roster", existing: nil, want: 1},
		{name: "dense set appends", existing: []string{"2024001", "2024002", "2024003"}, want: 4},
		{name: "gap is reused", existing: []string{"2024001", "2024003"}, want: 2},
		{name: "lowest gap wins", existing: []string{"2024002", "2024005", "2024009"}, want: 1},
		{name: "unsorted input", existing: []string{"2024003", "2024001", "2024002"}, want: 4},
		{name: "malformed rolls skipped", existing: []string{"2024001", "garbage", "2024"}, want: 2},
		{name: "capacity exhausted", existing: denseRolls(999), wantErr: ErrCapacityExceeded},
		{name: "gap below capacity still allocates", existing: denseRollsExcept(999, 500), want: 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRollSuffix(tt.existing)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NextRollSuffix() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("NextRollSuffix() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatRoll(t *testing.T) {
	tests := []struct {
		suffix int
		want   string
	}{
		{1, "2024001"},
		{42, "2024042"},
		{999, "2024999"},
	}
	for _, tt := range tests {
		if got := FormatRoll(tt.suffix); got != tt.want {
			t.Errorf("FormatRoll(%d) = %q, want %q", tt.suffix, got, tt.want)
		}
	}
}

func denseRolls(n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, FormatRoll(i))
	}
	return out
}

func denseRollsExcept(n, skip int) []string {
	out := make([]string, 0, n-1)
	for i := 1; i <= n; i++ {
		if i == skip {
			continue
		}
		out = append(out, FormatRoll(i))
	}
	return out
}
