package timex

import "testing"

func TestPeriodFromHz(t *testing.T) {
	if got := PeriodFromHz(1000); got != 1_000_000 {
		t.Errorf("PeriodFromHz(1000) = %d, want 1000000", got)
	}
	if got := PeriodFromHz(1); got != 1_000_000_000 {
		t.Errorf("PeriodFromHz(1) = %d, want 1e9", got)
	}
	// Zero is coerced, not a divide-by-zero.
	if got := PeriodFromHz(0); got != 1_000_000_000 {
		t.Errorf("PeriodFromHz(0) = %d, want 1e9", got)
	}
}
