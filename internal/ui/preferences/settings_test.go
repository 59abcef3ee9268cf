package preferences

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		input string
		want  []int
	}{
		{"", nil},
		{"1", []int{1}},
		{"5, 1", []int{5, 1}},
		{"5,,x,-2, 3", []int{5, 3}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseMinutes(tt.input)); diff != "" {
			t.Errorf("ParseMinutes(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
	if got := FormatMinutes([]int{5, 1}); got != "5, 1" {
		t.Errorf("FormatMinutes() = %q", got)
	}
}

func TestTimerConfigNormalizes(t *testing.T) {
	settings := DefaultSettings()
	settings.WorkDuration = 0
	settings.LongBreakInterval = 0
	settings.WarningMinutes = []int{3, 0}

	config := settings.TimerConfig()
	if config.WorkDuration != 25*time.Minute {
		t.Errorf("WorkDuration = %v, want 25m", config.WorkDuration)
	}
	if config.LongBreakInterval != 4 {
		t.Errorf("LongBreakInterval = %d, want 4", config.LongBreakInterval)
	}
	if diff := cmp.Diff([]int{3}, config.WarningMinutes); diff != "" {
		t.Errorf("WarningMinutes mismatch (-want +got):\n%s", diff)
	}
}
