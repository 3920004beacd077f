package weather

import "testing"

func TestConditionFromCode(t *testing.T) {
	tests := []struct {
		code int
		want Condition
	}{
		{200, ConditionThunderstorm},
		{232, ConditionThunderstorm},
		{299, ConditionThunderstorm},
		{300, ConditionDrizzle},
		{399, ConditionDrizzle},
		{500, ConditionRain},
		{511, ConditionRain},
		{599, ConditionRain},
		{600, ConditionSnow},
		{699, ConditionSnow},
		{700, ConditionMist},
		{741, ConditionMist},
		{799, ConditionMist},
		{800, ConditionClear},
		{801, ConditionClouds},
		{804, ConditionClouds},
		{899, ConditionClouds},
		// Unassigned ranges fall through to unknown.
		{0, ConditionUnknown},
		{100, ConditionUnknown},
		{199, ConditionUnknown},
		{400, ConditionUnknown},
		{450, ConditionUnknown},
		{499, ConditionUnknown},
		{900, ConditionUnknown},
		{1000, ConditionUnknown},
		{-1, ConditionUnknown},
	}

	for _, tt := range tests {
		if got := ConditionFromCode(tt.code); got != tt.want {
			t.Errorf("ConditionFromCode(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestIsDaytime(t *testing.T) {
	const (
		sunrise = int64(1000)
		sunset  = int64(2000)
	)

	tests := []struct {
		name string
		t    int64
		want bool
	}{
		{"before sunrise", 999, false},
		{"at sunrise", 1000, true},
		{"midday", 1500, true},
		{"at sunset", 2000, true},
		{"after sunset", 2001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDaytime(sunrise, sunset, tt.t); got != tt.want {
				t.Errorf("IsDaytime(%d, %d, %d) = %v, want %v", sunrise, sunset, tt.t, got, tt.want)
			}
		})
	}
}
