package components

import (
	"reflect"
	"testing"
)

func TestHSlider(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "●────"},
		{1, "━━━━●"},
		{0.5, "━━●──"},
		{2, "━━━━●"},
	}
	for _, tt := range tests {
		if got := HSlider(tt.ratio, 5).String(); got != tt.want {
			t.Errorf("HSlider(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
	if HSlider(0.5, 0).String() != "" {
		t.Error("zero length slider should be empty")
	}
}

func TestVSliderInvertedHasMinimumAtBottom(t *testing.T) {
	got := VSlider(0.25, 5, true)
	want := []string{"│", "│", "│", "●", "┃"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("inverted = %q, want %q", got, want)
	}

	got = VSlider(0.25, 5, false)
	want = []string{"┃", "●", "│", "│", "│"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("plain = %q, want %q", got, want)
	}
}
