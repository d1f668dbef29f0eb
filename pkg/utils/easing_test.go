package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEasingEndpoints(t *testing.T) {
	for name, f := range map[string]func(float64) float64{
		"outCubic": EaseOutCubic,
		"outQuad":  EaseOutQuad,
		"inQuad":   EaseInQuad,
	} {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 0, f(0), 1e-12)
			assert.InDelta(t, 1, f(1), 1e-12)
			assert.InDelta(t, 0, f(-2), 1e-12, "clamped below")
			assert.InDelta(t, 1, f(3), 1e-12, "clamped above")
		})
	}
	assert.InDelta(t, 0.875, EaseOutCubic(0.5), 1e-12)
	assert.InDelta(t, 0.75, EaseOutQuad(0.5), 1e-12)
	assert.InDelta(t, 0.25, EaseInQuad(0.5), 1e-12)
}

func TestFadeOut(t *testing.T) {
	assert.Equal(t, 1.0, FadeOut(0, 2, 0.5))
	assert.Equal(t, 1.0, FadeOut(1, 2, 0.5), "held for the first half")
	assert.InDelta(t, 0.75, FadeOut(1.5, 2, 0.5), 1e-12)
	assert.Equal(t, 0.0, FadeOut(2, 2, 0.5))
	assert.Equal(t, 0.0, FadeOut(1, 0, 0.5))
}
