package bundleplayer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kenavn/skelctl/internal/bundle"
	"github.com/kenavn/skelctl/internal/recorder"
)

func TestBuildFramesSortsAscendingAndBreaksTiesEyeBeforeMouth(t *testing.T) {
	b := &bundle.Bundle{
		Eye: []recorder.EyeSample{
			{TimeMs: 50},
			{TimeMs: 10},
		},
		Mouth: []recorder.MouthSample{
			{TimeMs: 10},
			{TimeMs: 30},
		},
	}
	frames := BuildFrames(b)
	var times []int64
	var kinds []FrameKind
	for _, f := range frames {
		times = append(times, f.TimeMs)
		kinds = append(kinds, f.Kind)
	}
	assert.Equal(t, []int64{10, 10, 30, 50}, times)
	assert.Equal(t, FrameEye, kinds[0])
	assert.Equal(t, FrameMouth, kinds[1])
}
