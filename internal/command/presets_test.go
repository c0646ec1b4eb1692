package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPresetNamesStable verifies the catalog lists every preset once,
// sorted.
func TestPresetNamesStable(t *testing.T) {
	names := PresetNames()
	require.Equal(t, []string{
		"Archive Quality",
		"High Quality",
		"Small File Size",
		"WhatsApp Share",
		"YouTube Upload",
	}, names)
}

// TestLookupPreset verifies known and unknown lookups.
func TestLookupPreset(t *testing.T) {
	p, ok := LookupPreset("YouTube Upload")
	require.True(t, ok)
	assert.Equal(t, "libx264", p.VideoCodec)
	assert.Equal(t, 23, p.CRF)
	assert.True(t, p.OptimizeWeb)

	_, ok = LookupPreset("Nonexistent")
	require.False(t, ok)
}

// TestPresetConvertCopiesValues verifies applying a preset produces a
// fresh spec with resolved scale.
func TestPresetConvertCopiesValues(t *testing.T) {
	p, ok := LookupPreset("WhatsApp Share")
	require.True(t, ok)

	op := p.Convert("in.mov", "out.mp4")
	assert.Equal(t, "in.mov", op.Input)
	assert.Equal(t, "out.mp4", op.Output)
	assert.Equal(t, 28, op.Options.CRF)
	assert.Equal(t, "fast", op.Options.Preset)
	assert.Equal(t, "1280:720", op.Options.Scale)

	// Mutating the produced spec must not affect the catalog.
	op.Options.CRF = 1
	again, _ := LookupPreset("WhatsApp Share")
	assert.Equal(t, 28, again.CRF)
}

// TestPresetConvertAssembles verifies a preset-driven spec survives
// assembly and validation.
func TestPresetConvertAssembles(t *testing.T) {
	p, ok := LookupPreset("Archive Quality")
	require.True(t, ok)

	b := NewBuilder()
	args, err := b.Convert(p.Convert("in.mp4", "out.mkv"))
	require.NoError(t, err)
	require.NoError(t, Validate(args, Program))
	assert.Equal(t, "libx265", argValue(args, "-c:v"))
	assert.Equal(t, "flac", argValue(args, "-c:a"))
	assert.NotContains(t, args, "-vf")
}
