package command

import "sort"

// Preset is a named, immutable bundle of encoding parameters. Applying
// a preset copies values into a fresh operation; presets themselves
// never change after startup.
type Preset struct {
	Format      string `json:"format"`
	VideoCodec  string `json:"videoCodec"`
	AudioCodec  string `json:"audioCodec"`
	CRF         int    `json:"crf"`
	Speed       string `json:"speed"`
	Scale       string `json:"scale,omitempty"`
	OptimizeWeb bool   `json:"optimizeWeb"`
}

// presets is the static catalog consulted by the UI before assembly.
var presets = map[string]Preset{
	"YouTube Upload": {
		Format:      "mp4",
		VideoCodec:  "libx264",
		AudioCodec:  "aac",
		CRF:         23,
		Speed:       "medium",
		OptimizeWeb: true,
	},
	"WhatsApp Share": {
		Format:      "mp4",
		VideoCodec:  "libx264",
		AudioCodec:  "aac",
		CRF:         28,
		Speed:       "fast",
		Scale:       "720p",
		OptimizeWeb: true,
	},
	"High Quality": {
		Format:      "mp4",
		VideoCodec:  "libx264",
		AudioCodec:  "aac",
		CRF:         18,
		Speed:       "slow",
		OptimizeWeb: true,
	},
	"Small File Size": {
		Format:      "mp4",
		VideoCodec:  "libx264",
		AudioCodec:  "aac",
		CRF:         32,
		Speed:       "fast",
		Scale:       "480p",
		OptimizeWeb: true,
	},
	"Archive Quality": {
		Format:      "mkv",
		VideoCodec:  "libx265",
		AudioCodec:  "flac",
		CRF:         16,
		Speed:       "slow",
		OptimizeWeb: false,
	},
}

// LookupPreset returns the named preset when it exists.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames lists available preset names in stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Convert copies preset values into a fresh conversion spec for the
// given input/output pair. Symbolic scales are resolved to concrete
// dimensions here so the assembler stays table-free for Convert.
func (p Preset) Convert(input, output string) Convert {
	op := Convert{
		Input:      input,
		Output:     output,
		VideoCodec: p.VideoCodec,
		AudioCodec: p.AudioCodec,
		Options: ConvertOptions{
			CRF:    p.CRF,
			Preset: p.Speed,
		},
	}
	if dims, ok := ResolveScale(p.Scale); ok {
		op.Options.Scale = dims
	}
	return op
}
