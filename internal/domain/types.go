package domain

// JobStatus tracks the lifecycle of a single supervised ffmpeg run.
type JobStatus string

const (
	JobStatusIdle      JobStatus = "idle"
	JobStatusStarting  JobStatus = "starting"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Settings contains user-selectable runtime configuration persisted
// between sessions. The conversion core never reads these directly; the
// UI layer resolves them into explicit operation parameters.
type Settings struct {
	FFmpegPath       string `json:"ffmpegPath" toml:"ffmpeg_path"`
	FFprobePath      string `json:"ffprobePath" toml:"ffprobe_path"`
	LastInputDir     string `json:"lastInputDir" toml:"last_input_dir"`
	LastOutputDir    string `json:"lastOutputDir" toml:"last_output_dir"`
	DefaultPreset    string `json:"defaultPreset" toml:"default_preset"`
	OptimizeWeb      bool   `json:"optimizeWeb" toml:"optimize_web"`
	PreserveMetadata bool   `json:"preserveMetadata" toml:"preserve_metadata"`
}

// Job stores the current job identity and lifecycle status.
type Job struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
}
