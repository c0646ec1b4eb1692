package probe

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single ffprobe invocation.
const DefaultTimeout = 30 * time.Second

// Stream describes one media stream as reported by ffprobe.
type Stream struct {
	CodecType  string  `json:"codecType"`
	CodecName  string  `json:"codecName"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	FrameRate  float64 `json:"frameRate,omitempty"`
	SampleRate int     `json:"sampleRate,omitempty"`
	Channels   int     `json:"channels,omitempty"`
}

// Result carries container and stream metadata. A zero Result means
// the file could not be inspected; callers must treat zero duration as
// unknown, not as zero-length media.
type Result struct {
	DurationSeconds float64  `json:"durationSeconds"`
	FormatName      string   `json:"formatName"`
	SizeBytes       int64    `json:"sizeBytes"`
	Streams         []Stream `json:"streams"`
}

// ffprobe's JSON wire format reports numbers as strings.
type probeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// Runner abstracts ffprobe execution for testability.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner executes ffprobe via os/exec and captures stdout.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Prober queries the companion inspection tool for media metadata.
type Prober struct {
	binary  string
	timeout time.Duration
	runner  Runner
}

// New constructs a prober for the given ffprobe binary. An empty
// binary falls back to the PATH lookup name.
func New(binary string) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{
		binary:  binary,
		timeout: DefaultTimeout,
		runner:  execRunner{},
	}
}

// NewForTests constructs a prober with an injected runner and timeout.
func NewForTests(binary string, timeout time.Duration, r Runner) *Prober {
	p := New(binary)
	if timeout > 0 {
		p.timeout = timeout
	}
	if r != nil {
		p.runner = r
	}
	return p
}

// Probe inspects a media file. It degrades on every failure: a missing
// tool, a timeout, or malformed output all yield a zero Result rather
// than an error, so the main operation can proceed without percentage
// reporting.
func (p *Prober) Probe(ctx context.Context, path string) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.runner.Run(ctx, p.binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return Result{}
	}

	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return Result{}
	}

	result := Result{FormatName: out.Format.FormatName}
	result.DurationSeconds, _ = strconv.ParseFloat(out.Format.Duration, 64)
	result.SizeBytes, _ = strconv.ParseInt(out.Format.Size, 10, 64)

	for _, s := range out.Streams {
		stream := Stream{
			CodecType: s.CodecType,
			CodecName: s.CodecName,
			Width:     s.Width,
			Height:    s.Height,
		}
		stream.FrameRate = parseRatio(s.RFrameRate)
		stream.SampleRate, _ = strconv.Atoi(s.SampleRate)
		stream.Channels = s.Channels
		result.Streams = append(result.Streams, stream)
	}
	return result
}

// Duration returns just the container duration in seconds, zero when
// unknown.
func (p *Prober) Duration(ctx context.Context, path string) float64 {
	return p.Probe(ctx, path).DurationSeconds
}

// EstimateTotalDuration sums the durations of every input for batch
// progress scaling. Unreadable files contribute nothing.
func (p *Prober) EstimateTotalDuration(ctx context.Context, paths []string) float64 {
	var total float64
	for _, path := range paths {
		total += p.Duration(ctx, path)
	}
	return total
}

// parseRatio converts ffprobe's "num/den" frame rate to a float.
func parseRatio(ratio string) float64 {
	if ratio == "" || ratio == "0/0" || ratio == "0/1" {
		return 0
	}

	parts := strings.SplitN(ratio, "/", 2)
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	if len(parts) == 1 {
		return num
	}

	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}
