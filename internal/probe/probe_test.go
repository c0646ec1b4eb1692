package probe

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleProbeJSON = `{
  "format": {
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "duration": "65.300000",
    "size": "12910592"
  },
  "streams": [
    {
      "codec_type": "video",
      "codec_name": "h264",
      "width": 1920,
      "height": 1080,
      "r_frame_rate": "30000/1001"
    },
    {
      "codec_type": "audio",
      "codec_name": "aac",
      "sample_rate": "48000",
      "channels": 2
    }
  ]
}`

// fakeRunner scripts ffprobe invocations.
type fakeRunner struct {
	output  []byte
	err     error
	gotName string
	gotArgs []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.gotName = name
	f.gotArgs = append([]string{}, args...)
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

// TestProbeParsesMetadata verifies duration, format, and per-stream
// fields decode from ffprobe JSON.
func TestProbeParsesMetadata(t *testing.T) {
	runner := &fakeRunner{output: []byte(sampleProbeJSON)}
	p := NewForTests("ffprobe", time.Second, runner)

	result := p.Probe(context.Background(), "/media/clip.mp4")

	if result.DurationSeconds != 65.3 {
		t.Fatalf("duration = %v, want 65.3", result.DurationSeconds)
	}
	if result.SizeBytes != 12910592 {
		t.Fatalf("size = %d, want 12910592", result.SizeBytes)
	}
	if len(result.Streams) != 2 {
		t.Fatalf("stream count = %d, want 2", len(result.Streams))
	}

	video := result.Streams[0]
	if video.CodecName != "h264" || video.Width != 1920 || video.Height != 1080 {
		t.Fatalf("video stream = %+v", video)
	}
	if video.FrameRate < 29.9 || video.FrameRate > 30.0 {
		t.Fatalf("frame rate = %v, want ~29.97", video.FrameRate)
	}

	audio := result.Streams[1]
	if audio.CodecName != "aac" || audio.SampleRate != 48000 || audio.Channels != 2 {
		t.Fatalf("audio stream = %+v", audio)
	}

	if runner.gotName != "ffprobe" {
		t.Fatalf("binary = %q, want ffprobe", runner.gotName)
	}
	if runner.gotArgs[len(runner.gotArgs)-1] != "/media/clip.mp4" {
		t.Fatalf("path should be last arg, args=%v", runner.gotArgs)
	}
}

// TestProbeDegradesOnFailure verifies tool failures yield a zero
// result rather than an error.
func TestProbeDegradesOnFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("executable file not found in $PATH")}
	p := NewForTests("ffprobe", time.Second, runner)

	result := p.Probe(context.Background(), "/media/clip.mp4")
	if result.DurationSeconds != 0 || len(result.Streams) != 0 {
		t.Fatalf("result = %+v, want zero", result)
	}
}

// TestProbeDegradesOnMalformedOutput verifies bad JSON yields a zero
// result.
func TestProbeDegradesOnMalformedOutput(t *testing.T) {
	runner := &fakeRunner{output: []byte("not json at all")}
	p := NewForTests("ffprobe", time.Second, runner)

	result := p.Probe(context.Background(), "/media/clip.mp4")
	if result.DurationSeconds != 0 {
		t.Fatalf("duration = %v, want 0", result.DurationSeconds)
	}
}

// TestEstimateTotalDurationSkipsUnreadable verifies the sum ignores
// files the tool cannot read.
func TestEstimateTotalDurationSkipsUnreadable(t *testing.T) {
	calls := 0
	p := NewForTests("ffprobe", time.Second, runnerFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("exit status 1")
		}
		return []byte(sampleProbeJSON), nil
	}))

	total := p.EstimateTotalDuration(context.Background(), []string{"a.mp4", "b.mp4", "c.mp4"})
	if total != 130.6 {
		t.Fatalf("total = %v, want 130.6", total)
	}
}

// runnerFunc adapts a function to the runner interface.
type runnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func (f runnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// TestParseRatio verifies frame-rate ratio handling.
func TestParseRatio(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"25", 25},
		{"0/0", 0},
		{"0/1", 0},
		{"", 0},
		{"bad/1", 0},
	}
	for _, tc := range cases {
		if got := parseRatio(tc.in); got != tc.want {
			t.Fatalf("parseRatio(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// TestSummaryRendersStreams verifies the display rendering.
func TestSummaryRendersStreams(t *testing.T) {
	runner := &fakeRunner{output: []byte(sampleProbeJSON)}
	p := NewForTests("ffprobe", time.Second, runner)
	result := p.Probe(context.Background(), "/media/clip.mp4")

	summary := Summary(result)
	for _, want := range []string{
		"Duration: 00:01:05",
		"Size: 12.3 MB",
		"Video: H264 1920x1080",
		"Audio: AAC 48000Hz 2ch",
	} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}

// TestSummaryZeroResult verifies the fallback message.
func TestSummaryZeroResult(t *testing.T) {
	if got := Summary(Result{}); got != "Unable to read file information" {
		t.Fatalf("summary = %q", got)
	}
}
