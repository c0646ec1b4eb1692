package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Program is the default ffmpeg executable name used as the first
// token of every assembled argument vector.
const Program = "ffmpeg"

// CodecCopy is the passthrough token that selects stream copy instead
// of an encoder.
const CodecCopy = "copy"

// MergeMethod selects the concatenation strategy for Merge.
type MergeMethod string

const (
	// MergeFast uses the concat demuxer with stream copy. Inputs must
	// share codecs; no pre-flight check is performed.
	MergeFast MergeMethod = "fast"
	// MergeReencode chains inputs through a concat filter graph and
	// re-encodes the output.
	MergeReencode MergeMethod = "reencode"
)

// audioCodecs maps symbolic audio formats to ffmpeg encoder names.
var audioCodecs = map[string]string{
	"mp3":  "libmp3lame",
	"aac":  "aac",
	"wav":  "pcm_s16le",
	"flac": "flac",
	"ogg":  "libvorbis",
}

// losslessFormats never receive a bitrate flag.
var losslessFormats = map[string]bool{
	"wav":  true,
	"flac": true,
}

// resolutions maps symbolic scale names to ffmpeg scale dimensions.
var resolutions = map[string]string{
	"1080p": "1920:1080",
	"720p":  "1280:720",
	"480p":  "854:480",
	"360p":  "640:360",
}

// ResolveScale returns the concrete width:height for a symbolic
// resolution name. "Original" and unknown names resolve to nothing.
func ResolveScale(name string) (string, bool) {
	dims, ok := resolutions[name]
	return dims, ok
}

// Convert describes a container/codec conversion.
type Convert struct {
	Input      string
	Output     string
	VideoCodec string
	AudioCodec string
	Options    ConvertOptions
}

// ConvertOptions holds optional encoding parameters. Zero values mean
// the corresponding flag is omitted. Scale is a concrete width:height
// expression, already resolved by the caller.
type ConvertOptions struct {
	CRF    int
	Preset string
	Scale  string
}

// ExtractAudio describes pulling the audio track into a standalone file.
type ExtractAudio struct {
	Input   string
	Output  string
	Format  string
	Bitrate string
}

// Compress describes re-encoding with libx264 at a target quality.
type Compress struct {
	Input  string
	Output string
	CRF    int
	Preset string
	// Scale is a symbolic resolution name (720p, 480p, ...). Empty or
	// "Original" keeps the source resolution.
	Scale string
}

// Trim describes cutting a clip without re-encoding. Times are
// HH:MM:SS strings; empty or "00:00:00" means unset.
type Trim struct {
	Input    string
	Output   string
	Start    string
	End      string
	Duration string
}

// Merge describes concatenating multiple inputs into one output.
type Merge struct {
	Inputs      []string
	Output      string
	Method      MergeMethod
	OutputCodec string
}

// Builder assembles ffmpeg argument vectors. It is pure except for the
// fast-merge path, which writes a transient concat manifest.
type Builder struct {
	program string
}

// NewBuilder returns a builder targeting the default ffmpeg program.
func NewBuilder() *Builder {
	return &Builder{program: Program}
}

// NewBuilderFor returns a builder targeting a specific ffmpeg binary.
func NewBuilderFor(program string) *Builder {
	program = strings.TrimSpace(program)
	if program == "" {
		program = Program
	}
	return &Builder{program: program}
}

// Program reports the executable name used as the first vector token.
func (b *Builder) Program() string {
	return b.program
}

// base returns the leading tokens shared by every operation. The -y
// flag overwrites existing output files without prompting.
func (b *Builder) base() []string {
	return []string{b.program, "-y"}
}

// Convert assembles a format conversion command.
func (b *Builder) Convert(op Convert) ([]string, error) {
	if err := requireOutput(op.Output); err != nil {
		return nil, err
	}

	if op.VideoCodec == "" || op.AudioCodec == "" {
		return nil, fmt.Errorf("video and audio codecs are required")
	}

	args := b.base()
	args = append(args, "-i", op.Input)
	args = append(args, "-c:v", op.VideoCodec)
	args = append(args, "-c:a", op.AudioCodec)

	if op.Options.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(op.Options.CRF))
	}
	if op.Options.Preset != "" {
		args = append(args, "-preset", op.Options.Preset)
	}
	if op.Options.Scale != "" {
		args = append(args, "-vf", "scale="+op.Options.Scale)
	}

	return append(args, op.Output), nil
}

// ExtractAudio assembles an audio extraction command. Lossless formats
// never receive a bitrate flag.
func (b *Builder) ExtractAudio(op ExtractAudio) ([]string, error) {
	if err := requireOutput(op.Output); err != nil {
		return nil, err
	}

	args := b.base()
	args = append(args, "-i", op.Input)
	args = append(args, "-vn")

	if codec, ok := audioCodecs[op.Format]; ok {
		args = append(args, "-c:a", codec)
	}
	if !losslessFormats[op.Format] {
		bitrate := op.Bitrate
		if bitrate == "" {
			bitrate = "192k"
		}
		args = append(args, "-b:a", bitrate)
	}

	return append(args, op.Output), nil
}

// Compress assembles a libx264 compression command with fixed aac
// audio at 128k.
func (b *Builder) Compress(op Compress) ([]string, error) {
	if err := requireOutput(op.Output); err != nil {
		return nil, err
	}

	args := b.base()
	args = append(args, "-i", op.Input)
	args = append(args, "-c:v", "libx264")
	args = append(args, "-crf", strconv.Itoa(op.CRF))
	args = append(args, "-preset", op.Preset)
	args = append(args, "-c:a", "aac")
	args = append(args, "-b:a", "128k")

	if op.Scale != "" && op.Scale != "Original" {
		if dims, ok := ResolveScale(op.Scale); ok {
			args = append(args, "-vf", "scale="+dims)
		}
	}

	return append(args, op.Output), nil
}

// Trim assembles a stream-copy trim command. A non-zero start time is
// emitted before the input flag so ffmpeg seeks before decoding; the
// cut lands on the nearest keyframe. Duration wins over end time when
// both are set.
func (b *Builder) Trim(op Trim) ([]string, error) {
	if err := requireOutput(op.Output); err != nil {
		return nil, err
	}

	args := b.base()
	if !isZeroTime(op.Start) {
		args = append(args, "-ss", op.Start)
	}
	args = append(args, "-i", op.Input)

	if !isZeroTime(op.Duration) {
		args = append(args, "-t", op.Duration)
	} else if !isZeroTime(op.End) {
		args = append(args, "-to", op.End)
	}

	args = append(args, "-c", "copy")
	return append(args, op.Output), nil
}

// Merge assembles a concatenation command. The fast method writes a
// transient concat manifest and returns a cleanup func that removes
// it; the caller must invoke cleanup after the process exits. When the
// manifest cannot be written the builder falls back to the re-encode
// method.
func (b *Builder) Merge(op Merge) ([]string, func(), error) {
	noop := func() {}
	if err := requireOutput(op.Output); err != nil {
		return nil, noop, err
	}
	if len(op.Inputs) == 0 {
		return nil, noop, fmt.Errorf("merge requires at least one input")
	}

	if op.Method == MergeFast {
		manifest, cleanup, err := writeConcatManifest(op.Inputs)
		if err == nil {
			args := b.base()
			args = append(args, "-f", "concat", "-safe", "0", "-i", manifest)
			args = append(args, "-c", "copy")
			return append(args, op.Output), cleanup, nil
		}
	}

	args, err := b.mergeReencode(op.Inputs, op.Output, op.OutputCodec)
	return args, noop, err
}

// mergeReencode chains every input's video+audio pair into a concat
// filter with labelled outputs and maps them to the requested codec.
func (b *Builder) mergeReencode(inputs []string, output, outputCodec string) ([]string, error) {
	args := b.base()
	for _, input := range inputs {
		args = append(args, "-i", input)
	}

	var filter strings.Builder
	for i := range inputs {
		fmt.Fprintf(&filter, "[%d:v][%d:a]", i, i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=1:a=1[outv][outa]", len(inputs))

	args = append(args, "-filter_complex", filter.String())
	args = append(args, "-map", "[outv]", "-map", "[outa]")

	if outputCodec == "" {
		outputCodec = "libx264"
	}
	if outputCodec != CodecCopy {
		args = append(args, "-c:v", outputCodec)
		args = append(args, "-c:a", "aac")
	}

	return append(args, output), nil
}

// Custom tokenizes a raw argument string with shell-style quoting and
// prepends the program name. No semantic validation is applied beyond
// tokenization success.
func (b *Builder) Custom(raw string) ([]string, error) {
	tokens, err := shlex.Split(raw)
	if err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return append([]string{b.program}, tokens...), nil
}

// requireOutput rejects operations without an output path.
func requireOutput(output string) error {
	if strings.TrimSpace(output) == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}

// isZeroTime reports whether a time field is unset or the zero sentinel.
func isZeroTime(value string) bool {
	return value == "" || value == "00:00:00"
}
