package probe

import (
	"fmt"
	"strings"
)

// Summary renders probe metadata as display lines for the UI file
// info panel. A zero Result produces a fallback message.
func Summary(r Result) string {
	if r.FormatName == "" && len(r.Streams) == 0 {
		return "Unable to read file information"
	}

	parts := []string{
		fmt.Sprintf("Format: %s", strings.ToUpper(r.FormatName)),
		fmt.Sprintf("Size: %.1f MB", float64(r.SizeBytes)/(1024*1024)),
		fmt.Sprintf("Duration: %s", formatDuration(r.DurationSeconds)),
	}

	if video := firstStream(r.Streams, "video"); video != nil {
		line := fmt.Sprintf("Video: %s %dx%d", strings.ToUpper(video.CodecName), video.Width, video.Height)
		if video.FrameRate > 0 {
			line += fmt.Sprintf(" @ %.1f FPS", video.FrameRate)
		}
		parts = append(parts, line)
	}

	if audio := firstStream(r.Streams, "audio"); audio != nil {
		parts = append(parts, fmt.Sprintf("Audio: %s %dHz %dch",
			strings.ToUpper(audio.CodecName), audio.SampleRate, audio.Channels))
	}

	return strings.Join(parts, "\n")
}

// firstStream returns the first stream of the given codec type.
func firstStream(streams []Stream, codecType string) *Stream {
	for i := range streams {
		if streams[i].CodecType == codecType {
			return &streams[i]
		}
	}
	return nil
}

// formatDuration renders seconds as HH:MM:SS.
func formatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
