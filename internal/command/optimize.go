package command

import "slices"

// ApplyOptimizations runs the post-assembly flag pass over a vector
// and returns a modified copy. Web optimization inserts the faststart
// movflag directly after a libx264 codec token so players can start
// before the full file downloads. Metadata stripping appends a
// map_metadata reset. Re-running the pass on its own output is a
// no-op.
func ApplyOptimizations(args []string, optimizeWeb, preserveMetadata bool) []string {
	out := slices.Clone(args)

	if optimizeWeb && !slices.Contains(out, "-movflags") {
		if idx := slices.Index(out, "libx264"); idx >= 0 && slices.Contains(out, "-c:v") {
			out = slices.Insert(out, idx+1, "-movflags", "+faststart")
		}
	}

	if !preserveMetadata && !slices.Contains(out, "-map_metadata") {
		out = append(out, "-map_metadata", "-1")
	}

	return out
}
