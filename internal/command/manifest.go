package command

import (
	"fmt"
	"os"
	"strings"
)

// writeConcatManifest writes the transient input list consumed by the
// concat demuxer, one `file '<path>'` line per input. Paths are
// forward-slash normalized and single quotes are escaped. The manifest
// is uniquely named so concurrent merges cannot collide; the returned
// cleanup removes it on every exit path.
func writeConcatManifest(inputs []string) (string, func(), error) {
	f, err := os.CreateTemp("", "concat-list-*.txt")
	if err != nil {
		return "", nil, fmt.Errorf("create concat manifest: %w", err)
	}
	path := f.Name()
	cleanup := func() {
		_ = os.Remove(path)
	}

	for _, input := range inputs {
		safe := strings.ReplaceAll(input, `\`, "/")
		safe = strings.ReplaceAll(safe, "'", `\'`)
		if _, err := fmt.Fprintf(f, "file '%s'\n", safe); err != nil {
			_ = f.Close()
			cleanup()
			return "", nil, fmt.Errorf("write concat manifest: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close concat manifest: %w", err)
	}

	return path, cleanup, nil
}
