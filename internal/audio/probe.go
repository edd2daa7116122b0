package audio

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeDuration returns the duration of an audio file in seconds, probed with
// ffprobe. The result is millisecond-accurate, which matters because it is
// the sole basis for segment timestamp allocation.
func ProbeDuration(file string) (float64, error) {
	if _, err := os.Stat(file); err != nil {
		return 0, fmt.Errorf("audio file not accessible: %w", err)
	}

	if _, err := exec.LookPath("ffprobe"); err != nil {
		return 0, fmt.Errorf("ffprobe is not installed or not in PATH: %w", err)
	}

	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		file,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w", file, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe duration %q: %w", strings.TrimSpace(string(output)), err)
	}

	if duration <= 0 {
		return 0, fmt.Errorf("ffprobe reported non-positive duration %v for %s", duration, file)
	}

	return duration, nil
}
