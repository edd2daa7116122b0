package audio

import (
	"fmt"
	"os/exec"
	"runtime"
)

// execLauncher starts platform audio player processes. ffplay is preferred
// because it is the only player in the chain that supports both seeking and
// pitch-preserving rate changes (the atempo filter changes tempo without
// shifting pitch); the remaining players cover plain start-to-end playback.
type execLauncher struct{}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Wait() error { return p.cmd.Wait() }

func (p *execProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

func (l *execLauncher) launch(file string, offset, rate float64) (process, error) {
	cmd, err := buildPlayerCommand(file, offset, rate)
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &execProcess{cmd: cmd}, nil
}

func buildPlayerCommand(file string, offset, rate float64) (*exec.Cmd, error) {
	if _, err := exec.LookPath("ffplay"); err == nil {
		args := []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}
		if offset > 0 {
			args = append(args, "-ss", fmt.Sprintf("%.3f", offset))
		}
		if rate != 1.0 {
			args = append(args, "-af", atempoFilter(rate))
		}
		args = append(args, file)
		return exec.Command("ffplay", args...), nil
	}

	// without ffplay there is no seek or rate support
	if offset > 0 || rate != 1.0 {
		return nil, fmt.Errorf("seeking and rate changes require ffplay; install ffmpeg")
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("afplay", file), nil
	case "linux":
		// mpg123 first since it handles MP3 files best
		if _, err := exec.LookPath("mpg123"); err == nil {
			return exec.Command("mpg123", "-q", file), nil
		} else if _, err := exec.LookPath("play"); err == nil {
			// SoX play command
			return exec.Command("play", "-q", file), nil
		} else if _, err := exec.LookPath("paplay"); err == nil {
			return exec.Command("paplay", file), nil
		} else if _, err := exec.LookPath("aplay"); err == nil {
			return exec.Command("aplay", "-q", file), nil
		}
		return nil, fmt.Errorf("no audio player found. Install ffplay, mpg123, sox, paplay, or aplay")
	case "windows":
		return exec.Command("cmd", "/c", "start", "/min", "/wait", file), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// atempoFilter builds an ffmpeg atempo chain for the given rate. A single
// atempo instance only accepts 0.5 to 2.0, so rates outside that range are
// composed from two stages.
func atempoFilter(rate float64) string {
	switch {
	case rate < 0.5:
		return fmt.Sprintf("atempo=0.5,atempo=%.4f", rate/0.5)
	case rate > 2.0:
		return fmt.Sprintf("atempo=2.0,atempo=%.4f", rate/2.0)
	default:
		return fmt.Sprintf("atempo=%.4f", rate)
	}
}
