package audio

import (
	"context"
	"fmt"
)

// PlayFile plays an audio file start to end using the platform player,
// blocking until playback finishes or ctx is cancelled. It is the plain
// playback path used for speech cues; the reading audio goes through Engine
// instead.
func PlayFile(ctx context.Context, file string) error {
	cmd, err := buildPlayerCommand(file, 0, 1.0)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start audio player: %w", err)
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		cmd.Process.Kill()
		<-waitErr
		return ctx.Err()
	case err := <-waitErr:
		if err != nil {
			return fmt.Errorf("audio player failed: %w", err)
		}
		return nil
	}
}
