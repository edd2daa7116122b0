// Package speech turns short texts into spoken audio cues. A cue is a
// cancellable, awaitable unit; the package guarantees at most one live
// utterance system-wide and resolves failures as completion so callers can
// sequence on cues without stalling.
package speech
