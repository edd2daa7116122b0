// Package reader loads the material for a reading session. Vocabulary and
// segment lists are fetched from the language service concurrently; either
// fetch can fail without sinking the session, degrading it instead.
package reader
