// Package session runs the timed flash-and-translate learning cycle over a
// vocabulary list, with generation-token based cancellation so skip and stop
// can never race an in-flight cycle.
package session
