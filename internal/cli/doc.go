// Package cli parses and validates the command-line surface shared by the
// circuitgrid binaries: flag handling, usage text, and the ExitError type
// that maps validation failures to process exit codes.
package cli
