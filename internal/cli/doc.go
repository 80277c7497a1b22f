// Package cli parses command-line arguments into an app.Config, picks the
// run mode (compile, version probe or device listing) and carries the exit
// code of usage errors.
package cli
