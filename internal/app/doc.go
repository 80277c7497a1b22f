// Package app contains the core application logic. It loads the job files,
// wires the program builder and the reporters together and runs the jobs on
// a bounded worker pool, decoupled from any specific entrypoint like a CLI.
package app
