package core

// Process exit codes.
const (
	// ExitCodeSuccess indicates the run completed without error.
	ExitCodeSuccess = 0

	// ExitCodeError indicates generation or post-processing failed.
	ExitCodeError = 1

	// ExitCodeUsage indicates invalid flags or configuration.
	ExitCodeUsage = 2
)
