package main

import "fmt"

const (
	// Standard colors
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m" // Bright black, often appears as gray

	ResetColor = "\033[0m" // Reset to default color
)

// success prints a green confirmation line, the CLI's stand-in for the
// browser build's success toast.
func success(format string, args ...any) {
	fmt.Printf(Green+format+ResetColor+"\n", args...)
}

// warn prints a yellow notice for non-fatal conditions.
func warn(format string, args ...any) {
	fmt.Printf(Yellow+format+ResetColor+"\n", args...)
}
