// Package buildinfo prints build metadata injected at link time.
package buildinfo

import (
	"fmt"
	"io"
)

// Set via -ldflags "-X github.com/Ayash13/Antivity/internal/buildinfo.BuildVersion=..."
var (
	BuildVersion string
	BuildDate    string
	BuildCommit  string
)

// PrintBuildData writes the build version, date and commit to w, printing
// "N/A" for anything the build did not set.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", orNA(BuildVersion))
	fmt.Fprintf(w, "Build date: %s\n", orNA(BuildDate))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(BuildCommit))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
