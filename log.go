package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// setupLog directs log output to the file named by TTSDECK_LOGFILE, or
// discards it. The returned closer flushes the file on exit.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	if lf := os.Getenv("TTSDECK_LOGFILE"); lf != "" {
		f, err := os.OpenFile(lf, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec
		if err != nil {
			return nil, fmt.Errorf("error setting up logging: %w", err)
		}
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		log.SetTimeFormat(time.Kitchen)
		return f.Close, nil
	}

	return func() error { return nil }, nil
}
