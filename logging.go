package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// setupLogging configures the package logger. Logs stay at warn level by
// default so they do not interleave with the board. The returned function
// restores stderr and closes the log file.
func setupLogging(debug bool, file string) (func(), error) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	log.SetLevel(log.WarnLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if file == "" {
		log.SetOutput(os.Stderr)
		return func() {}, nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)

	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
