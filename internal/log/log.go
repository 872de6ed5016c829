// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package log configures apex/log for the lrubench command.
package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "LRUCACHE_LOG"

// InitLogger sets up Apex with a compact handler writing to stderr and a log
// level from the LRUCACHE_LOG env variable.
func InitLogger() {
	level := strings.ToLower(os.Getenv(EnvLevel))
	if level == "" {
		level = "error"
	}
	log.SetHandler(&CustomHandler{Writer: os.Stderr})
	l, err := log.ParseLevel(level)
	if err != nil {
		l = log.ErrorLevel
	}
	log.SetLevel(l)
}

// CustomHandler formats log messages as a single line with sorted fields.
type CustomHandler struct {
	Writer io.Writer
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := e.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	level := strings.ToUpper(e.Level.String())

	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1s %s", timestamp.Format("2006-01-02 15:04:05"), level, e.Message)
	names := e.Fields.Names()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}
	b.WriteByte('\n')

	_, err := io.WriteString(h.Writer, b.String())
	return err
}
