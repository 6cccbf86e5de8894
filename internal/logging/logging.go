// internal/logging/logging.go
// Package logging tees the standard logger to stdout and an optional log
// file, and formats capability request/response lines for debug runs.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init routes the standard logger to stdout and, when logPath is non-empty,
// to an append-mode log file as well. Parent directories are created.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	writers = append(writers, os.Stdout)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close flushes and closes the log file, restoring stderr output.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// LogEvent writes a formatted event line to the configured log outputs.
func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogRequest records one capability round-trip leg: direction is
// "VOXBENCH->RUNTIME" or "RUNTIME->VOXBENCH", capability names the call
// (transcribe, message, tts, trajectory), endpoint is the URL hit.
func LogRequest(direction, capability, endpoint string, payload any) {
	msg := buildRequestMessage(direction, capability, endpoint, payload)
	log.Println(msg)
}

func buildRequestMessage(direction, capability, endpoint string, payload any) string {
	dir := strings.TrimSpace(direction)
	if dir != "" {
		dir = strings.ToUpper(dir)
	}
	capValue := strings.TrimSpace(capability)
	if capValue == "" {
		capValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", dir)}
	parts = append(parts, fmt.Sprintf("capability=%s", capValue))
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		parts = append(parts, fmt.Sprintf("endpoint=%s", endpoint))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
