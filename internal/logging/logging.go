// internal/logging/logging.go

// Package logging routes the standard logger to the application log file.
// The terminal belongs to the UI, so nothing is written to stdout.
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

	"github.com/mwiater/promptsql/internal/util"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init points the standard logger at logPath, creating parent directories as
// needed. An empty path discards log output.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	if logPath == "" {
		log.SetOutput(io.Discard)
		return nil
	}

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
	log.SetOutput(logFile)
	return nil
}

// Close restores stderr output and closes the log file.
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

func LogEvent(format string, args ...any) {
	log.Println(fmt.Sprintf(format, args...))
}

// maxLoggedPayload caps the payload portion of a request log line, in runes.
const maxLoggedPayload = 2048

// LogRequest records one leg of a backend exchange. Bearer tokens must never
// be part of payload.
func LogRequest(direction, endpoint, requestID string, payload any) {
	log.Println(buildRequestMessage(direction, endpoint, requestID, payload))
}

func buildRequestMessage(direction, endpoint, requestID string, payload any) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = "unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] endpoint=%s", strings.ToUpper(strings.TrimSpace(direction)), endpoint)
	if requestID = strings.TrimSpace(requestID); requestID != "" {
		fmt.Fprintf(&b, " request_id=%s", requestID)
	}
	fmt.Fprintf(&b, " payload=%s", util.Truncate(formatPayload(payload), maxLoggedPayload))
	return b.String()
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
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}
