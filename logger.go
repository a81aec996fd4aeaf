package fitplan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// AuditLogger is the interface for recording generation and delivery attempts.
type AuditLogger interface {
	LogAttempt(attempt AttemptLog) error
}

// NewAuditLogFilePath returns a file path based on a cleaned up model name or id to make it easier to identify logs produced with various models.
func NewAuditLogFilePath(model string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.ReplaceAll(strings.ToLower(model), ":", "_"),
	)
}

// Repair paths recorded on nutrition attempts.
const (
	RepairNone         = "none"
	RepairModel        = "model"
	RepairProgrammatic = "programmatic"
)

// AttemptLog represents a single generation or delivery attempt.
type AttemptLog struct {
	Kind       string    `json:"kind"` // workout | nutrition | delivery
	Timestamp  time.Time `json:"timestamp"`
	Model      string    `json:"model,omitempty"`
	PromptSize int       `json:"prompt_size,omitempty"`
	OutputSize int       `json:"output_size,omitempty"`
	RepairPath string    `json:"repair_path,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// FileAuditLogger logs to a writer, accumulating attempts and flushing at the end.
type FileAuditLogger struct {
	attempts []AttemptLog
	writer   io.Writer
}

// NewFileAuditLogger creates a new file-based audit logger.
func NewFileAuditLogger(writer io.Writer) *FileAuditLogger {
	return &FileAuditLogger{
		attempts: make([]AttemptLog, 0),
		writer:   writer,
	}
}

// LogAttempt logs an attempt to the buffer (does not flush immediately).
func (fal *FileAuditLogger) LogAttempt(attempt AttemptLog) error {
	fal.attempts = append(fal.attempts, attempt)
	return nil
}

// Flush flushes all accumulated attempts to the writer.
func (fal *FileAuditLogger) Flush() error {
	if fal.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"generation_session": map[string]any{
			"timestamp": time.Now(),
			"attempts":  fal.attempts,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal audit log: %w", err)
	}

	if _, err := fal.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	// Clear the buffer after successful write
	fal.attempts = fal.attempts[:0]
	return nil
}

// NoOpAuditLogger is a logger that discards all log entries.
type NoOpAuditLogger struct{}

// NewNoOpAuditLogger creates a new no-op audit logger.
func NewNoOpAuditLogger() *NoOpAuditLogger {
	return &NoOpAuditLogger{}
}

// LogAttempt discards the attempt log (no-op).
func (nop *NoOpAuditLogger) LogAttempt(attempt AttemptLog) error {
	return nil
}

// StdoutAuditLogger logs each attempt as a JSON line to stdout (for Lambda/CloudWatch).
type StdoutAuditLogger struct{}

// NewStdoutAuditLogger creates a new stdout-based audit logger.
func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

// LogAttempt writes the attempt as a JSON line to os.Stdout.
func (l *StdoutAuditLogger) LogAttempt(attempt AttemptLog) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
