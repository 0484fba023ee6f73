package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Connection errors (1xxx)
	ErrCodeConnectionFailed ErrorCode = "MART1001"
	ErrCodeDatabaseMissing  ErrorCode = "MART1002"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound ErrorCode = "MART2001"
	ErrCodeConfigInvalid  ErrorCode = "MART2002"

	// Schema errors (3xxx)
	ErrCodeSchemaDDL       ErrorCode = "MART3001"
	ErrCodeDuplicateColumn ErrorCode = "MART3002"
	ErrCodeTableNotFound   ErrorCode = "MART3003"

	// Transform / SQL execution errors (4xxx)
	ErrCodeSQLSyntax      ErrorCode = "MART4001"
	ErrCodeSQLTransaction ErrorCode = "MART4002"
	ErrCodeTransform      ErrorCode = "MART4003"
	ErrCodeViewCreation   ErrorCode = "MART4004"

	// File / ingestion errors (5xxx)
	ErrCodeFileNotFound  ErrorCode = "MART5001"
	ErrCodeFileOperation ErrorCode = "MART5002"
	ErrCodeDumpMalformed ErrorCode = "MART5003"

	// Validation errors (6xxx)
	ErrCodeValidationFailed ErrorCode = "MART6001"
	ErrCodeInvalidInput     ErrorCode = "MART6002"

	// System errors (9xxx)
	ErrCodeInternal ErrorCode = "MART9001"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL"
	SeverityError    ErrorSeverity = "ERROR"
	SeverityWarning  ErrorSeverity = "WARNING"
	SeverityInfo     ErrorSeverity = "INFO"
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		Severity:    SeverityError,
		Context:     make(map[string]interface{}),
		Stack:       captureStack(),
		Timestamp:   time.Now(),
		Recoverable: false,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit its context
	if ae, ok := err.(*AppError); ok {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ConnectionError creates a storage connection error
func ConnectionError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeConnectionFailed, message).
		WithSeverity(SeverityError).
		WithSuggestions(
			"Check that the warehouse file path is correct",
			"Verify the file is not locked by another process",
		)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'martctl setup' to reconfigure",
		)
}

// SchemaError creates a DDL failure error
func SchemaError(message string, statement string, cause error) *AppError {
	return Wrap(cause, ErrCodeSchemaDDL, message).
		WithContext("statement", truncateString(statement, 200))
}

// SQLError creates an SQL execution error, classifying known driver
// failures into distinguishable codes so callers never match on message
// substrings themselves.
func SQLError(message string, query string, cause error) *AppError {
	err := Wrap(cause, ErrCodeSQLSyntax, message).
		WithContext("query", truncateString(query, 200))

	if cause != nil {
		causeStr := cause.Error()
		switch {
		case strings.Contains(causeStr, "duplicate column name"):
			err.Code = ErrCodeDuplicateColumn
		case strings.Contains(causeStr, "no such table"):
			err.Code = ErrCodeTableNotFound
			_ = err.WithSuggestions(
				"Run 'martctl load run' to load the raw tables first",
				"Run 'martctl schema' to create the warehouse tables",
			)
		}
	}

	return err
}

// TransformError creates an error for a transformation query that failed
// mid-run, recording how many rows made it in before the rollback.
func TransformError(step string, rowsInserted int64, cause error) *AppError {
	return Wrap(cause, ErrCodeTransform, fmt.Sprintf("transform step %q failed", step)).
		WithContext("step", step).
		WithContext("rows_before_failure", rowsInserted)
}

// ValidationError creates a validation error
func ValidationError(field string, value interface{}, reason string) *AppError {
	return New(ErrCodeValidationFailed, fmt.Sprintf("Validation failed for %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value).
		WithSeverity(SeverityWarning).
		AsRecoverable()
}

// IsDuplicateColumn reports whether the error is the tolerated
// column-already-exists case from an idempotent ALTER TABLE.
func IsDuplicateColumn(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == ErrCodeDuplicateColumn
	}
	return false
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
