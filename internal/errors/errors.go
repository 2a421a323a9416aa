package errors

import (
	"fmt"
	"strings"
	"time"
)

// Error types for the lightning-import-extractor system
type ErrorType string

const (
	// Extraction errors
	ErrorTypeExtraction          ErrorType = "extraction"
	ErrorTypeLanguageUnavailable ErrorType = "language_unavailable"

	// File errors
	ErrorTypeFileNotFound         ErrorType = "file_not_found"
	ErrorTypePermission           ErrorType = "permission"
	ErrorTypeUnsupportedExtension ErrorType = "unsupported_extension"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// LanguageUnavailableError reports that a language grammar failed to load.
// The engine records the failure once and returns this error on every later
// use of the language; callers must treat it as a hard fault, not as an
// empty result.
type LanguageUnavailableError struct {
	Type      ErrorType
	Language  string
	Reason    string
	Timestamp time.Time
}

// NewLanguageUnavailableError creates a new language unavailable error
func NewLanguageUnavailableError(language, reason string) *LanguageUnavailableError {
	return &LanguageUnavailableError{
		Type:      ErrorTypeLanguageUnavailable,
		Language:  language,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *LanguageUnavailableError) Error() string {
	return fmt.Sprintf("language %s is unavailable: %s", e.Language, e.Reason)
}

// ExtractionError represents an error during import extraction
type ExtractionError struct {
	Type       ErrorType
	Language   string
	FilePath   string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewExtractionError creates a new extraction error with context
func NewExtractionError(op string, err error) *ExtractionError {
	return &ExtractionError{
		Type:       ErrorTypeExtraction,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithLanguage adds language information to the error
func (e *ExtractionError) WithLanguage(language string) *ExtractionError {
	e.Language = language
	return e
}

// WithFile adds file information to the error
func (e *ExtractionError) WithFile(path string) *ExtractionError {
	e.FilePath = path
	return e
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.FilePath, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *ExtractionError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewFileNotFoundError creates a file error for a path that does not exist
func NewFileNotFoundError(path string) *FileError {
	return &FileError{
		Type:       ErrorTypeFileNotFound,
		Path:       path,
		Operation:  "stat",
		Underlying: fmt.Errorf("file not found: %s", path),
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error
func isPermissionError(err error) bool {
	errStr := err.Error()
	return errStr == "permission denied" || errStr == "access denied"
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// UnsupportedExtensionError reports a file extension with no registered
// extractor. The message always lists every supported extension.
type UnsupportedExtensionError struct {
	Type      ErrorType
	Extension string
	Supported []string
	Timestamp time.Time
}

// NewUnsupportedExtensionError creates a new unsupported extension error
func NewUnsupportedExtensionError(ext string, supported []string) *UnsupportedExtensionError {
	return &UnsupportedExtensionError{
		Type:      ErrorTypeUnsupportedExtension,
		Extension: ext,
		Supported: supported,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unsupported file extension %q: supported extensions are %s",
		e.Extension, strings.Join(e.Supported, ", "))
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
