package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ValidationResult contains the result of a configuration validation
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
}

// IsValid returns true if there are no errors
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ErrorMessages returns all error messages as a slice
func (r *ValidationResult) ErrorMessages() []string {
	messages := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		messages[i] = err.Error()
	}
	return messages
}

// CombinedError returns all errors as a single error
func (r *ValidationResult) CombinedError() error {
	if len(r.Errors) == 0 {
		return nil
	}

	messages := r.ErrorMessages()
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(messages, "\n"))
}

func (r *ValidationResult) add(field, message string) {
	r.Errors = append(r.Errors, *NewValidationError(field, message))
}

// ValidateAll checks the whole configuration and collects every problem
func (c *Config) ValidateAll() *ValidationResult {
	result := &ValidationResult{}

	if c.SourceDir == "" {
		result.add("java_dir", "is required")
	} else if info, err := os.Stat(c.SourceDir); err != nil {
		result.add("java_dir", err.Error())
	} else if !info.IsDir() {
		result.add("java_dir", "is not a directory")
	}

	if c.OutputDir == "" {
		result.add("output_dir", "is required")
	} else if c.SourceDir != "" && samePath(c.SourceDir, c.OutputDir) {
		result.add("output_dir", "must differ from java_dir")
	}

	switch c.OnError {
	case "abort-file", "skip-method":
	default:
		result.add("on_error", fmt.Sprintf("unknown policy %q", c.OnError))
	}

	if c.CacheSize < 0 {
		result.add("cache_size", "cannot be negative")
	}
	if c.CacheTTLSecs < 0 {
		result.add("cache_ttl_secs", "cannot be negative")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		result.add("temperature", "must be between 0 and 2")
	}

	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.add("extensions", fmt.Sprintf("%q must start with a dot", ext))
		}
	}

	if c.ResolveModel() == "" {
		result.add("model", "no model configured")
	}

	if !c.NoFormat && !strings.Contains(c.Formatter, "{file}") {
		result.Warnings = append(result.Warnings, "formatter command has no {file} placeholder; the file path will be appended")
	}

	if c.Temperature > 1.5 {
		result.Warnings = append(result.Warnings, "High temperature (>1.5) may lead to unpredictable outputs")
	}

	return result
}

// Validate returns the combined validation error, if any
func (c *Config) Validate() error {
	return c.ValidateAll().CombinedError()
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
