// Package errors provides centralized error handling with component and category metadata
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// ErrorCategory represents the type of error for better categorization
type ErrorCategory string

const (
	CategorySourceRead    ErrorCategory = "source-read"   // tabular source missing, unreadable or malformed
	CategoryParse         ErrorCategory = "json-parse"    // malformed JSON text
	CategorySchema        ErrorCategory = "schema"        // structurally or numerically invalid input
	CategoryNotFound      ErrorCategory = "not-found"     // input file does not exist
	CategoryFileIO        ErrorCategory = "file-io"       // read/write failures on local files
	CategoryConfiguration ErrorCategory = "configuration" // settings could not be loaded or are invalid
	CategoryGeneric       ErrorCategory = "generic"
)

// ComponentUnknown is used when the component cannot be determined.
const ComponentUnknown = "unknown"

// modulePath prefixes every function name of this module in stack traces.
const modulePath = "github.com/albatross-proto/albatross-data/"

// componentAliases renames packages whose directory name is not the
// component name used in logs.
var componentAliases = map[string]string{
	"conf": "configuration",
}

// EnhancedError wraps an error with the component that raised it, a category
// that drives the process exit code, and free-form context for logging.
type EnhancedError struct {
	Err       error
	component string
	Category  ErrorCategory
	Context   map[string]any
	Timestamp time.Time
}

// Error implements the error interface
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is matches another EnhancedError by category, anything else through the
// wrapped chain.
func (ee *EnhancedError) Is(target error) bool {
	if ee2, ok := target.(*EnhancedError); ok {
		return ee.Category == ee2.Category
	}
	return Is(ee.Err, target)
}

// GetComponent returns the component name
func (ee *EnhancedError) GetComponent() string {
	return ee.component
}

// GetCategory returns the error category
func (ee *EnhancedError) GetCategory() string {
	return string(ee.Category)
}

// GetContext returns a copy of the error context
func (ee *EnhancedError) GetContext() map[string]any {
	if ee.Context == nil {
		return nil
	}
	return maps.Clone(ee.Context)
}

// GetTimestamp returns when the error occurred
func (ee *EnhancedError) GetTimestamp() time.Time {
	return ee.Timestamp
}

// ErrorBuilder provides a fluent interface for creating enhanced errors
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New creates a new error with enhanced context
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// Newf creates a new formatted error with enhanced context
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component name. When unset, Build derives it from the
// calling package.
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category sets the error category. When unset, Build inherits the category
// of the first EnhancedError in the wrapped chain.
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// Context adds context data to the error
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// FileContext records the file an error relates to. A zero size is omitted.
func (eb *ErrorBuilder) FileContext(filePath string, fileSize int64) *ErrorBuilder {
	if filePath != "" {
		eb.Context("file_path", filePath)
		eb.Context("file_extension", fileExtension(filePath))
	}
	if fileSize > 0 {
		eb.Context("file_size", fileSize)
	}
	return eb
}

// Build creates the EnhancedError
func (eb *ErrorBuilder) Build() *EnhancedError {
	if eb.component == "" {
		eb.component = detectComponent()
	}
	if eb.category == "" {
		eb.category = inheritCategory(eb.err)
	}

	return &EnhancedError{
		Err:       eb.err,
		component: eb.component,
		Category:  eb.category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}
}

// detectComponent returns the component of the first caller outside this
// package.
func detectComponent() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if component := componentOf(frame.Function); component != "" {
			return component
		}
		if !more {
			return ComponentUnknown
		}
	}
}

// componentOf maps a fully qualified function name to the package directory
// below internal/ or cmd/. It returns "" for this package and for functions
// outside the module.
func componentOf(funcName string) string {
	rest, ok := strings.CutPrefix(funcName, modulePath)
	if !ok {
		return ""
	}
	for _, root := range []string{"internal/", "cmd/"} {
		pkg, ok := strings.CutPrefix(rest, root)
		if !ok {
			continue
		}
		if i := strings.IndexAny(pkg, "./"); i >= 0 {
			pkg = pkg[:i]
		}
		if pkg == "errors" {
			return ""
		}
		if alias, ok := componentAliases[pkg]; ok {
			return alias
		}
		return pkg
	}
	return ""
}

func inheritCategory(err error) ErrorCategory {
	var enhErr *EnhancedError
	if stderrors.As(err, &enhErr) && enhErr.Category != "" {
		return enhErr.Category
	}
	return CategoryGeneric
}

func fileExtension(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "none"
	}
	return strings.ToLower(ext)
}

// FileError creates a file I/O error with appropriate context
func FileError(err error, filePath string, fileSize int64) *EnhancedError {
	return New(err).
		Category(CategoryFileIO).
		FileContext(filePath, fileSize).
		Build()
}

// Standard library passthrough functions

// NewStd creates a new standard error (passthrough to standard library)
func NewStd(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's tree matches target (passthrough to standard library)
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target (passthrough to standard library)
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join returns an error that wraps the given errors (passthrough to standard library)
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// IsCategory checks if an error is an EnhancedError with the specified category.
func IsCategory(err error, category ErrorCategory) bool {
	var enhancedErr *EnhancedError
	return As(err, &enhancedErr) && enhancedErr.Category == category
}

// IsNotFound checks if an error is an EnhancedError with CategoryNotFound.
func IsNotFound(err error) bool {
	return IsCategory(err, CategoryNotFound)
}
