package errors

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrorType classifies a HubError
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeNetwork
	ErrorTypeFileSystem
	ErrorTypeParsing
	ErrorTypeConfiguration
	ErrorTypeTimeout
	ErrorTypeNotFound
)

var typeNames = [...]string{
	ErrorTypeUnknown:       "UNKNOWN",
	ErrorTypeValidation:    "VALIDATION",
	ErrorTypeNetwork:       "NETWORK",
	ErrorTypeFileSystem:    "FILESYSTEM",
	ErrorTypeParsing:       "PARSING",
	ErrorTypeConfiguration: "CONFIGURATION",
	ErrorTypeTimeout:       "TIMEOUT",
	ErrorTypeNotFound:      "NOT_FOUND",
}

func (et ErrorType) String() string {
	if et < 0 || int(et) >= len(typeNames) {
		return typeNames[ErrorTypeUnknown]
	}
	return typeNames[et]
}

// Error codes used across the client
const (
	CodeItemNotFound      = "ITEM_NOT_FOUND"
	CodeNoDownloadEntry   = "NO_DOWNLOAD_ENTRY"
	CodeNoFileName        = "NO_FILE_NAME"
	CodeHTTPStatus        = "HTTP_STATUS"
	CodeNetwork           = "NETWORK"
	CodeParse             = "PARSE"
	CodeFileSystem        = "FILESYSTEM"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeInvalidConfig     = "INVALID_CONFIG"
	CodeProviderNotFound  = "PROVIDER_NOT_FOUND"
	CodeProviderNotReady  = "PROVIDER_NOT_READY"
	CodeDownloadCancelled = "DOWNLOAD_CANCELLED"
	CodeChecksumMismatch  = "CHECKSUM_MISMATCH"
	codeUnknown           = "UNKNOWN"
)

// HubError is the error type returned by the client packages. Context holds
// the url, item and stage a failure relates to.
type HubError struct {
	Type        ErrorType         `json:"type"`
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Cause       error             `json:"cause,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Stack       []string          `json:"stack,omitempty"`
	Retryable   bool              `json:"retryable"`
}

func (e *HubError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *HubError) Unwrap() error {
	return e.Cause
}

// Is matches another HubError with the same type and code
func (e *HubError) Is(target error) bool {
	t, ok := target.(*HubError)
	return ok && e.Type == t.Type && e.Code == t.Code
}

// WithContext records a key/value pair, replacing an earlier value
func (e *HubError) WithContext(key, value string) *HubError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

func (e *HubError) WithSuggestion(suggestion string) *HubError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

func (e *HubError) WithSuggestions(suggestions []string) *HubError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

func (e *HubError) SetRetryable(retryable bool) *HubError {
	e.Retryable = retryable
	return e
}

// FormatDetailed renders the error for a terminal, context keys sorted
func (e *HubError) FormatDetailed() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s error [%s]: %s\n", e.Type, e.Code, e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\nContext:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "   %s: %s\n", k, e.Context[k])
		}
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying cause: %v\n", e.Cause)
	}
	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, s := range e.Suggestions {
			fmt.Fprintf(&b, "   - %s\n", s)
		}
	}
	if e.Retryable {
		b.WriteString("\nThis operation can be retried\n")
	}
	return b.String()
}

func newHubError(cause error, errorType ErrorType, code, message string) *HubError {
	return &HubError{
		Type:      errorType,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
		Context:   make(map[string]string),
		Stack:     callers(3),
	}
}

func NewError(errorType ErrorType, code, message string) *HubError {
	return newHubError(nil, errorType, code, message)
}

// WrapError attaches a type, code and message to err
func WrapError(err error, errorType ErrorType, code, message string) *HubError {
	return newHubError(err, errorType, code, message)
}

// As finds the first HubError in err's chain
func As(err error) (*HubError, bool) {
	var hubErr *HubError
	if errors.As(err, &hubErr) {
		return hubErr, true
	}
	return nil, false
}

// HasCode reports whether any HubError in err's chain carries code
func HasCode(err error, code string) bool {
	for err != nil {
		hubErr, ok := As(err)
		if !ok {
			return false
		}
		if hubErr.Code == code {
			return true
		}
		err = hubErr.Cause
	}
	return false
}

// callers lists up to eight frames inside this module, skipping skip frames
func callers(skip int) []string {
	pcs := make([]uintptr, 8)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var stack []string
	for {
		f, more := frames.Next()
		if strings.Contains(f.Function, "wearhub-cli") {
			stack = append(stack, fmt.Sprintf("%s:%d %s", f.File, f.Line, f.Function))
		}
		if !more {
			break
		}
	}
	return stack
}

func NewValidationError(code, message string) *HubError {
	return NewError(ErrorTypeValidation, code, message).
		WithSuggestion("Check the arguments and try again")
}

// NewNetworkError wraps a transport failure; these are always retryable
func NewNetworkError(err error, message string) *HubError {
	return WrapError(err, ErrorTypeNetwork, CodeNetwork, message).
		SetRetryable(true).
		WithSuggestions([]string{
			"Check your internet connection",
			"Try another CDN mirror with --cdn, or run 'wearhub doctor'",
		})
}

func NewFileSystemError(err error, message string) *HubError {
	return WrapError(err, ErrorTypeFileSystem, CodeFileSystem, message).
		WithSuggestion("Check permissions and free space of the cache directory")
}

func NewParsingError(err error, message string) *HubError {
	return WrapError(err, ErrorTypeParsing, CodeParse, message).
		WithSuggestion("The remote document may be malformed; retry after the repository is fixed")
}

func NewConfigurationError(code, message string) *HubError {
	return NewError(ErrorTypeConfiguration, code, message).
		WithSuggestions([]string{
			"Check the configuration file syntax",
			"Run 'wearhub config init' to write a fresh template",
		})
}

func NewNotFoundError(code, message string) *HubError {
	return NewError(ErrorTypeNotFound, code, message).
		WithSuggestions([]string{
			"Run 'wearhub update' to refresh the index",
			"Check the item id or name with 'wearhub search'",
		})
}

// ErrorHandler logs errors at debug level and keeps counters. It is safe
// for concurrent use.
type ErrorHandler struct {
	logger *zap.Logger

	mu    sync.Mutex
	stats ErrorStats
}

// ErrorStats counts handled errors
type ErrorStats struct {
	TotalErrors   int               `json:"total_errors"`
	ErrorsByType  map[ErrorType]int `json:"errors_by_type"`
	ErrorsByCode  map[string]int    `json:"errors_by_code"`
	LastError     *HubError         `json:"last_error,omitempty"`
	LastErrorTime time.Time         `json:"last_error_time"`
}

func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorHandler{
		logger: logger,
		stats: ErrorStats{
			ErrorsByType: make(map[ErrorType]int),
			ErrorsByCode: make(map[string]int),
		},
	}
}

// Handle records err and returns it as a HubError. Plain errors are wrapped
// with ErrorTypeUnknown.
func (eh *ErrorHandler) Handle(err error) *HubError {
	if err == nil {
		return nil
	}
	hubErr, ok := As(err)
	if !ok {
		hubErr = WrapError(err, ErrorTypeUnknown, codeUnknown, "operation failed")
	}

	eh.mu.Lock()
	eh.stats.TotalErrors++
	eh.stats.ErrorsByType[hubErr.Type]++
	eh.stats.ErrorsByCode[hubErr.Code]++
	eh.stats.LastError = hubErr
	eh.stats.LastErrorTime = time.Now()
	eh.mu.Unlock()

	fields := make([]zap.Field, 0, len(hubErr.Context)+3)
	fields = append(fields,
		zap.Stringer("type", hubErr.Type),
		zap.String("code", hubErr.Code),
		zap.Error(err),
	)
	for key, value := range hubErr.Context {
		fields = append(fields, zap.String(key, value))
	}
	eh.logger.Debug("command failed", fields...)
	return hubErr
}

// GetStats returns a snapshot of the counters
func (eh *ErrorHandler) GetStats() *ErrorStats {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	out := eh.stats
	out.ErrorsByType = make(map[ErrorType]int, len(eh.stats.ErrorsByType))
	for k, v := range eh.stats.ErrorsByType {
		out.ErrorsByType[k] = v
	}
	out.ErrorsByCode = make(map[string]int, len(eh.stats.ErrorsByCode))
	for k, v := range eh.stats.ErrorsByCode {
		out.ErrorsByCode[k] = v
	}
	return &out
}
