package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
)

type ErrorLevel int

const (
	LevelFatal ErrorLevel = iota + 1
	LevelError
	LevelWarning
	LevelInfo
)

func (l ErrorLevel) String() string {
	return [...]string{"", "Fatal", "Error", "Warning", "Info"}[l]
}

// * Error references shared across packages
const (
	RefInvalidURL       = "INVALID_URL"
	RefUpstream         = "UPSTREAM_ERROR"
	RefNetwork          = "NETWORK_ERROR"
	RefDecode           = "DECODE_ERROR"
	RefRepoNotFound     = "DB_REPOSITORY_NOT_FOUND"
	RefInvalidRequest   = "INVALID_REQUEST"
	RefQueueUnavailable = "QUEUE_UNAVAILABLE"
)

// * Sentinels usable with errors.Is; matching is by Reference
var (
	ErrInvalidURL   = &ApplicationError{Reference: RefInvalidURL}
	ErrUpstream     = &ApplicationError{Reference: RefUpstream}
	ErrNetwork      = &ApplicationError{Reference: RefNetwork}
	ErrRepoNotFound = &ApplicationError{Reference: RefRepoNotFound}
)

type ApplicationError struct {
	Reference   string
	Title       string
	Detail      string
	RootCause   error
	Level       ErrorLevel
	StatusCode  int
	OccurredAt  time.Time
	CallerTrace []string
}

func (e *ApplicationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s][%s] %s", e.OccurredAt.Format(time.RFC3339), e.Reference, e.Title)

	if e.Detail != "" {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}

	if e.RootCause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.RootCause)
	}

	return b.String()
}

func (e *ApplicationError) Unwrap() error {
	return e.RootCause
}

func (e *ApplicationError) Is(target error) bool {
	t, ok := target.(*ApplicationError)
	if !ok {
		return false
	}
	return t.Reference != "" && t.Reference == e.Reference
}

func New(ref, title, detail string, cause error, level ErrorLevel) *ApplicationError {
	return &ApplicationError{
		Reference:   ref,
		Title:       title,
		Detail:      detail,
		RootCause:   cause,
		Level:       level,
		OccurredAt:  time.Now().UTC(),
		CallerTrace: captureCallerInfo(3),
	}
}

// * Upstream builds an UPSTREAM_ERROR that remembers the HTTP status GitHub returned
func Upstream(status int, detail string) *ApplicationError {
	e := New(RefUpstream, "Unexpected response from GitHub API", detail, nil, LevelError)
	e.StatusCode = status
	return e
}

// * StatusCode returns the upstream HTTP status carried by err, or 0
func StatusCode(err error) int {
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 0
}

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func captureCallerInfo(skip int) []string {
	pc := make([]uintptr, 10)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return nil
	}

	pc = pc[:n]
	frames := runtime.CallersFrames(pc)

	var trace []string
	for {
		frame, more := frames.Next()
		trace = append(trace, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		if !more {
			break
		}
	}

	return trace
}

type HTTPErrorResponse struct {
	Status     int       `json:"status"`
	ErrorRef   string    `json:"error_reference,omitempty"`
	Title      string    `json:"title"`
	Detail     string    `json:"detail,omitempty"`
	Resolution string    `json:"resolution,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func WriteHTTPError(w http.ResponseWriter, err error) {
	var appErr *ApplicationError

	resp := HTTPErrorResponse{
		Status:    http.StatusInternalServerError,
		Title:     "An unexpected error occurred",
		Timestamp: time.Now().UTC(),
	}

	if errors.As(err, &appErr) {
		resp.ErrorRef = appErr.Reference
		resp.Title = appErr.Title
		resp.Detail = appErr.Detail

		switch appErr.Reference {
		case RefInvalidURL, RefInvalidRequest:
			resp.Status = http.StatusBadRequest
		case RefUpstream:
			resp.Status = http.StatusBadGateway
		case RefNetwork:
			resp.Status = http.StatusGatewayTimeout
		case RefRepoNotFound:
			resp.Status = http.StatusNotFound
		case RefQueueUnavailable:
			resp.Status = http.StatusServiceUnavailable
		default:
			switch appErr.Level {
			case LevelFatal:
				resp.Status = http.StatusInternalServerError
				resp.Resolution = "Please contact support with the error reference"
			case LevelError:
				resp.Status = http.StatusInternalServerError
			case LevelWarning:
				resp.Status = http.StatusConflict
				resp.Resolution = "Please review your request and try again"
			case LevelInfo:
				resp.Status = http.StatusOK
			}
		}
	} else {
		resp.Detail = err.Error()
	}

	logger.Error("%v", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	json.NewEncoder(w).Encode(resp)
}
