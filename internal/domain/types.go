package domain

import "time"

// ServiceName identifies this service in health responses.
const ServiceName = "markdown-preview-backend"

// DefaultTheme is the theme name reported when a request carries none.
const DefaultTheme = "default"

// ConversionRequest is a single Markdown conversion request.
type ConversionRequest struct {
	Content string  `json:"content"`
	Theme   *string `json:"theme,omitempty"`
}

// ThemeName returns the requested theme, or DefaultTheme when none was given.
func (r ConversionRequest) ThemeName() string {
	if r.Theme == nil {
		return DefaultTheme
	}
	return *r.Theme
}

// ConversionResponse is the envelope returned by the convert endpoint.
// Error is serialized as null unless a validation failure occurred.
type ConversionResponse struct {
	HTML  string  `json:"html"`
	Error *string `json:"error"`
}

// Level is the severity of a LogEvent.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// LogEvent is one append-only record of the request lifecycle.
type LogEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
}

// HealthStatus is the liveness payload.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Healthy returns the fixed liveness payload of this service.
func Healthy() HealthStatus {
	return HealthStatus{Status: "healthy", Service: ServiceName}
}
