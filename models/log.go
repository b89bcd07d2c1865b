package models

// RequestLog is one access log entry built by the logging middleware.
type RequestLog struct {
	Method       string  `json:"method"`
	Path         string  `json:"path"`
	StatusCode   int     `json:"status_code"`
	ResponseTime int64   `json:"response_time_ms"`
	IP           string  `json:"ip"`
	UserAgent    *string `json:"user_agent,omitempty"`
	Body         *string `json:"body,omitempty"`
	Params       *string `json:"params,omitempty"`
	Query        *string `json:"query,omitempty"`
	LogLevel     string  `json:"log_level"`
	Environment  string  `json:"environment"`
}

// Log levels derived from the response status
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
	LogLevelDebug   = "debug"
	LogLevelSuccess = "success"
)

// Environments
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
	EnvironmentTesting     = "testing"
)
