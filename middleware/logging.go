package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lizet96/clinic-registry/models"
)

const maxLoggedBody = 1000

// sensitiveFields are masked in logged request bodies at any depth.
var sensitiveFields = []string{"diagnosis", "password", "token", "secret"}

// LoggingMiddleware writes one structured log line per request.
func LoggingMiddleware(logger zerolog.Logger, environment string) fiber.Handler {
	if environment == "" {
		environment = models.EnvironmentDevelopment
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// the error handler has not run yet, so take the status from the error
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}

		entry := createLogEntry(c, status, time.Since(start), environment)
		writeLogEntry(logger, entry, err)
		return err
	}
}

func createLogEntry(c *fiber.Ctx, status int, elapsed time.Duration, environment string) models.RequestLog {
	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		ip = realIP
	}

	entry := models.RequestLog{
		Method:       c.Method(),
		Path:         c.Path(),
		StatusCode:   status,
		ResponseTime: elapsed.Milliseconds(),
		IP:           ip,
		LogLevel:     determineLogLevel(status),
		Environment:  environment,
	}

	if ua := c.Get(fiber.HeaderUserAgent); ua != "" {
		entry.UserAgent = &ua
	}

	switch c.Method() {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		if body := string(c.Body()); body != "" {
			body = filterSensitiveData(body)
			entry.Body = &body
		}
	}

	if params := c.AllParams(); len(params) > 0 {
		if encoded, err := json.Marshal(params); err == nil {
			s := string(encoded)
			entry.Params = &s
		}
	}

	if query := string(c.Request().URI().QueryString()); query != "" {
		entry.Query = &query
	}

	return entry
}

func writeLogEntry(logger zerolog.Logger, entry models.RequestLog, err error) {
	var evt *zerolog.Event
	switch entry.LogLevel {
	case models.LogLevelError:
		evt = logger.Error()
	case models.LogLevelWarning:
		evt = logger.Warn()
	default:
		evt = logger.Info()
	}
	if err != nil {
		evt = evt.Err(err)
	}

	evt = evt.
		Str("method", entry.Method).
		Str("path", entry.Path).
		Int("status", entry.StatusCode).
		Int64("response_time_ms", entry.ResponseTime).
		Str("ip", entry.IP).
		Str("log_level", entry.LogLevel).
		Str("environment", entry.Environment)

	if entry.UserAgent != nil {
		evt = evt.Str("user_agent", *entry.UserAgent)
	}
	if entry.Body != nil {
		evt = evt.Str("body", *entry.Body)
	}
	if entry.Params != nil {
		evt = evt.Str("params", *entry.Params)
	}
	if entry.Query != nil {
		evt = evt.Str("query", *entry.Query)
	}
	evt.Msg("request")
}

// filterSensitiveData masks sensitive fields of a JSON body and truncates it.
func filterSensitiveData(body string) string {
	var data interface{}
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return truncate(body)
	}

	filtered, err := json.Marshal(maskFields(data))
	if err != nil {
		return truncate(body)
	}
	return truncate(string(filtered))
}

func maskFields(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for key, inner := range val {
			if isSensitive(key) {
				val[key] = "[FILTERED]"
				continue
			}
			val[key] = maskFields(inner)
		}
		return val
	case []interface{}:
		for i, inner := range val {
			val[i] = maskFields(inner)
		}
		return val
	default:
		return v
	}
}

func isSensitive(key string) bool {
	for _, field := range sensitiveFields {
		if strings.EqualFold(key, field) {
			return true
		}
	}
	return false
}

func truncate(s string) string {
	if len(s) > maxLoggedBody {
		return s[:maxLoggedBody] + "...[truncated]"
	}
	return s
}

// determineLogLevel maps a status code to a log level.
func determineLogLevel(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return models.LogLevelSuccess
	case statusCode >= 300 && statusCode < 400:
		return models.LogLevelInfo
	case statusCode >= 400 && statusCode < 500:
		return models.LogLevelWarning
	case statusCode >= 500:
		return models.LogLevelError
	default:
		return models.LogLevelInfo
	}
}
