package middleware

import (
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/sitesmith/internal/platform/logging"
)

const redacted = "[REDACTED]"

// RedactHeaders returns the headers as a "headers" group, sorted by name.
// Values of headers listed in logging.SensitiveHeaders are replaced and
// multi-value headers are joined with a comma.
func RedactHeaders(headers http.Header) slog.Attr {
	names := slices.Sorted(maps.Keys(headers))
	attrs := make([]any, 0, len(names))
	for _, name := range names {
		value := strings.Join(headers[name], ",")
		if logging.SensitiveHeaders[strings.ToLower(name)] {
			value = redacted
		}
		attrs = append(attrs, slog.String(name, value))
	}
	return slog.Group("headers", attrs...)
}
