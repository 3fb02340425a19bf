package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveHeaders lists, in lower case, the HTTP headers whose values never
// reach a log line. The request logging middleware reads it too.
var SensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"x-api-key":     true,
}

// Values redacted wherever they appear, whatever the attribute is called.
// Setup commands tend to echo registry credentials from an .npmrc.
var (
	bearerToken   = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)
	jwt           = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)
	inlineAPIKey  = regexp.MustCompile(`(?i)(api[_\-]?key|apikey)\s*[:=]\s*\S+`)
	registryToken = regexp.MustCompile(`(_authToken\s*=\s*\S+|npm_[A-Za-z0-9]{36})`)
)

// redactor builds the masq ReplaceAttr used by every handler New creates.
func redactor() func([]string, slog.Attr) slog.Attr {
	var opts []masq.Option
	for name := range SensitiveHeaders {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, name := range []string{"password", "secret", "token"} {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, prefix := range []string{"secret_", "api_key"} {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}
	for _, re := range []*regexp.Regexp{bearerToken, jwt, inlineAPIKey, registryToken} {
		opts = append(opts, masq.WithRegex(re))
	}
	return masq.New(opts...)
}
