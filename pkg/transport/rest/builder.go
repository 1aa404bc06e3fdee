package rest

import (
	"context"
	"net/http"
	"os"
	"regexp"
	"strings"
)

// templatePattern matches {{VARIABLE_NAME}}
var templatePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Builder builds REST HTTP requests.
type Builder struct {
	URL         string
	Method      string
	Headers     map[string]string
	QueryParams map[string]string
}

// NewBuilder constructs a Builder.
// Method defaults to GET if empty.
func NewBuilder(url, method string, headers, params map[string]string) *Builder {
	if method == "" {
		method = http.MethodGet
	}
	return &Builder{
		URL:         url,
		Method:      method,
		Headers:     headers,
		QueryParams: params,
	}
}

// Build creates an HTTP request. extra query params override the
// builder's own for this request only.
func (b *Builder) Build(ctx context.Context, extra map[string]string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, b.Method, substituteTemplateVariables(b.URL), nil)
	if err != nil {
		return nil, err
	}

	for k, v := range b.Headers {
		req.Header.Set(k, substituteTemplateVariables(v))
	}

	if len(b.QueryParams) > 0 || len(extra) > 0 {
		q := req.URL.Query()
		for k, v := range b.QueryParams {
			q.Set(k, substituteTemplateVariables(v))
		}
		for k, v := range extra {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req, nil
}

// substituteTemplateVariables replaces {{VAR_NAME}} with environment variable values.
// Unknown variables are left as-is.
func substituteTemplateVariables(text string) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return templatePattern.ReplaceAllStringFunc(text, func(match string) string {
		varName := strings.TrimSpace(match[2 : len(match)-2])
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match
	})
}
