package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/saturnines/userfeed/pkg/errors"
)

// Defaults used when the config leaves a field empty.
const (
	DefaultEndpoint      = "https://randomuser.me/api/"
	DefaultQuantityParam = "results"
	DefaultPageSize      = 20
	DefaultTimeout       = 30 * time.Second
	DefaultLayout        = "list"
	DefaultGridColumns   = 3
)

// ConfigLoader defines the interface for loading configs
type ConfigLoader interface {
	Load(path string) (*Feed, error)
	Parse(data []byte) (*Feed, error)
}

type ValidationError struct {
	Field   string
	Message string
}

// Returns the string representation of validation error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Validator interface {
	Validate(feed *Feed) []ValidationError
}

// DefaultValueSetter Handles the interface for setting default values
type DefaultValueSetter interface {
	SetDefaults(feed *Feed)
}

// VariableExpander defines the interface for expanding variables
type VariableExpander interface {
	Expand(data []byte) []byte
}

// EnvExpander implements VariableExpander using environment variables
type EnvExpander struct{}

// Expand expands environment variables with the given data
func (e *EnvExpander) Expand(data []byte) []byte {
	return []byte(os.Expand(string(data), os.Getenv))
}

// FeedLoader loads Feed configurations
type FeedLoader struct {
	expander      VariableExpander
	validators    []Validator
	defaultSetter DefaultValueSetter
}

// NewFeedLoader creates a new FeedLoader with the given components
func NewFeedLoader(
	expander VariableExpander,
	defaultSetter DefaultValueSetter,
	validators ...Validator,
) *FeedLoader {
	return &FeedLoader{
		expander:      expander,
		validators:    validators,
		defaultSetter: defaultSetter,
	}
}

// NewDefaultLoader wires env expansion, defaults and every validator.
func NewDefaultLoader() *FeedLoader {
	return NewFeedLoader(
		&EnvExpander{},
		&FeedDefaults{},
		&StructValidator{},
		&SourceValidator{},
	)
}

// Load a new feed config from YAML file
func (l *FeedLoader) Load(path string) (*Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "failed to read file")
	}

	return l.Parse(data)
}

// Parse parses a yaml config
func (l *FeedLoader) Parse(data []byte) (*Feed, error) {
	if l.expander != nil {
		data = l.expander.Expand(data)
	}

	var feed Feed
	if err := yaml.Unmarshal(data, &feed); err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "failed to parse YAML")
	}

	return l.finish(&feed)
}

// Default returns a config built only from defaults.
func (l *FeedLoader) Default() (*Feed, error) {
	return l.finish(&Feed{Name: "randomuser"})
}

func (l *FeedLoader) finish(feed *Feed) (*Feed, error) {
	if l.defaultSetter != nil {
		l.defaultSetter.SetDefaults(feed)
	}

	var allErrors []ValidationError
	for _, validator := range l.validators {
		allErrors = append(allErrors, validator.Validate(feed)...)
	}

	if len(allErrors) > 0 {
		return nil, errors.WrapError(
			fmt.Errorf("%v", allErrors),
			errors.ErrValidation,
			"invalid feed config",
		)
	}

	return feed, nil
}

// FeedDefaults implements DefaultValueSetter for Feed
type FeedDefaults struct{}

// SetDefaults sets default values for Feed
func (d *FeedDefaults) SetDefaults(feed *Feed) {
	if feed.Source.Endpoint == "" {
		feed.Source.Endpoint = DefaultEndpoint
	}
	if feed.Source.QuantityParam == "" {
		feed.Source.QuantityParam = DefaultQuantityParam
	}
	if feed.Source.Timeout == 0 {
		feed.Source.Timeout = DefaultTimeout
	}
	if feed.Paging.PageSize == 0 {
		feed.Paging.PageSize = DefaultPageSize
	}
	if feed.Display.Layout == "" {
		feed.Display.Layout = DefaultLayout
	}
	if feed.Display.GridColumns == 0 {
		feed.Display.GridColumns = DefaultGridColumns
	}
	feed.Logger.SetDefaults()
}

// StructValidator checks the `validate` struct tags
type StructValidator struct{}

var structValidate = validator.New()

// Validate turns tag failures into ValidationErrors keyed by yaml path
func (v *StructValidator) Validate(feed *Feed) []ValidationError {
	err := structValidate.Struct(feed)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: "config", Message: err.Error()}}
	}

	var out []ValidationError
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   yamlPath(fe.StructNamespace()),
			Message: fmt.Sprintf("failed %q check (value %v)", fe.Tag(), fe.Value()),
		})
	}
	return out
}

// yamlPath turns "Feed.Source.Endpoint" into "source.endpoint"
func yamlPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SourceValidator rejects sources the HTTP client cannot use
type SourceValidator struct{}

// Validate checks the endpoint scheme and timeout
func (v *SourceValidator) Validate(feed *Feed) []ValidationError {
	var errs []ValidationError

	ep := feed.Source.Endpoint
	if ep != "" && !strings.HasPrefix(ep, "{{") &&
		!strings.HasPrefix(ep, "http://") && !strings.HasPrefix(ep, "https://") {
		errs = append(errs, ValidationError{Field: "source.endpoint", Message: "must use http or https"})
	}

	if feed.Source.Timeout < 0 {
		errs = append(errs, ValidationError{Field: "source.timeout", Message: "must not be negative"})
	}

	return errs
}
