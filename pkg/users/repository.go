package users

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/saturnines/userfeed/pkg/errors"
	"github.com/saturnines/userfeed/pkg/transport/rest"
)

const (
	// DefaultEndpoint is the public random user generator.
	DefaultEndpoint = "https://randomuser.me/api/"
	// DefaultQuantityParam is the query parameter carrying the page size.
	DefaultQuantityParam = "results"
)

// Repository fetches pages of generated users from the upstream API.
type Repository struct {
	builder       *rest.Builder
	transport     rest.Transport
	quantityParam string
	logger        zerolog.Logger
}

// Option customizes a Repository.
type Option func(*Repository)

// WithTransport replaces the transport used to send requests.
func WithTransport(t rest.Transport) Option {
	return func(r *Repository) {
		if t != nil {
			r.transport = t
		}
	}
}

// WithEndpoint points the repository at another base URL.
func WithEndpoint(endpoint string) Option {
	return func(r *Repository) {
		if endpoint != "" {
			r.builder.URL = endpoint
		}
	}
}

// WithHeaders adds static headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(r *Repository) {
		r.builder.Headers = headers
	}
}

// WithQuantityParam renames the page size query parameter.
func WithQuantityParam(name string) Option {
	return func(r *Repository) {
		if name != "" {
			r.quantityParam = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// NewRepository builds a Repository. Without WithTransport it talks HTTP
// through rest.DefaultHTTPClient.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		builder:       rest.NewBuilder(DefaultEndpoint, "", nil, nil),
		transport:     rest.NewHTTPTransport(rest.DefaultHTTPClient()),
		quantityParam: DefaultQuantityParam,
		logger:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// FetchPage requests quantity users. Failures match errors.ErrTransport
// or errors.ErrDecode; nothing is retried.
func (r *Repository) FetchPage(ctx context.Context, quantity int) ([]UserProfile, error) {
	if quantity <= 0 {
		return nil, errors.WrapError(
			fmt.Errorf("quantity must be positive, got %d", quantity),
			errors.ErrValidation,
			"invalid page request",
		)
	}

	req, err := r.builder.Build(ctx, map[string]string{r.quantityParam: strconv.Itoa(quantity)})
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrTransport, "failed to create request")
	}

	start := time.Now()
	body, err := r.transport(ctx, req)
	if err != nil {
		r.logger.Error().Err(err).Str("url", req.URL.String()).Msg("user page request failed")
		return nil, errors.WrapError(err, errors.ErrTransport, "request failed")
	}

	profiles, err := decodeProfiles(body)
	if err != nil {
		r.logger.Error().Err(err).Int("bytes", len(body)).Msg("user page decode failed")
		return nil, errors.WrapError(err, errors.ErrDecode, "invalid response body")
	}

	r.logger.Debug().
		Int("quantity", quantity).
		Int("received", len(profiles)).
		Dur("took", time.Since(start)).
		Msg("fetched user page")

	return profiles, nil
}
