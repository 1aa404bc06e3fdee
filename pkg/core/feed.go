package core

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/saturnines/userfeed/pkg/config"
	"github.com/saturnines/userfeed/pkg/pagination"
	"github.com/saturnines/userfeed/pkg/transport/rest"
	"github.com/saturnines/userfeed/pkg/users"
)

// FeedOption customizes how NewFeed wires the pieces together.
type FeedOption func(*feedOptions)

type feedOptions struct {
	doer      rest.HTTPDoer
	transport rest.Transport
}

// WithHTTPDoer sends requests through doer instead of a new http.Client.
func WithHTTPDoer(doer rest.HTTPDoer) FeedOption {
	return func(o *feedOptions) {
		o.doer = doer
	}
}

// WithTransport bypasses HTTP entirely.
func WithTransport(t rest.Transport) FeedOption {
	return func(o *feedOptions) {
		o.transport = t
	}
}

// NewFeed builds the repository and pagination controller described by cfg.
func NewFeed(cfg *config.Feed, logger zerolog.Logger, opts ...FeedOption) *pagination.Controller {
	o := &feedOptions{}
	for _, opt := range opts {
		opt(o)
	}

	transport := o.transport
	if transport == nil {
		var doer rest.HTTPDoer = &http.Client{}
		if o.doer != nil {
			doer = o.doer
		}
		doer = rest.ApplyHTTPClientOptions(doer, rest.WithTimeout(cfg.Source.Timeout))
		transport = rest.NewHTTPTransport(doer)
	}

	repo := users.NewRepository(
		users.WithEndpoint(cfg.Source.Endpoint),
		users.WithQuantityParam(cfg.Source.QuantityParam),
		users.WithHeaders(cfg.Source.Headers),
		users.WithTransport(transport),
		users.WithLogger(logger.With().Str("component", "repository").Logger()),
	)

	return pagination.NewController(
		repo,
		pagination.WithPageSize(cfg.Paging.PageSize),
		pagination.WithLogger(logger.With().Str("component", "pagination").Logger()),
	)
}

// Collect fetches up to pages pages in sequence and returns what was
// accumulated. It stops at the first failure and returns that error
// together with the profiles gathered so far.
func Collect(ctx context.Context, ctrl *pagination.Controller, pages int) ([]users.UserProfile, error) {
	for i := 0; i < pages; i++ {
		if err := ctrl.FetchNextPage(ctx); err != nil {
			return ctrl.Snapshot().Users, err
		}
	}
	return ctrl.Snapshot().Users, nil
}
