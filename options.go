package pmfscale

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/pmfscale/pkg/constants"
	"github.com/agentstation/pmfscale/pkg/errors"
)

// options holds the client configuration.
type options struct {
	logger *zerolog.Logger
	marker string
	clock  func() time.Time
}

// Option is a function that configures a Client instance
type Option func(*options) error

func defaults() *options {
	return &options{
		marker: constants.PMFMarker,
		clock:  time.Now,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithLogger configures the logger used for runs. By default the logger
// carried by the context, or the package default, is used.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithMarker configures the token that marks multiplier variables
func WithMarker(marker string) Option {
	return func(o *options) error {
		if strings.TrimSpace(marker) == "" {
			return errors.NewValidationError("marker", marker, "cannot be empty")
		}
		o.marker = marker
		return nil
	}
}

// WithClock configures the time source for run metadata and output file dates
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return errors.NewValidationError("clock", nil, "cannot be nil")
		}
		o.clock = now
		return nil
	}
}
