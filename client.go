// Package pmfscale provides the main entry point for scaling a fact table
// with per-geography, per-season multipliers while honoring skip rules.
//
// A run reads three files:
//   - the ADS fact table (.csv, or the first sheet of an .xlsx),
//   - the multiplier workbook with a PMF sheet,
//   - the granular spec workbook with a MAP sheet and one skip-rule sheet
//     per map code,
//
// and produces the scaled table plus an audit log of every cell that was
// multiplied or skipped.
//
// Example usage:
//
//	client, err := pmfscale.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client.OnProgress(func(s reconcile.Stage) {
//	    log.Printf("%d%% %s", s.Percent(), s)
//	})
//
//	result, err := client.Scale(ctx, pmfscale.Files{
//	    ADS:  "ads.csv",
//	    PMF:  "pmf.xlsx",
//	    Spec: "granular.xlsx",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	outputs, err := client.Save(result, "ads", save.WithDir("out"))
package pmfscale

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/pmfscale/pkg/constants"
	"github.com/agentstation/pmfscale/pkg/errors"
	"github.com/agentstation/pmfscale/pkg/logging"
	"github.com/agentstation/pmfscale/pkg/reconcile"
	"github.com/agentstation/pmfscale/pkg/sheets"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Files names the three input files of a run.
type Files struct {
	// ADS is the fact table to scale.
	ADS string
	// PMF is the multiplier workbook.
	PMF string
	// Spec is the granular spec workbook holding the MAP and skip-rule sheets.
	Spec string
}

// Validate checks that every file is named and has a supported extension.
func (f Files) Validate() error {
	for _, p := range []struct{ field, path string }{
		{"ads", f.ADS},
		{"pmf", f.PMF},
		{"spec", f.Spec},
	} {
		if p.path == "" {
			return errors.NewValidationError(p.field, p.path, "file path is required")
		}
		if _, err := sheets.DetectKind(p.path); err != nil {
			return err
		}
	}
	return nil
}

// Scaler runs the scaling engine.
type Scaler interface {
	// Scale reads the files and scales the fact table.
	Scale(ctx context.Context, files Files) (*reconcile.Result, error)

	// ScaleTables scales inputs that are already in memory.
	ScaleTables(ctx context.Context, in reconcile.Inputs) (*reconcile.Result, error)
}

// Client scales fact tables and persists the results.
type Client interface {

	// Scaler runs the engine
	Scaler

	// Persistence writes run outputs
	Persistence

	// Hooks provides access to event callback registration
	Hooks
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	hooks   *hooks
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &client{
		options: o,
		hooks:   newHooks(),
	}, nil
}

// Scale reads the three input files and runs the engine over them.
func (c *client) Scale(ctx context.Context, files Files) (*reconcile.Result, error) {
	if err := files.Validate(); err != nil {
		return nil, err
	}

	ctx = logging.WithLogger(ctx, c.logger(ctx))

	adsLog := logging.FromContext(logging.WithSource(ctx, constants.SourceADS))
	adsLog.Debug().Str("path", files.ADS).Msg("Loading fact table")
	fact, err := sheets.ReadFactTable(files.ADS)
	if err != nil {
		return nil, fmt.Errorf("reading ADS file: %w", err)
	}
	adsLog.Info().
		Int("rows", fact.Len()).
		Int("columns", len(fact.Columns)).
		Msg("Fact table loaded")

	logging.FromContext(logging.WithSource(ctx, constants.SourcePMF)).Debug().
		Str("path", files.PMF).
		Msg("Opening multiplier workbook")
	pmf, err := sheets.Open(files.PMF)
	if err != nil {
		return nil, fmt.Errorf("opening PMF file: %w", err)
	}
	defer pmf.Close()

	logging.FromContext(logging.WithSource(ctx, constants.SourceGranular)).Debug().
		Str("path", files.Spec).
		Msg("Opening granular spec workbook")
	spec, err := sheets.Open(files.Spec)
	if err != nil {
		return nil, fmt.Errorf("opening granular spec file: %w", err)
	}
	defer spec.Close()

	return c.ScaleTables(ctx, reconcile.Inputs{
		Fact:        fact,
		Multipliers: pmf,
		Granular:    spec,
	})
}

// ScaleTables runs the engine over in-memory inputs.
func (c *client) ScaleTables(ctx context.Context, in reconcile.Inputs) (*reconcile.Result, error) {
	log := c.logger(ctx)

	r, err := reconcile.New(
		reconcile.WithMarker(c.options.marker),
		reconcile.WithLogger(log),
		reconcile.WithClock(c.options.clock),
		reconcile.WithProgress(c.hooks.triggerProgress),
	)
	if err != nil {
		return nil, err
	}

	result, err := r.Reconcile(ctx, in)
	if err != nil {
		return nil, err
	}

	runLog := logging.FromContext(logging.WithRunID(logging.WithLogger(ctx, log), result.RunID))
	for _, w := range result.Warnings {
		runLog.Warn().Msg(w)
	}
	c.hooks.triggerComplete(result)
	return result, nil
}

func (c *client) logger(ctx context.Context) *zerolog.Logger {
	if c.options.logger != nil {
		return c.options.logger
	}
	return logging.FromContext(ctx)
}
