// Package reconcile runs the whole scaling pipeline over three in-memory
// inputs: the fact table, the multiplier workbook and the granular spec
// workbook.
package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/pmfscale/pkg/columns"
	"github.com/agentstation/pmfscale/pkg/constants"
	"github.com/agentstation/pmfscale/pkg/errors"
	"github.com/agentstation/pmfscale/pkg/geomap"
	"github.com/agentstation/pmfscale/pkg/logging"
	"github.com/agentstation/pmfscale/pkg/multiplier"
	"github.com/agentstation/pmfscale/pkg/normalize"
	"github.com/agentstation/pmfscale/pkg/scaling"
	"github.com/agentstation/pmfscale/pkg/sheets"
	"github.com/agentstation/pmfscale/pkg/skiprules"
	"github.com/agentstation/pmfscale/pkg/table"
)

// Inputs are the three tables of a run.
type Inputs struct {
	// Fact is the table to scale. It is never modified.
	Fact *table.Table

	// Multipliers must contain a PMF sheet.
	Multipliers sheets.Workbook

	// Granular must contain a MAP sheet plus one skip-rule sheet per map code.
	Granular sheets.Workbook
}

// Reconciler is the main interface for scaling a fact table
type Reconciler interface {
	// Reconcile runs one scaling pass. Missing sheets and required columns
	// are fatal; everything else is reported through the Result.
	Reconcile(ctx context.Context, in Inputs) (*Result, error)
}

// reconciler is the default implementation of Reconciler
type reconciler struct {
	marker   string
	logger   *zerolog.Logger
	progress []func(Stage)
	now      func() time.Time
}

// Option configures a Reconciler
type Option func(*reconciler) error

// New creates a new Reconciler with options
func New(opts ...Option) (Reconciler, error) {
	r := &reconciler{
		marker: constants.PMFMarker,
		now:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Reconcile runs the pipeline.
func (r *reconciler) Reconcile(ctx context.Context, in Inputs) (*Result, error) {
	if in.Fact == nil || in.Multipliers == nil || in.Granular == nil {
		return nil, errors.NewValidationError("inputs", nil, "fact table, multiplier and granular workbooks are all required")
	}

	result := &Result{
		RunID: uuid.NewString(),
		Metadata: ResultMetadata{
			StartTime: r.now(),
		},
	}

	if r.logger != nil {
		ctx = logging.WithLogger(ctx, r.logger)
	}
	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.FromContext(ctx)

	// Stage 1: fact table
	fact := in.Fact.Clone()
	fact.MapColumns(strings.TrimSpace)
	stats := &result.Metadata.Stats
	stats.FactRows = fact.Len()
	stats.FactColumns = len(fact.Columns)
	r.report(logger, StageFactLoaded)

	// Stage 2: required columns, validated before anything is scaled
	geoCol, err := columns.Require(constants.SourceADS, "Geography", fact.Columns, constants.ColumnGeography)
	if err != nil {
		return nil, err
	}
	seasonCol, err := columns.Require(constants.SourceADS, "Season", fact.Columns, constants.FactSeasonColumns()...)
	if err != nil {
		return nil, err
	}
	result.Metadata.GeographyColumn = geoCol
	result.Metadata.SeasonColumn = seasonCol

	pmf, err := in.Multipliers.ReadSheet(constants.PMFSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s sheet of %s: %w", constants.PMFSheet, in.Multipliers.Name(), err)
	}
	pmfGeo, pmfSeason, err := preparePMF(pmf)
	if err != nil {
		return nil, err
	}
	stats.PMFRows = pmf.Len()

	result.Variables = columns.SharedVariables(fact.Columns, pmf.Columns, r.marker)
	stats.Variables = len(result.Variables)
	r.report(logger, StageColumnsResolved)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: multiplier index
	index := multiplier.Build(multiplier.Melt(pmf, pmfGeo, pmfSeason, result.Variables))
	stats.MultipliersIndexed = index.Len()
	stats.MultipliersDropped = index.Dropped()
	stats.MultiplierOverwrites = index.Overwrites()
	r.report(logger, StageMultipliersBuilt)

	// Stage 4: geography map and skip rules
	mapSheet, err := in.Granular.ReadSheet(constants.MapSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s sheet of %s: %w", constants.MapSheet, in.Granular.Name(), err)
	}
	resolver, err := geomap.Build(mapSheet)
	if err != nil {
		return nil, err
	}
	codes := resolver.Codes()
	stats.MapCodes = len(codes)

	rules, ruleStats, err := skiprules.Build(ctx, in.Granular, codes, r.marker)
	if err != nil {
		return nil, err
	}
	result.SkipRules = rules
	stats.SkipRules = rules.Len()
	stats.SkipRuleSheets = ruleStats
	for _, code := range ruleStats.MissingCodes {
		result.Warnings = append(result.Warnings, fmt.Sprintf("map code %q has no skip-rule sheet", code))
	}
	r.report(logger, StageSkipRulesBuilt)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 5: scaling
	keys := scaling.Keys(fact, geoCol, seasonCol, resolver)
	result.Warnings = append(result.Warnings, unmapped(keys, stats)...)

	scaled, log := scaling.Apply(fact, scaling.Inputs{
		GeographyColumn: geoCol,
		SeasonColumn:    seasonCol,
		Variables:       result.Variables,
		Multipliers:     index,
		SkipRules:       rules,
		Rows:            keys,
		Marker:          r.marker,
	})
	scaled.Name = in.Fact.Name
	result.Scaled = scaled
	result.Audit = log
	r.report(logger, StageScalingApplied)

	// Stage 6: audit
	stats.CellsSkipped = len(log.Skipped)
	stats.CellsMultiplied = len(log.Multiplied)

	result.Metadata.EndTime = r.now()
	result.Metadata.Duration = result.Metadata.EndTime.Sub(result.Metadata.StartTime)
	r.report(logger, StageAuditReady)

	logger.Info().
		Int("multiplied", stats.CellsMultiplied).
		Int("skipped", stats.CellsSkipped).
		Int("warnings", len(result.Warnings)).
		Dur("duration", result.Metadata.Duration).
		Msg("scaling complete")

	return result, nil
}

// preparePMF upper-cases the PMF header, resolves its key columns and names
// the season column SEASON.
func preparePMF(pmf *table.Table) (geoCol, seasonCol string, err error) {
	pmf.MapColumns(normalize.Key)

	geoCol, err = columns.Require(constants.SourcePMF, "Geography", pmf.Columns, constants.ColumnGeography)
	if err != nil {
		return "", "", err
	}
	seasonCol, err = columns.RequirePreferred(constants.SourcePMF, "Season", pmf.Columns, constants.PMFSeasonColumns()...)
	if err != nil {
		return "", "", err
	}
	if seasonCol != constants.ColumnSeason {
		if err := pmf.Rename(seasonCol, constants.ColumnSeason); err != nil {
			return "", "", err
		}
		seasonCol = constants.ColumnSeason
	}
	return geoCol, seasonCol, nil
}

// unmapped counts rows without a map code and returns one warning per
// distinct unmapped geography, in row order.
func unmapped(keys []scaling.RowKey, stats *ResultStatistics) []string {
	var warnings []string
	seen := make(map[string]struct{})
	for _, k := range keys {
		if k.HasMap {
			stats.RowsMapped++
			continue
		}
		stats.RowsUnmapped++
		geo := normalize.Geography(k.Geography)
		if _, ok := seen[geo]; ok {
			continue
		}
		seen[geo] = struct{}{}
		warnings = append(warnings, fmt.Sprintf("geography %q has no MAP entry", normalize.Key(k.Geography)))
	}
	return warnings
}

func (r *reconciler) report(logger *zerolog.Logger, s Stage) {
	logger.Debug().Int("progress", s.Percent()).Msg(s.String())
	for _, fn := range r.progress {
		fn(s)
	}
}

// Option Functions
// ================

// WithMarker sets the token that marks multiplier variables
func WithMarker(marker string) Option {
	return func(r *reconciler) error {
		if strings.TrimSpace(marker) == "" {
			return errors.NewValidationError("marker", marker, "cannot be empty")
		}
		r.marker = normalize.Key(marker)
		return nil
	}
}

// WithProgress registers a callback invoked at every checkpoint
func WithProgress(fn func(Stage)) Option {
	return func(r *reconciler) error {
		if fn == nil {
			return errors.NewValidationError("progress", nil, "callback cannot be nil")
		}
		r.progress = append(r.progress, fn)
		return nil
	}
}

// WithLogger sets the logger; by default the context logger is used
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *reconciler) error {
		r.logger = logger
		return nil
	}
}

// WithClock sets the time source used for run metadata
func WithClock(now func() time.Time) Option {
	return func(r *reconciler) error {
		if now == nil {
			return errors.NewValidationError("clock", nil, "cannot be nil")
		}
		r.now = now
		return nil
	}
}
