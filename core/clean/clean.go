// Package clean has the filters that reduce the record store to the analytical subset.
//
// Every step is subtractive and runs in its own store transaction, so a step either
// commits fully or leaves the record set untouched. Running a step twice deletes nothing
// the second time.
package clean

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
	"github.com/shopspring/decimal"
)

// Options is the cleaning scope.
type Options struct {
	Borough string
	Seasons []schema.DateRange
}

// OptionsFromConfig builds the cleaning scope from a validated config.
func OptionsFromConfig(cfg *contract.Config) Options {
	return Options{Borough: cfg.Borough, Seasons: slices.Clone(cfg.Seasons)}
}

func (o Options) validate() error {
	if strings.TrimSpace(o.Borough) == "" {
		return errors.New("target borough is required")
	}
	if len(o.Seasons) == 0 {
		return errors.New("at least one season is required")
	}
	return nil
}

// stepFunc deletes the records a step filters out and returns how many were removed.
type stepFunc func(ctx context.Context, tx contract.RecordTx, opts Options) (int64, error)

var steps = map[schema.StepName]stepFunc{
	schema.BoroughStep:  boroughStep,
	schema.GeoStep:      geoStep,
	schema.TemporalStep: temporalStep,
}

// Run executes the cleaning steps in order against the store.
// The pipeline halts at the first failing step; every later step is reported as skipped.
// The returned error is the failing step's error, wrapped in a *contract.QueryError.
func Run(ctx context.Context, rs contract.RecordStore, opts Options) (schema.CleaningReport, error) {
	report := schema.CleaningReport{
		TargetBorough:  opts.Borough,
		SeasonsApplied: slices.Clone(opts.Seasons),
	}
	if err := opts.validate(); err != nil {
		return report, err
	}

	failed := false
	for _, name := range schema.CleaningSteps {
		if failed {
			report.Steps = append(report.Steps, schema.StepResult{Name: name, Skipped: true})
			continue
		}
		result := RunStep(ctx, rs, name, opts)
		report.Steps = append(report.Steps, result)
		failed = result.Failed()
	}
	if err := report.Err(); err != nil {
		return report, err
	}

	remaining, err := rs.Count(ctx)
	if err != nil {
		return report, contract.WrapQueryError("count remaining", err)
	}
	report.RemainingRows = remaining
	return report, nil
}

// RunStep executes a single cleaning step inside one store transaction.
func RunStep(ctx context.Context, rs contract.RecordStore, name schema.StepName, opts Options) schema.StepResult {
	result := schema.StepResult{Name: name}
	fn, ok := steps[name]
	if !ok {
		result.Err = fmt.Errorf("unknown cleaning step %q", name)
		result.Error = result.Err.Error()
		return result
	}

	var deleted int64
	err := rs.Apply(ctx, func(tx contract.RecordTx) error {
		n, err := fn(ctx, tx, opts)
		deleted = n
		return err
	})
	if err != nil {
		result.Err = &contract.QueryError{Step: string(name), Err: err}
		result.Error = result.Err.Error()
		return result
	}
	result.RowsDeleted = deleted
	return result
}

// BoroughPredicate matches records outside the target borough, nulls included.
func BoroughPredicate(borough string) contract.Predicate {
	return contract.Predicate{
		Clause: "borough IS NULL OR borough <> ?",
		Args:   []any{strings.ToUpper(strings.TrimSpace(borough))},
	}
}

// MissingGeoPredicate matches records without a latitude or longitude.
func MissingGeoPredicate() contract.Predicate {
	return contract.Predicate{Clause: "latitude IS NULL OR longitude IS NULL"}
}

// SeasonPredicate matches records whose crash date falls in none of the seasons.
// Bounds are inclusive.
func SeasonPredicate(seasons []schema.DateRange) contract.Predicate {
	parts := make([]string, 0, len(seasons))
	args := make([]any, 0, 2*len(seasons))
	for _, s := range seasons {
		parts = append(parts, "crash_date BETWEEN ? AND ?")
		args = append(args, s.Start.Format(schema.DateLayout), s.End.Format(schema.DateLayout))
	}
	return contract.Predicate{
		Clause: "NOT (" + strings.Join(parts, " OR ") + ")",
		Args:   args,
	}
}

func boroughStep(ctx context.Context, tx contract.RecordTx, opts Options) (int64, error) {
	return tx.DeleteWhere(ctx, BoroughPredicate(opts.Borough))
}

func temporalStep(ctx context.Context, tx contract.RecordTx, opts Options) (int64, error) {
	return tx.DeleteWhere(ctx, SeasonPredicate(opts.Seasons))
}

// geoStep drops records with missing coordinates, checks that every remaining
// coordinate is a decimal number, and then drops records located at zero.
func geoStep(ctx context.Context, tx contract.RecordTx, _ Options) (int64, error) {
	missing, err := tx.DeleteWhere(ctx, MissingGeoPredicate())
	if err != nil {
		return 0, err
	}
	values, err := tx.GeoValues(ctx)
	if err != nil {
		return 0, err
	}
	zeroIDs, err := ZeroCoordinateIDs(values)
	if err != nil {
		return 0, err
	}
	zeros, err := tx.DeleteByIDs(ctx, zeroIDs)
	if err != nil {
		return 0, err
	}
	return missing + zeros, nil
}

// ZeroCoordinateIDs returns the ids of records whose latitude or longitude is exactly zero.
// Any value that is not a decimal number yields a *contract.MalformedValueError listing
// every offending record.
func ZeroCoordinateIDs(values []schema.GeoValue) ([]int64, error) {
	var zeroIDs []int64
	var bad contract.MalformedValueError
	badLat, badLon := false, false

	for _, v := range values {
		lat, latErr := decimal.NewFromString(strings.TrimSpace(v.Latitude))
		lon, lonErr := decimal.NewFromString(strings.TrimSpace(v.Longitude))
		if latErr != nil || lonErr != nil {
			bad.IDs = append(bad.IDs, v.ID)
			if latErr != nil {
				badLat = true
				bad.Values = append(bad.Values, v.Latitude)
			}
			if lonErr != nil {
				badLon = true
				bad.Values = append(bad.Values, v.Longitude)
			}
			continue
		}
		if lat.IsZero() || lon.IsZero() {
			zeroIDs = append(zeroIDs, v.ID)
		}
	}

	if len(bad.IDs) == 0 {
		return zeroIDs, nil
	}
	switch {
	case badLat && badLon:
		bad.Column = schema.ColLatitude + "/" + schema.ColLongitude
	case badLat:
		bad.Column = schema.ColLatitude
	default:
		bad.Column = schema.ColLongitude
	}
	return nil, &bad
}
