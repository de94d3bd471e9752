package verify

import (
	"context"
	"fmt"
	"time"

	app "github.com/okian/kundali/internal/app"
	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
	"github.com/okian/kundali/pkg/logger"
)

const defaultWorkers = 4

// chartResult carries one chart's outcome back to the collector.
type chartResult struct {
	checks     int
	violations []Violation
	err        error
}

// Run computes Count random charts against an in-process service and
// checks every invariant on each of them.
func Run(ctx context.Context, config *Config) error {
	if config.Count <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, config.Count)
	}

	workers := config.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > config.Count {
		workers = config.Count
	}

	stats := &Stats{
		ChartsPlanned: config.Count,
		StartTime:     time.Now(),
	}

	logger.Get().Info(ctx, "starting chart verification",
		logger.Int("charts", config.Count),
		logger.Int("workers", workers),
		logger.Bool("verbose", config.Verbose))

	svc := app.New(
		app.WithEphemerisWorkers(workers),
		app.WithDivisions(types.D1, types.D9),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("service start failed: %w", err)
	}
	defer svc.Stop()

	results := make(chan chartResult, config.Count)

	chartsPerWorker := config.Count / workers
	for worker := 0; worker < workers; worker++ {
		start := worker * chartsPerWorker
		end := start + chartsPerWorker
		if worker == workers-1 {
			end = config.Count // Last worker gets the remainder
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					results <- chartResult{err: ctx.Err()}
				default:
					results <- verifyOne(ctx, svc, config)
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.Count; i++ {
		result := <-results
		stats.PropertyChecks += result.checks
		if result.err != nil {
			stats.ChartsFailed++
			logger.Get().Warn(ctx, "chart computation failed", logger.Error(result.err))
			continue
		}
		stats.ChartsComputed++
		stats.Violations = append(stats.Violations, result.violations...)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)

	if stats.ChartsFailed > 0 {
		return fmt.Errorf("%w: %d of %d charts failed to compute", ErrViolations, stats.ChartsFailed, config.Count)
	}
	if len(stats.Violations) > 0 {
		return fmt.Errorf("%w: %d violations across %d checks", ErrViolations, len(stats.Violations), stats.PropertyChecks)
	}

	logger.Get().Info(ctx, "verification completed successfully")
	return nil
}

// verifyOne computes one random chart and checks it.
func verifyOne(ctx context.Context, svc *app.Service, config *Config) chartResult {
	input := randomInput()

	chart, err := svc.ComputeChart(ctx, input)
	if err != nil {
		return chartResult{err: fmt.Errorf("compute chart for %s: %w", input.Fingerprint(), err)}
	}

	checks, violations := checkChart(chart)
	derivedChecks, derivedViolations := checkDerived(ctx, svc, chart)
	checks += derivedChecks
	violations = append(violations, derivedViolations...)

	if config.Verbose {
		for _, v := range violations {
			logger.Get().Warn(ctx, "invariant violation",
				logger.String("property", v.Property),
				logger.String("detail", v.Detail))
		}
	}

	return chartResult{checks: checks, violations: violations}
}

// checkDerived re-queries the service for the dasha, varga and
// panchanga views of a stored chart and cross-checks them against the
// chart itself.
func checkDerived(ctx context.Context, svc *app.Service, chart model.BirthChart) (int, []Violation) {
	var violations []Violation
	fail := func(property string, err error) {
		violations = append(violations, Violation{
			Input:    chart.Input,
			Property: property,
			Detail:   err.Error(),
		})
	}

	const derivedChecks = 3

	birth, err := chart.Input.UTC()
	if err != nil {
		fail("dasha_coverage", err)
	} else if tl, tlErr := svc.DashaTimeline(ctx, chart.ID); tlErr != nil {
		fail("dasha_coverage", tlErr)
	} else if covErr := dashaCoverage(tl, birth); covErr != nil {
		fail("dasha_coverage", covErr)
	}

	if d1, d1Err := svc.DivisionalChart(ctx, chart.ID, types.D1); d1Err != nil {
		fail("d1_identity", d1Err)
	} else if idErr := d1Identity(chart, d1); idErr != nil {
		fail("d1_identity", idErr)
	}

	if snapshot, snapErr := svc.PanchangaAt(ctx, chart.Input); snapErr != nil {
		fail("panchanga_determinism", snapErr)
	} else if detErr := panchangaDeterminism(chart, snapshot); detErr != nil {
		fail("panchanga_determinism", detErr)
	}

	return derivedChecks, violations
}

// displayFinalStats prints the final verification statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var chartsPerSecond float64
	if stats.Duration > 0 {
		chartsPerSecond = float64(stats.ChartsComputed) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("chartsPlanned", stats.ChartsPlanned),
		logger.Int("chartsComputed", stats.ChartsComputed),
		logger.Int("chartsFailed", stats.ChartsFailed),
		logger.Int("propertyChecks", stats.PropertyChecks),
		logger.Int("violations", len(stats.Violations)),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("chartsPerSecond", chartsPerSecond))
}
