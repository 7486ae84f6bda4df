package collector

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/zgpcy/azure-spend-exporter/internal/clock"
	"github.com/zgpcy/azure-spend-exporter/internal/logger"
	"github.com/zgpcy/azure-spend-exporter/internal/provider"
	"github.com/zgpcy/azure-spend-exporter/internal/window"
)

// CostCollector runs the scrape pipeline: window, query, reduce. It holds
// no state between scrapes and is safe for concurrent use.
type CostCollector struct {
	querier provider.CostQuerier
	logger  *logger.Logger
	clock   clock.Clock // Time provider for testing
}

// Option configures a CostCollector
type Option func(*CostCollector)

// WithClock overrides the time source used to compute the window
func WithClock(c clock.Clock) Option {
	return func(cc *CostCollector) {
		cc.clock = c
	}
}

// NewCostCollector creates a new CostCollector
func NewCostCollector(querier provider.CostQuerier, log *logger.Logger, opts ...Option) *CostCollector {
	c := &CostCollector{
		querier: querier,
		logger:  log,
		clock:   clock.RealClock{}, // Use real system time by default
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scrape queries the trailing window and reduces the series to a Result.
// Query errors are returned as a Failure, never retried.
func (c *CostCollector) Scrape(ctx context.Context) Result {
	log := logger.FromContext(ctx, c.logger)
	win := window.Calculate(c.clock.Now())
	providerName := c.querier.Name()

	start := time.Now()
	series, err := c.querier.QueryDailyCosts(ctx, win)
	duration := time.Since(start)

	if err != nil {
		log.Debug("Cost query failed",
			"provider", providerName,
			"window", win.String(),
			"duration_seconds", duration.Seconds())
		return Failure(win, err)
	}

	res := Reduce(series, win, log)
	if res.Outcome == OutcomeSuccess {
		log.Info("Successfully queried cost data",
			"provider", providerName,
			"scope", c.querier.Scope(),
			"window", win.String(),
			"row_count", res.Rows,
			"total", res.Total.String(),
			"duration_seconds", duration.Seconds())
	}
	return res
}

// Reduce sums every row of series. An empty series is reported as Empty
// rather than a zero total.
func Reduce(series []provider.DailyCost, win window.Window, log *logger.Logger) Result {
	if len(series) == 0 {
		log.Warn("No cost data returned from Azure", "window", win.String())
		return Empty(win)
	}

	total := lo.Reduce(series, func(acc decimal.Decimal, row provider.DailyCost, _ int) decimal.Decimal {
		return acc.Add(row.Amount)
	}, decimal.Zero)

	// Out-of-window rows still count; the upstream is trusted to scope its answer
	outside := lo.CountBy(series, func(row provider.DailyCost) bool {
		return row.HasDate() && !win.Contains(row.Date)
	})
	if outside > 0 {
		log.Warn("Cost rows dated outside the query window were included in the total",
			"window", win.String(),
			"outside_rows", outside,
			"row_count", len(series))
	}
	if len(series) > window.Days {
		log.Warn("More cost rows than days in the window",
			"window", win.String(),
			"row_count", len(series),
			"days", window.Days)
	}

	currencies := lo.Uniq(lo.FilterMap(series, func(row provider.DailyCost, _ int) (string, bool) {
		return row.Currency, row.Currency != ""
	}))
	if len(currencies) > 1 {
		log.Warn("Cost rows report more than one currency; amounts are summed as-is",
			"currencies", currencies)
	}

	return Success(win, total, len(series))
}
