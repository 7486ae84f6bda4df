package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zgpcy/azure-spend-exporter/internal/window"
)

// ProviderType represents a cloud provider
type ProviderType string

// Supported cloud providers
const (
	ProviderAzure ProviderType = "azure"
)

// CostQuerier is implemented by cloud cost backends. A single call returns
// the full daily series for the window; implementations do not retry.
type CostQuerier interface {
	// QueryDailyCosts retrieves one row per day of actual cost for win
	QueryDailyCosts(ctx context.Context, win window.Window) ([]DailyCost, error)

	// Name returns the provider name
	Name() ProviderType

	// Scope returns the billing scope the queries are bound to
	Scope() string
}

// DailyCost is one row of the upstream daily cost series
type DailyCost struct {
	Date     time.Time       // UTC midnight of the usage day; zero if the row carried no date
	Amount   decimal.Decimal // Cost amount, uninterpreted
	Currency string          // Billing currency when reported, e.g. USD
}

// HasDate reports whether the row carried a usage date
func (d DailyCost) HasDate() bool {
	return !d.Date.IsZero()
}
