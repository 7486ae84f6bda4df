package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement"
	"github.com/shopspring/decimal"
	"github.com/zgpcy/azure-spend-exporter/internal/config"
	"github.com/zgpcy/azure-spend-exporter/internal/logger"
	"github.com/zgpcy/azure-spend-exporter/internal/provider"
	"github.com/zgpcy/azure-spend-exporter/internal/window"
)

// AggregationAlias is the key of the sum aggregation in the query dataset
const AggregationAlias = "totalCost"

// usageDateColumn is the column the API uses for daily granularity
const usageDateColumn = "UsageDate"

// usageQuerier is the subset of *armcostmanagement.QueryClient used here
type usageQuerier interface {
	Usage(ctx context.Context, scope string, parameters armcostmanagement.QueryDefinition, options *armcostmanagement.QueryClientUsageOptions) (armcostmanagement.QueryClientUsageResponse, error)
}

// Client wraps the Azure Cost Management client and implements provider.CostQuerier
type Client struct {
	client    usageQuerier
	scope     string
	costField string
	timeout   time.Duration
	logger    *logger.Logger
}

// Verify that Client implements provider.CostQuerier
var _ provider.CostQuerier = (*Client)(nil)

// NewClient creates a Cost Management client authenticated with the
// configured service principal. The client never retries: the next scrape
// is the retry.
func NewClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	cred, err := azidentity.NewClientSecretCredential(
		cfg.Azure.TenantID,
		cfg.Azure.ClientID,
		cfg.Azure.ClientSecret,
		&azidentity.ClientSecretCredentialOptions{ClientOptions: opts},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	client, err := armcostmanagement.NewQueryClient(cred, &arm.ClientOptions{ClientOptions: opts})
	if err != nil {
		return nil, fmt.Errorf("failed to create cost management client: %w", err)
	}

	return &Client{
		client:    client,
		scope:     cfg.Azure.Scope(),
		costField: cfg.Azure.CostField,
		timeout:   cfg.APITimeoutDuration(),
		logger:    log,
	}, nil
}

// clientOptions builds the pipeline options shared by the credential and
// the query client: target cloud, transport timeout and no SDK retries
func clientOptions(cfg *config.Config) (policy.ClientOptions, error) {
	cloudCfg, err := cloudConfiguration(cfg.Azure.Cloud)
	if err != nil {
		return policy.ClientOptions{}, err
	}

	return policy.ClientOptions{
		Cloud:     cloudCfg,
		Transport: &http.Client{Timeout: cfg.APITimeoutDuration()},
		Retry:     policy.RetryOptions{MaxRetries: -1},
	}, nil
}

// cloudConfiguration maps a configured cloud name to its endpoints
func cloudConfiguration(name string) (cloud.Configuration, error) {
	switch name {
	case "", config.CloudAzurePublic:
		return cloud.AzurePublic, nil
	case config.CloudAzureChina:
		return cloud.AzureChina, nil
	case config.CloudAzureGovernment:
		return cloud.AzureGovernment, nil
	default:
		return cloud.Configuration{}, fmt.Errorf("unsupported cloud %q", name)
	}
}

// Name returns the provider type
func (c *Client) Name() provider.ProviderType {
	return provider.ProviderAzure
}

// Scope returns the billing scope queried
func (c *Client) Scope() string {
	return c.scope
}

// QueryDailyCosts runs a single daily ActualCost query for win. Errors from
// the API are returned wrapped and unmodified otherwise.
func (c *Client) QueryDailyCosts(ctx context.Context, win window.Window) ([]provider.DailyCost, error) {
	log := logger.FromContext(ctx, c.logger)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	log.Debug("Querying Azure Cost Management API",
		"scope", c.scope,
		"from", win.FromString(),
		"to", win.ToString(),
		"cost_field", c.costField)

	resp, err := c.client.Usage(ctx, c.scope, c.buildQuery(win), nil)
	if err != nil {
		return nil, fmt.Errorf("cost query for %s over %s failed: %w", c.scope, win, err)
	}

	raw, err := json.Marshal(resp.QueryResult)
	if err != nil {
		log.Warn("Failed to serialize Azure cost query result for logging", "error", err)
	} else {
		log.Info("Azure Cost Query Result", "scope", c.scope, "result", string(raw))
	}

	if props := resp.QueryResult.Properties; props != nil && props.NextLink != nil && *props.NextLink != "" {
		log.Warn("Azure returned a paginated result; only the first page is summed",
			"scope", c.scope,
			"next_link", *props.NextLink)
	}

	return c.parseResponse(resp.QueryResult)
}

// buildQuery describes the aggregation: actual cost, custom window, daily
// granularity, sum over the configured cost field
func (c *Client) buildQuery(win window.Window) armcostmanagement.QueryDefinition {
	return armcostmanagement.QueryDefinition{
		Type:      to.Ptr(armcostmanagement.ExportTypeActualCost),
		Timeframe: to.Ptr(armcostmanagement.TimeframeTypeCustom),
		TimePeriod: &armcostmanagement.QueryTimePeriod{
			From: to.Ptr(win.From.UTC()),
			To:   to.Ptr(win.To.UTC()),
		},
		Dataset: &armcostmanagement.QueryDataset{
			Granularity: to.Ptr(armcostmanagement.GranularityTypeDaily),
			Aggregation: map[string]*armcostmanagement.QueryAggregation{
				AggregationAlias: {
					Name:     to.Ptr(c.costField),
					Function: to.Ptr(armcostmanagement.FunctionTypeSum),
				},
			},
		},
	}
}

// buildColumnMap creates a map of column names to their indices
func buildColumnMap(columns []*armcostmanagement.QueryColumn) map[string]int {
	columnMap := make(map[string]int)
	for i, col := range columns {
		if col != nil && col.Name != nil {
			columnMap[*col.Name] = i
		}
	}
	return columnMap
}

// costColumnIndex locates the summed column. The API names it after the
// cost field; older API versions use the alias or "Cost". Without a match
// the first column is used, which is where the API places the aggregate.
func (c *Client) costColumnIndex(columnMap map[string]int) int {
	for _, name := range []string{c.costField, AggregationAlias, "Cost", "PreTaxCost"} {
		if idx, ok := columnMap[name]; ok {
			return idx
		}
	}
	return 0
}

// parseAmount converts a cost cell to a decimal. Anything that is not a
// number is an error.
func parseAmount(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("non-numeric cost value %q", v)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("non-numeric cost value %v (%T)", value, value)
	}
}

// formatDateValue converts various date types to string
func formatDateValue(value interface{}) string {
	switch v := value.(type) {
	case int, int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%.0f", v)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// extractDigits extracts only digit characters from a string
func extractDigits(s string) string {
	var digits strings.Builder
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}
	return digits.String()
}

// parseDate turns a UsageDate cell (20240214, "20240214", "2024-02-14T00:00:00")
// into UTC midnight. Unparseable dates yield the zero time.
func parseDate(value interface{}) time.Time {
	if value == nil {
		return time.Time{}
	}
	digits := extractDigits(formatDateValue(value))
	if len(digits) < 8 {
		return time.Time{}
	}
	t, err := time.ParseInLocation("20060102", digits[:8], time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseRow parses a single row from the Azure API response
func parseRow(row []interface{}, costIdx, dateIdx, currencyIdx int) (provider.DailyCost, error) {
	if len(row) <= costIdx {
		return provider.DailyCost{}, fmt.Errorf("row has %d columns, cost column is %d", len(row), costIdx)
	}

	amount, err := parseAmount(row[costIdx])
	if err != nil {
		return provider.DailyCost{}, err
	}

	record := provider.DailyCost{Amount: amount}
	if dateIdx >= 0 && len(row) > dateIdx {
		record.Date = parseDate(row[dateIdx])
	}
	if currencyIdx >= 0 && len(row) > currencyIdx {
		if cur, ok := row[currencyIdx].(string); ok {
			record.Currency = cur
		}
	}
	return record, nil
}

// parseResponse converts the Azure API response to a daily cost series
func (c *Client) parseResponse(result armcostmanagement.QueryResult) ([]provider.DailyCost, error) {
	if result.Properties == nil || len(result.Properties.Rows) == 0 {
		return nil, nil
	}

	columnMap := buildColumnMap(result.Properties.Columns)
	costIdx := c.costColumnIndex(columnMap)

	dateIdx, ok := columnMap[usageDateColumn]
	if !ok {
		dateIdx = -1
	}
	currencyIdx, ok := columnMap["Currency"]
	if !ok {
		currencyIdx = -1
	}

	series := make([]provider.DailyCost, 0, len(result.Properties.Rows))
	for i, row := range result.Properties.Rows {
		record, err := parseRow(row, costIdx, dateIdx, currencyIdx)
		if err != nil {
			return nil, fmt.Errorf("malformed cost row %d: %w", i, err)
		}
		series = append(series, record)
	}

	return series, nil
}
