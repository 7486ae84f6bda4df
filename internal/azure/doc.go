// Package azure implements provider.CostQuerier on top of the Azure Cost
// Management Query API.
//
// A Client is built once at startup from the service principal in the
// configuration and shared by every scrape. Each QueryDailyCosts call
// issues exactly one Usage request:
//
//	type:        ActualCost
//	timeframe:   Custom (window.From .. window.To)
//	granularity: Daily
//	aggregation: totalCost = Sum(<cost_field>)
//
// The SDK retry policy is disabled and the HTTP transport carries an
// explicit timeout, so a failed or slow call costs one scrape and nothing
// more. Errors are wrapped with %w; callers can still reach the
// *azcore.ResponseError with errors.As.
//
// Every successful response is logged in full at info level before it is
// parsed. Rows whose amount is not a number fail the whole query.
//
// Example usage:
//
//	client, err := azure.NewClient(cfg, log)
//	if err != nil {
//		log.Error("Failed to create Azure client", "error", err)
//		os.Exit(1)
//	}
//
//	series, err := client.QueryDailyCosts(ctx, window.Calculate(time.Now()))
package azure
