// Package collector turns one scrape into one gauge.
//
// CostCollector.Scrape computes the trailing 30-day window from its clock,
// asks the provider.CostQuerier for the daily series and reduces it to a
// Result with one of three outcomes:
//
//   - Success: the decimal sum of every returned row
//   - Empty:   no rows; the sample is omitted instead of reported as 0
//   - Failure: the query or a row failed; nothing is encoded
//
// Encode renders a Result as Prometheus text exposition using a registry
// and gauge created for that call alone, so nothing leaks between scrapes:
//
//	# HELP azure_30day_cumulative_cost_usd Azure cumulative cost over last 30 days in USD
//	# TYPE azure_30day_cumulative_cost_usd gauge
//	azure_30day_cumulative_cost_usd 312.75
//
// Example usage:
//
//	c := collector.NewCostCollector(azureClient, log)
//	res := c.Scrape(ctx)
//	if res.Outcome == collector.OutcomeFailure {
//		return res.Err
//	}
//	return collector.Encode(w, res)
package collector
