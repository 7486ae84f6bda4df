// Package provider defines the boundary between the scrape pipeline and the
// cloud billing backend.
//
// The CostQuerier interface is what the collector depends on:
//
//	type CostQuerier interface {
//		QueryDailyCosts(ctx context.Context, win window.Window) ([]DailyCost, error)
//		Name() ProviderType
//		Scope() string
//	}
//
// A DailyCost carries a decimal amount so that summing a month of rows does
// not accumulate binary floating point error. The Date is optional; rows
// without one still count toward the total.
//
// The Azure implementation lives in package azure. Tests substitute their
// own CostQuerier to drive the pipeline without network access.
package provider
