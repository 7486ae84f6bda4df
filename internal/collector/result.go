package collector

import (
	"github.com/shopspring/decimal"
	"github.com/zgpcy/azure-spend-exporter/internal/window"
)

// Outcome classifies a scrape
type Outcome int

const (
	// OutcomeSuccess means at least one row was returned and summed
	OutcomeSuccess Outcome = iota
	// OutcomeEmpty means the upstream returned no rows; the gauge is omitted
	OutcomeEmpty
	// OutcomeFailure means the query or row parsing failed
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one scrape. Only the fields of its Outcome are set.
type Result struct {
	Outcome Outcome
	Window  window.Window
	Total   decimal.Decimal // Success only
	Rows    int             // Success only
	Err     error           // Failure only
}

// Success returns a result carrying the summed total of rows entries
func Success(win window.Window, total decimal.Decimal, rows int) Result {
	return Result{Outcome: OutcomeSuccess, Window: win, Total: total, Rows: rows}
}

// Empty returns a result for a window without data
func Empty(win window.Window) Result {
	return Result{Outcome: OutcomeEmpty, Window: win}
}

// Failure returns a result wrapping err
func Failure(win window.Window, err error) Result {
	return Result{Outcome: OutcomeFailure, Window: win, Err: err}
}

// Value returns the total as a gauge value
func (r Result) Value() float64 {
	return r.Total.InexactFloat64()
}
