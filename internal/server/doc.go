// Package server provides the HTTP surface of the exporter.
//
// Every request to /metrics runs one scrape through a Scraper, usually a
// *collector.CostCollector, and answers with:
//
//   - 200 and the text exposition when the scrape succeeded or found no data
//   - 500 with a plain-text "Error: <message>" body when it failed
//
// Nothing is cached between requests, so the HTTP server's write timeout
// is derived from api_timeout rather than fixed.
//
// Available endpoints:
//   - /           : Landing page with version, scope and current window
//   - /metrics    : Prometheus metrics endpoint (one query per request)
//   - /health     : Liveness probe (always returns 200)
//
// Each scrape is tagged with a random scrape_id that appears on every log
// line of the request and in the X-Scrape-Id response header. Handler
// panics are recovered, logged with a stack trace and answered with 500.
//
// Example usage:
//
//	srv := server.NewServer(cfg, costCollector, log)
//
//	serverErrors := make(chan error, 1)
//	go func() {
//		serverErrors <- srv.Start()
//	}()
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//	if err := srv.Shutdown(ctx); err != nil {
//		log.Error("Error during shutdown", "error", err)
//	}
package server
