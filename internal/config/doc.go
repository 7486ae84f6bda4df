// Package config provides configuration management for the Azure spend exporter.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority), optionally seeded from a .env file
//  2. YAML configuration file (optional)
//  3. Default values (lowest priority)
//
// Supported environment variables:
//   - AZURE_TENANT_ID, AZURE_CLIENT_ID, AZURE_CLIENT_SECRET: service principal
//   - AZURE_SUBSCRIPTION_ID: subscription whose spend is reported
//   - AZURE_COST_SCOPE: full billing scope, overrides the subscription scope
//   - AZURE_COST_CLOUD: AzurePublic, AzureChina or AzureGovernment
//   - AZURE_COST_FIELD: cost column to sum (default PreTaxCost)
//   - AZURE_COST_HTTP_PORT: HTTP server port (default 9200)
//   - AZURE_COST_LOG_LEVEL: debug, info, warn, error
//   - AZURE_COST_LOG_FORMAT: json or text
//   - AZURE_COST_API_TIMEOUT: Cost Management call timeout in seconds (max 300)
//
// Example configuration file (config.yaml):
//
//	azure:
//	  tenant_id: "00000000-0000-0000-0000-000000000000"
//	  client_id: "11111111-1111-1111-1111-111111111111"
//	  subscription_id: "22222222-2222-2222-2222-222222222222"
//	  cloud: AzurePublic
//	  cost_field: PreTaxCost
//
//	http_port: 9200
//	log_level: info
//	api_timeout: 30
//
// The client secret is best left out of the file and supplied through
// AZURE_CLIENT_SECRET or a .env file loaded with LoadEnvFile.
package config
