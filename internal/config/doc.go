// Package config provides 12-factor configuration management for the test environment.
//
// Configuration is loaded from environment variables with sensible defaults,
// so a bare `go test` run needs no setup at all.
//
// Configuration Sections:
//   - Runtime: script execution settings (timeout, user agent, base URL)
//   - Fixtures: fixture server bind settings (host, port)
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting for the fixture server
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("fixtures bind: %s:%s\n", cfg.Fixtures.Host, cfg.Fixtures.Port)
//
// Environment Variables:
//   - SCRIPT_TIMEOUT, USER_AGENT, BASE_URL, MAX_CONSOLE
//   - FIXTURES_HOST, FIXTURES_PORT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
