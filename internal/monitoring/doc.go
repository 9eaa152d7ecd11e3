// Package monitoring collects Prometheus metrics for the fixtures
// server.
//
// Every Metrics value owns its own registry, so suites can start any
// number of servers without duplicate-registration panics, and each
// server's /metrics endpoint reports only its own traffic.
package monitoring
