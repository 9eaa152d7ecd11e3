// Package main is the webenv command line entry point.
//
// It drives the same environment the Go test bindings use, for running
// scripts against the simulated browser surface outside a test process
// and for serving fixture directories to other tooling.
//
// Usage:
//
//	# Run a script, mounting markup and serving fixtures beside it
//	webenv -script ui.js -html page.html -fixtures ./testdata
//
//	# Serve a fixture directory until interrupted
//	webenv -serve -fixtures ./testdata -addr 127.0.0.1:8099
//
// In script mode the fixtures server's base URL is published to the
// script as the FIXTURES_URL global and unmatched fetches pass through
// to it. Console output is printed after the script settles; a script
// error exits non-zero.
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown in serve mode
package main
