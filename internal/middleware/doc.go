// Package middleware provides HTTP middleware for the fixtures server.
//
// The stack is small because the server only ever faces test code on a
// loopback port:
//   - CORS: wide-open cross-origin policy, since test harnesses report
//     arbitrary origins
//   - RateLimit / GlobalRateLimit: token-bucket limits that turn a test
//     stuck in a request loop into 429s instead of a melted suite
//
// Panic recovery and request logging come from gin and the server.
package middleware
