// Package fixtures runs a local HTTP server serving canned responses,
// for tests that want their fetches on real sockets.
//
// Most suites never need it: the in-process fetch stub answers without
// any network. Suites exercising passthrough behavior register bodies
// in a Registry, start a Server on a loopback port, and point the
// runtime's fetch at it:
//
//	reg := fixtures.NewRegistry()
//	reg.Add("users.json", []map[string]string{{"name": "ada"}})
//
//	srv := fixtures.New(reg)
//	if err := srv.Start(); err != nil {
//		t.Fatal(err)
//	}
//	defer srv.Close()
//
//	env.Fetch().Passthrough(nil)
//	env.MustRun(`fetch(` + strconv.Quote(srv.URL()+"/fixtures/users.json") + `)`)
//
// Fixture directories and .tar.gz bundles load in bulk through
// Registry.LoadDir and Registry.LoadArchive. Besides fixture bodies the
// server exposes an echo endpoint, a WebSocket echo loop, a health
// probe, and Prometheus metrics.
package fixtures
