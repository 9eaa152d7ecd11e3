package fixtures_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	webenv "github.com/iaalcantara17/webenv"
	"github.com/iaalcantara17/webenv/fixtures"
	"github.com/iaalcantara17/webenv/internal/httpclient"
	"github.com/iaalcantara17/webenv/storage"
)

// A runtime fetch that no route matches travels over real HTTP to the
// loopback server and comes back into the script as JSON.
func TestFetchPassthroughAgainstServer(t *testing.T) {
	reg := fixtures.NewRegistry()
	require.NoError(t, reg.Add("jobs.json", map[string]interface{}{
		"title":  "platform engineer",
		"remote": true,
	}))

	srv := fixtures.New(reg)
	require.NoError(t, srv.Start())
	defer srv.Close()

	env := webenv.New(t, webenv.WithStorage(storage.New()))
	env.Fetch().Passthrough(nil)

	script := fmt.Sprintf(`fetch(%q).then(r => r.json()).then(d => d.title)`,
		srv.URL()+"/fixtures/jobs.json")
	v, err := env.AwaitScript(context.Background(), script)
	require.NoError(t, err)
	assert.Equal(t, "platform engineer", v)
}

// Passthrough with credentials reaches fixtures behind Protect.
func TestPassthroughWithProtectedServer(t *testing.T) {
	reg := fixtures.NewRegistry()
	reg.AddText("secret.txt", "for authorized eyes")

	srv := fixtures.New(reg)
	require.NoError(t, srv.Protect("tester", "hunter2"))
	require.NoError(t, srv.Start())
	defer srv.Close()

	env := webenv.New(t, webenv.WithStorage(storage.New()))
	env.Fetch().Passthrough(httpclient.New(httpclient.WithBasicAuth("tester", "hunter2")))

	script := fmt.Sprintf(`fetch(%q).then(r => r.text())`,
		srv.URL()+"/fixtures/secret.txt")
	v, err := env.AwaitScript(context.Background(), script)
	require.NoError(t, err)
	assert.Equal(t, "for authorized eyes", v)
}

// Unmatched calls still fail fast when no passthrough is configured,
// even while a server is up.
func TestNoPassthroughStaysMocked(t *testing.T) {
	srv := fixtures.New(nil)
	require.NoError(t, srv.Start())
	defer srv.Close()

	env := webenv.New(t, webenv.WithStorage(storage.New()))

	script := fmt.Sprintf(`fetch(%q).catch(e => e.message)`, srv.URL()+"/healthz")
	v, err := env.AwaitScript(context.Background(), script)
	require.NoError(t, err)
	assert.Contains(t, v.(string), "not mocked")
}
