package webenv

import "testing"

func TestNavigatorIdentity(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`[navigator.userAgent, navigator.platform, navigator.onLine]`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	got := v.([]interface{})
	ua, ok := got[0].(string)
	if !ok || ua == "" {
		t.Errorf("userAgent = %v", got[0])
	}
	if got[1] != "webenv" {
		t.Errorf("platform = %v", got[1])
	}
	if got[2] != true {
		t.Errorf("onLine = %v", got[2])
	}
}

func TestClipboardRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		navigator.clipboard.writeText('copied text');
		navigator.clipboard.readText()
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}

	// writeText's job runs before readText's in queue order, so the
	// read promise resolves with the written text.
	out, err := env.Await(v)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if out != "copied text" {
		t.Errorf("readText = %v", out)
	}
}

func TestPermissionsQueryDefaultsGranted(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`navigator.permissions.query({name: 'clipboard-read'})`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	out, err := env.Await(v)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	status, ok := out.(map[string]interface{})
	if !ok {
		t.Fatalf("status = %T", out)
	}
	if status["state"] != "granted" || status["name"] != "clipboard-read" {
		t.Errorf("status = %v", status)
	}
}

func TestPermissionsQueryConfigurable(t *testing.T) {
	env := newTestEnv(t)

	fn, ok := env.Registry().GetFn("navigator.permissions.query")
	if !ok {
		t.Fatal("permissions stand-in missing")
	}
	fn.Returns("denied")

	v, err := env.Eval(`navigator.permissions.query({name: 'camera'})`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	out, err := env.Await(v)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	status := out.(map[string]interface{})
	if status["state"] != "denied" {
		t.Errorf("state = %v, want the configured denial", status["state"])
	}

	if err := env.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	v, err = env.Eval(`navigator.permissions.query({name: 'camera'})`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	out, err = env.Await(v)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	status = out.(map[string]interface{})
	if status["state"] != "granted" {
		t.Errorf("state after reset = %v, want the creation default back", status["state"])
	}
}
