package webenv

import (
	"strings"
	"testing"
	"time"

	"github.com/iaalcantara17/webenv/fetchmock"
	"github.com/iaalcantara17/webenv/storage"
)

func TestResetClearsTestState(t *testing.T) {
	env, err := NewDetached(WithStorage(storage.New()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer env.Close()

	// Dirty everything a test can touch.
	env.Fetch().Respond("GET", "/api/items", fetchmock.Text("configured"))
	env.MustMount(`<div id="widget">w</div>`)
	if err := env.StubGlobal("FLAG", true); err != nil {
		t.Fatalf("stub global: %v", err)
	}
	env.MustRun(`
		fetch('/api/items');
		matchMedia('(min-width: 1px)');
		document.title = 'dirty';
		console.log('noise');
		localStorage.setItem('keep', 'kept');
		sessionStorage.setItem('sess', 'kept too');
	`)

	if err := env.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	t.Run("stand-in call records cleared", func(t *testing.T) {
		if n := env.Fetch().CallCount(); n != 0 {
			t.Errorf("fetch calls = %d", n)
		}
		mm, ok := env.Registry().GetFn("matchMedia")
		if !ok {
			t.Fatal("matchMedia stand-in missing")
		}
		if n := mm.CallCount(); n != 0 {
			t.Errorf("matchMedia calls = %d", n)
		}
	})

	t.Run("configured fetch behavior cleared", func(t *testing.T) {
		env.MustRun(`
			var failure = null;
			fetch('/api/items').catch(function (err) { failure = err.message; });
		`)
		v, err := env.Eval(`failure`)
		if err != nil {
			t.Fatalf("eval: %v", err)
		}
		msg, ok := v.(string)
		if !ok || !strings.Contains(msg, "not mocked") {
			t.Errorf("fetch default not restored: %v", v)
		}
	})

	t.Run("mounts unmounted", func(t *testing.T) {
		v, err := env.Eval(`document.getElementById('widget')`)
		if err != nil {
			t.Fatalf("eval: %v", err)
		}
		if v != nil {
			t.Error("mounted element survived reset")
		}
		if n := len(env.Document().Body.Children); n != 0 {
			t.Errorf("body children = %d", n)
		}
	})

	t.Run("stubbed globals restored", func(t *testing.T) {
		if got := env.Global("FLAG"); got != nil {
			t.Errorf("FLAG = %v", got)
		}
	})

	t.Run("document title cleared", func(t *testing.T) {
		v, err := env.Eval(`document.title`)
		if err != nil {
			t.Fatalf("eval: %v", err)
		}
		if v != "" {
			t.Errorf("title = %v", v)
		}
	})

	t.Run("console cleared", func(t *testing.T) {
		if n := len(env.ConsoleLog()); n != 0 {
			t.Errorf("console entries = %d", n)
		}
	})

	t.Run("storage kept", func(t *testing.T) {
		v, err := env.Eval(`[localStorage.getItem('keep'), sessionStorage.getItem('sess')]`)
		if err != nil {
			t.Fatalf("eval: %v", err)
		}
		got := v.([]interface{})
		if got[0] != "kept" || got[1] != "kept too" {
			t.Errorf("storage after reset: %v", got)
		}
	})
}

func TestResetKeepsStandInIdentity(t *testing.T) {
	env, err := NewDetached(WithStorage(storage.New()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer env.Close()

	before, ok := env.Registry().GetFn("matchMedia")
	if !ok {
		t.Fatal("matchMedia stand-in missing")
	}

	if err := env.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	after, ok := env.Registry().GetFn("matchMedia")
	if !ok {
		t.Fatal("matchMedia stand-in missing after reset")
	}
	if before != after {
		t.Error("reset replaced the stand-in; held references went stale")
	}

	env.MustRun(`matchMedia('(min-width: 9px)')`)
	if before.CallCount() != 1 {
		t.Errorf("pre-reset reference sees %d calls, want 1", before.CallCount())
	}
}

func TestResetClearsPendingTimers(t *testing.T) {
	env, err := NewDetached(WithStorage(storage.New()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer env.Close()

	env.MustRun(`
		var fired = false;
		setTimeout(function () { fired = true; }, 10);
	`)

	if err := env.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	env.AdvanceClock(time.Second)

	// The timer belonged to the previous test; its callback must not
	// run against the fresh runtime.
	v, err := env.Eval(`typeof fired`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != "undefined" {
		t.Errorf("old state leaked into fresh runtime: %v", v)
	}
}

func TestBindResetBetweenSubtests(t *testing.T) {
	env, err := NewDetached(WithStorage(storage.New()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer env.Close()

	t.Run("first case dirties the environment", func(t *testing.T) {
		env.BindReset(t)
		env.Fetch().Respond("GET", "/x", fetchmock.Text("hi"))
		env.MustRun(`fetch('/x')`)
		if env.Fetch().CallCount() != 1 {
			t.Fatalf("call count = %d", env.Fetch().CallCount())
		}
	})

	if env.Fetch().CallCount() != 0 {
		t.Errorf("reset between subtests did not run: %d calls", env.Fetch().CallCount())
	}
}

func TestClipboardClearedByReset(t *testing.T) {
	env, err := NewDetached(WithStorage(storage.New()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer env.Close()

	env.MustRun(`navigator.clipboard.writeText('secret')`)
	if env.clipboard != "secret" {
		t.Fatalf("clipboard = %q", env.clipboard)
	}

	if err := env.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if env.clipboard != "" {
		t.Errorf("clipboard survived reset: %q", env.clipboard)
	}
}
