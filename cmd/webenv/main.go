package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	webenv "github.com/iaalcantara17/webenv"
	"github.com/iaalcantara17/webenv/fixtures"
	"github.com/iaalcantara17/webenv/internal/config"
	"github.com/iaalcantara17/webenv/internal/logging"
)

func main() {
	script := flag.String("script", "", "script file to run in the environment")
	html := flag.String("html", "", "HTML file to mount before the script runs")
	fixturesDir := flag.String("fixtures", "", "fixture directory served during the run")
	serve := flag.Bool("serve", false, "serve fixtures until interrupted instead of running a script")
	addr := flag.String("addr", "", "fixtures listen address as host:port (default 127.0.0.1:0)")
	dev := flag.Bool("dev", false, "development logging")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *dev {
		cfg.Logging.Level, cfg.Logging.Development = "debug", true
	}
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad LOG_LEVEL %q: %v\n", cfg.Logging.Level, err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	switch {
	case *serve:
		os.Exit(runServe(log, cfg, *fixturesDir, *addr))
	case *script != "":
		os.Exit(runScript(log, *script, *html, *fixturesDir))
	default:
		fmt.Fprintln(os.Stderr, "usage: webenv -script file.js [-html page.html] [-fixtures dir]")
		fmt.Fprintln(os.Stderr, "       webenv -serve -fixtures dir [-addr host:port]")
		flag.PrintDefaults()
		os.Exit(2)
	}
}

// runServe loads a fixture directory and serves it until SIGINT or
// SIGTERM arrives.
func runServe(log *logging.Logger, cfg *config.Config, dir, addr string) int {
	reg := fixtures.NewRegistry()
	if dir != "" {
		n, err := reg.LoadDir(dir, "**/*")
		if err != nil {
			log.Error("load fixtures", zap.Error(err))
			return 1
		}
		log.Info("fixtures loaded", zap.Int("count", n), zap.String("dir", dir))
	}

	if addr != "" {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			log.Error("bad -addr value", zap.String("addr", addr), zap.Error(err))
			return 2
		}
		cfg.Fixtures.Host, cfg.Fixtures.Port = host, port
	}

	srv := fixtures.New(reg, fixtures.WithConfig(cfg), fixtures.WithLogger(log))
	if err := srv.Start(); err != nil {
		log.Error("start fixtures server", zap.Error(err))
		return 1
	}
	fmt.Println(srv.URL())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	if err := srv.Close(); err != nil {
		log.Error("shutdown failed", zap.Error(err))
		return 1
	}
	return 0
}

// runScript builds a detached environment, optionally mounts HTML and
// serves fixtures beside it, runs the script to completion, and prints
// captured console output.
func runScript(log *logging.Logger, scriptPath, htmlPath, fixturesDir string) int {
	src, err := os.ReadFile(scriptPath)
	if err != nil {
		log.Error("read script", zap.Error(err))
		return 1
	}

	env, err := webenv.NewDetached(webenv.WithLogger(log))
	if err != nil {
		log.Error("create environment", zap.Error(err))
		return 1
	}
	defer env.Close()

	if fixturesDir != "" {
		reg := fixtures.NewRegistry()
		n, err := reg.LoadDir(fixturesDir, "**/*")
		if err != nil {
			log.Error("load fixtures", zap.Error(err))
			return 1
		}
		srv := fixtures.New(reg, fixtures.WithLogger(log))
		if err := srv.Start(); err != nil {
			log.Error("start fixtures server", zap.Error(err))
			return 1
		}
		defer srv.Close()

		// Scripts reach the server through passthrough; the base URL is
		// handed to them as a global.
		env.Fetch().Passthrough(nil)
		if err := env.StubGlobal("FIXTURES_URL", srv.URL()); err != nil {
			log.Error("publish fixtures URL", zap.Error(err))
			return 1
		}
		log.Info("fixtures served", zap.Int("count", n), zap.String("url", srv.URL()))
	}

	if htmlPath != "" {
		markup, err := os.ReadFile(htmlPath)
		if err != nil {
			log.Error("read html", zap.Error(err))
			return 1
		}
		if _, err := env.Mount(string(markup)); err != nil {
			log.Error("mount html", zap.Error(err))
			return 1
		}
	}

	value, runErr := env.AwaitScript(context.Background(), string(src))

	for _, entry := range env.ConsoleLog() {
		fmt.Printf("[%s] %s\n", entry.Level, entry.Message)
	}

	if runErr != nil {
		log.Error("script failed", zap.Error(runErr))
		return 1
	}
	if value != nil {
		fmt.Println(value)
	}
	return 0
}
