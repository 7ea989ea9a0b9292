package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agentstation/pmfscale"
	"github.com/agentstation/pmfscale/pkg/logging"
	"github.com/agentstation/pmfscale/pkg/save"
)

func newTestApp(t *testing.T, config *Config) *App {
	t.Helper()
	opts := []Option{WithLogger(logging.NewNopLogger())}
	if config != nil {
		opts = append(opts, WithConfig(config))
	}
	app, err := New("1.0.0", "abc123", "2024-01-01", "test", opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return app
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app := newTestApp(t, nil)

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
}

// TestApp_InvalidOptions verifies nil options are rejected.
func TestApp_InvalidOptions(t *testing.T) {
	if _, err := New("1.0.0", "", "", "", WithConfig(nil)); err == nil {
		t.Error("New() should reject a nil config")
	}
	if _, err := New("1.0.0", "", "", "", WithLogger(nil)); err == nil {
		t.Error("New() should reject a nil logger")
	}
}

// TestApp_Client_ThreadSafe verifies concurrent Client() calls share one instance.
func TestApp_Client_ThreadSafe(t *testing.T) {
	app := newTestApp(t, nil)

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]pmfscale.Client, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = app.Client()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d: Client() failed: %v", i, err)
		}
	}
	for i, c := range results[1:] {
		if c != results[0] {
			t.Errorf("goroutine %d got a different client instance", i+1)
		}
	}
}

// TestApp_WithClient verifies an injected client is returned as is.
func TestApp_WithClient(t *testing.T) {
	c, err := pmfscale.New()
	if err != nil {
		t.Fatal(err)
	}
	app, err := New("1.0.0", "", "", "", WithLogger(logging.NewNopLogger()), WithClient(c))
	if err != nil {
		t.Fatal(err)
	}
	got, err := app.Client()
	if err != nil || got != c {
		t.Errorf("Client() = %v, %v; want injected client", got, err)
	}
}

// TestApp_SaveOptions verifies configuration maps onto save options.
func TestApp_SaveOptions(t *testing.T) {
	app := newTestApp(t, &Config{OutputDir: "runs", WriteReport: true, SummaryFormat: "json"})

	o := save.Defaults().Apply(app.SaveOptions()...)
	if o.Dir() != "runs" || !o.Report() || o.Summary() != save.FormatJSON {
		t.Errorf("save options not applied: dir=%q report=%v summary=%v", o.Dir(), o.Report(), o.Summary())
	}

	app = newTestApp(t, &Config{SummaryFormat: "xml"})
	o = save.Defaults().Apply(app.SaveOptions()...)
	if o.Dir() != "." || o.Summary() != save.FormatNone {
		t.Errorf("unknown summary format should fall back to defaults: dir=%q summary=%v", o.Dir(), o.Summary())
	}
}

// TestApp_VersionCommand verifies the version output.
func TestApp_VersionCommand(t *testing.T) {
	app := newTestApp(t, &Config{})

	var buf bytes.Buffer
	root := app.createRootCommand()
	root.SetOut(&buf)
	root.SetArgs([]string{"version", "-v"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "pmfscale 1.0.0\n") {
		t.Errorf("unexpected version output: %q", out)
	}
	if !strings.Contains(out, "commit:   abc123") {
		t.Errorf("verbose version output missing commit: %q", out)
	}
}

// TestApp_InspectCommand runs a subcommand through the root command.
func TestApp_InspectCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ads.csv")
	if err := os.WriteFile(path, []byte("GEOGRAPHY,SEASON,TV_PMF\nA,S1 2024,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	app := newTestApp(t, &Config{LogFormat: "json", LogOutput: "discard"})

	var buf bytes.Buffer
	root := app.createRootCommand()
	root.SetOut(&buf)
	root.SetArgs([]string{"inspect", path, "-o", "yaml", "--log-level", "error"})
	if err := root.Execute(); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	if app.OutputFormat() != "yaml" {
		t.Errorf("OutputFormat() = %q, want yaml", app.OutputFormat())
	}
	if app.Config().LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", app.Config().LogLevel)
	}
	if got := logging.Default().GetLevel(); got != zerolog.ErrorLevel {
		t.Errorf("default logger level = %v, want error", got)
	}
	if !strings.Contains(buf.String(), "role: fact") {
		t.Errorf("unexpected inspect output: %q", buf.String())
	}
}
