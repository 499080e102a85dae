package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/olivier-w/holoforge/internal/config"
	"github.com/olivier-w/holoforge/internal/errors"
	"github.com/olivier-w/holoforge/internal/shape"
	"github.com/olivier-w/holoforge/internal/transition"
)

func testConfig() config.Config {
	c := config.Default()
	c.SampleCount = 300
	c.ParticleCount = 40
	return c
}

func execute(t *testing.T, args ...string) (*cli, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := newCLI(&stdout, &stderr)
	t.Cleanup(c.close)
	root := c.rootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return c, stdout.String(), err
}

func TestSimulateCycle(t *testing.T) {
	r, err := simulate(context.Background(), testConfig(), nil, 600, 60)
	if err != nil {
		t.Fatal(err)
	}
	if r.Clock < 9.999 || r.Clock > 10.001 {
		t.Fatalf("expected 10s simulated, got %v", r.Clock)
	}
	if r.Transitions != 1 {
		t.Fatalf("expected 1 transition, got %d", r.Transitions)
	}
	if diff := cmp.Diff([]shape.ID{shape.DNAHelix, shape.TorusKnot}, r.Visited); diff != "" {
		t.Fatalf("visited mismatch (-want +got):\n%s", diff)
	}
	if r.Phase != transition.Holding {
		t.Fatalf("expected holding after reform, got %v", r.Phase)
	}
	if r.Particles != 40 || r.Spread <= 0 {
		t.Fatalf("expected 40 particles with a spread, got %d %v", r.Particles, r.Spread)
	}
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := simulate(ctx, testConfig(), nil, 10, 60); err == nil {
		t.Fatal("expected cancelled context to stop the run")
	}
}

func TestSimulateCommand(t *testing.T) {
	_, out, err := execute(t, "simulate", "--samples", "300", "--particles", "10", "--frames", "120")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "simulated 120 frames at 60 fps") {
		t.Fatalf("expected summary, got %q", out)
	}
	if !strings.Contains(out, "DNA Double Helix") {
		t.Fatalf("expected starting shape in summary, got %q", out)
	}
}

func TestShapesCommand(t *testing.T) {
	_, out, err := execute(t, "shapes", "--samples", "300")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range shape.All() {
		if !strings.Contains(out, id.String()) {
			t.Fatalf("expected %s in table, got\n%s", id, out)
		}
	}
}

func TestConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holoforge.toml")
	if err := os.WriteFile(path, []byte("particle_count = 10\nseed = 4\nsample_count = 300\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, _, err := execute(t, "simulate", "--config", path, "--particles", "20", "--frames", "1")
	if err != nil {
		t.Fatal(err)
	}
	if c.cfg.ParticleCount != 20 {
		t.Fatalf("expected flag to win with 20 particles, got %d", c.cfg.ParticleCount)
	}
	if c.cfg.Seed != 4 || c.cfg.SampleCount != 300 {
		t.Fatalf("expected file values seed 4 and 300 samples, got %d %d", c.cfg.Seed, c.cfg.SampleCount)
	}
}

func TestInvalidConfigIsFatal(t *testing.T) {
	_, _, err := execute(t, "shapes", "--samples", "5")
	if !errors.Fatal(err) {
		t.Fatalf("expected fatal configuration error, got %v", err)
	}
	_, _, err = execute(t, "shapes", "--order", "backwards")
	if !errors.Is(err, errors.CodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	c, _, err := execute(t, "simulate", "--samples", "300", "--particles", "5", "--frames", "10", "--log-file", path)
	if err != nil {
		t.Fatal(err)
	}
	c.close()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "engine ready") || !strings.Contains(string(data), "run=") {
		t.Fatalf("expected engine log with run id, got %q", data)
	}
}

func TestStopwatchDone(t *testing.T) {
	var buf bytes.Buffer
	sw := newStopwatch(newLogger(&buf, log.InfoLevel, "r1"))
	sw.done("shapes generated", "samples", 300)

	out := buf.String()
	for _, want := range []string{"shapes generated", "samples=300", "took=", "run=r1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log line, got %q", want, out)
		}
	}

	// A nil logger discards.
	newStopwatch(nil).done("ignored")
}
