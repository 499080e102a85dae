package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/olivier-w/holoforge/internal/config"
	"github.com/olivier-w/holoforge/internal/engine"
	"github.com/olivier-w/holoforge/internal/geom"
	"github.com/olivier-w/holoforge/internal/shape"
	"github.com/olivier-w/holoforge/internal/transition"
)

func (c *cli) shapesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List the shapes with their sampling statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := shapeTable(c.cfg.SampleCount, c.logger.WithPrefix("shape"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.stdout, out)
			return nil
		},
	}
}

// shapeTable renders one row per shape at t=0.
func shapeTable(samples int, logger *log.Logger) (string, error) {
	lib := shape.NewLibrary(samples, logger)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "SHAPE", "SUBPATHS", "POINTS", "LENGTH", "WORST CV", "MIN SAMPLES", "ANIMATED")
	for _, id := range shape.All() {
		g, err := lib.Geometry(id, 0)
		if err != nil {
			return "", err
		}
		worst := 0.0
		for s := range g.NumSubpaths() {
			worst = max(worst, g.Uniformity(s))
		}
		animated := ""
		if id.Animated() {
			animated = "yes"
		}
		t.Row(
			strconv.Itoa(int(id)+1),
			id.String(),
			strconv.Itoa(g.NumSubpaths()),
			strconv.Itoa(g.Len()),
			fmt.Sprintf("%.1f", g.Length()),
			fmt.Sprintf("%.3f", worst),
			strconv.Itoa(shape.MinSamples(id)),
			animated,
		)
	}
	return t.Render(), nil
}

func (c *cli) simulateCommand() *cobra.Command {
	var frames, fps int
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the engine without a terminal frontend and report the shape cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fps <= 0 {
				fps = c.cfg.FrameRate
			}
			r, err := simulate(cmd.Context(), c.cfg, c.logger, frames, fps)
			if err != nil {
				return err
			}
			r.write(c.stdout)
			return nil
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 600, "number of frames to run")
	cmd.Flags().IntVar(&fps, "fps", 0, "simulated frame rate (default: frame_rate)")
	return cmd
}

// simReport summarises a headless run.
type simReport struct {
	Frames      int
	FPS         int
	Clock       float64
	Transitions int
	Visited     []shape.ID
	Phase       transition.Phase
	Particles   int
	// Spread is the mean particle distance from the active shape's centroid.
	Spread float64
}

func (r simReport) write(w io.Writer) {
	names := make([]string, len(r.Visited))
	for i, id := range r.Visited {
		names[i] = id.String()
	}
	fmt.Fprintf(w, "simulated %d frames at %d fps (%.2fs)\n", r.Frames, r.FPS, r.Clock)
	fmt.Fprintf(w, "transitions: %d\n", r.Transitions)
	fmt.Fprintf(w, "shapes:      %s\n", strings.Join(names, " → "))
	fmt.Fprintf(w, "final phase: %s\n", r.Phase)
	fmt.Fprintf(w, "particles:   %d (mean spread %.1f)\n", r.Particles, r.Spread)
}

// simulate steps a fresh engine frames times at a fixed rate.
func simulate(ctx context.Context, cfg config.Config, logger *log.Logger, frames, fps int) (simReport, error) {
	p := newStopwatch(logger)
	e, err := engine.New(cfg, nil, logger)
	if err != nil {
		return simReport{}, err
	}
	dt := 1 / float64(fps)
	r := simReport{Frames: frames, FPS: fps, Visited: []shape.ID{e.State().Current}}

	var f engine.Frame
	for i := range frames {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return simReport{}, err
			}
		}
		f = e.Step(dt)
		if f.Current != r.Visited[len(r.Visited)-1] {
			r.Visited = append(r.Visited, f.Current)
		}
	}

	s := e.State()
	r.Clock = s.Clock
	r.Transitions = s.Transitions
	r.Phase = s.Phase
	r.Particles = len(f.Particles)
	if f.Geometry != nil && len(f.Particles) > 0 {
		c := geom.Centroid(f.Geometry.Points())
		for _, pt := range f.Particles {
			r.Spread += pt.Position.Distance(c)
		}
		r.Spread /= float64(len(f.Particles))
	}
	p.done("simulation finished", "frames", frames, "transitions", r.Transitions)
	return r, nil
}
