package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/olivier-w/holoforge/internal/config"
	"github.com/olivier-w/holoforge/internal/errors"
)

// cli holds the state shared by all commands. setup fills cfg and logger
// before any command runs.
type cli struct {
	configPath string
	verbose    bool
	logFile    string
	flags      overrides

	stdout io.Writer
	stderr io.Writer

	cfg    config.Config
	logger *log.Logger
	logOut io.Closer
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{
		stdout: stdout,
		stderr: stderr,
		cfg:    config.Default(),
		logger: log.New(io.Discard),
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "holoforge",
		Short: "Glowing wireframe shapes with a particle aura, in the terminal",
		Long: `holoforge cycles through seven wireframe shapes, dissolving each into the
next, with particles flowing along the strands. Hold a mouse button over the
canvas to push the particles around.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.runTUI,
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "TOML file overriding the default tunables")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&c.logFile, "log-file", "", "append logs to this file")
	c.flags.register(pf)

	root.AddCommand(c.shapesCommand())
	root.AddCommand(c.simulateCommand())
	return root
}

// setup resolves the configuration (defaults, then the TOML file, then
// flags) and opens the log.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return err
		}
	}
	c.flags.apply(cmd.Flags(), &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	// The terminal frontend owns the screen, so it only logs to a file.
	var w io.Writer = io.Discard
	switch {
	case c.logFile != "":
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(errors.CodeConfiguration, err, "open log file")
		}
		c.logOut = f
		w = f
	case cmd != cmd.Root():
		w = c.stderr
	}
	level := log.InfoLevel
	if c.verbose {
		level = log.DebugLevel
	}
	c.logger = newLogger(w, level, uuid.NewString())
	c.logger.Debug("config resolved", "file", c.configPath, "samples", cfg.SampleCount, "particles", cfg.ParticleCount, "order", cfg.Order, "style", cfg.TransitionStyle)
	return nil
}

func (c *cli) close() {
	if c.logOut != nil {
		c.logOut.Close()
		c.logOut = nil
	}
}

// overrides are the tunables that can also be set from the command line.
type overrides struct {
	samples   int
	particles int
	order     string
	style     string
	falloff   string
	seed      uint64
	hold      float64
	dissolve  float64
}

func (o *overrides) register(fs *pflag.FlagSet) {
	d := config.Default()
	fs.IntVar(&o.samples, "samples", d.SampleCount, "points per shape")
	fs.IntVar(&o.particles, "particles", d.ParticleCount, "number of particles")
	fs.StringVar(&o.order, "order", d.Order, "shape order: sequential or shuffle")
	fs.StringVar(&o.style, "style", d.TransitionStyle, "transition style: scatter or morph")
	fs.StringVar(&o.falloff, "falloff", d.ForceFalloff, "hand force falloff: linear or inverse")
	fs.Uint64Var(&o.seed, "seed", d.Seed, "random seed")
	fs.Float64Var(&o.hold, "hold", d.ShapeHoldTime, "seconds each shape is held")
	fs.Float64Var(&o.dissolve, "dissolve", d.DissolveTime, "seconds per transition")
}

// apply copies the flags set on the command line onto cfg.
func (o *overrides) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("samples") {
		cfg.SampleCount = o.samples
	}
	if fs.Changed("particles") {
		cfg.ParticleCount = o.particles
	}
	if fs.Changed("order") {
		cfg.Order = o.order
	}
	if fs.Changed("style") {
		cfg.TransitionStyle = o.style
	}
	if fs.Changed("falloff") {
		cfg.ForceFalloff = o.falloff
	}
	if fs.Changed("seed") {
		cfg.Seed = o.seed
	}
	if fs.Changed("hold") {
		cfg.ShapeHoldTime = o.hold
	}
	if fs.Changed("dissolve") {
		cfg.DissolveTime = o.dissolve
	}
}
