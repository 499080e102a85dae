// Package config holds the startup tunables of the animation. Values start at
// Default, are overlaid by an optional TOML file and then by command-line
// flags, and are read-only once the engine is running.
package config

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/olivier-w/holoforge/internal/errors"
	"github.com/olivier-w/holoforge/internal/particle"
	"github.com/olivier-w/holoforge/internal/shape"
	"github.com/olivier-w/holoforge/internal/transition"
)

// Config is the full set of tunables. Times are in seconds, distances in
// scene units.
type Config struct {
	SampleCount int `toml:"sample_count"`

	ParticleCount     int     `toml:"particle_count"`
	ParticleSpeed     float64 `toml:"particle_speed"`
	OrbitRadius       float64 `toml:"orbit_radius"`
	OrbitAngularSpeed float64 `toml:"orbit_angular_speed"`
	TrailLength       int     `toml:"trail_length"`

	ShapeHoldTime   float64 `toml:"shape_hold_time"`
	DissolveTime    float64 `toml:"dissolve_time"`
	ScatterDistance float64 `toml:"scatter_distance"`
	TransitionStyle string  `toml:"transition_style"`
	Order           string  `toml:"order"`
	Seed            uint64  `toml:"seed"`

	HandForceStrength float64 `toml:"hand_force_strength"`
	HandForceRadius   float64 `toml:"hand_force_radius"`
	ForceFalloff      string  `toml:"force_falloff"`
	ForceSoftening    float64 `toml:"force_softening"`
	BiasDecay         float64 `toml:"bias_decay"`
	MaxBias           float64 `toml:"max_bias"`

	GestureHoldTime float64 `toml:"gesture_hold_time"`
	SkipCooldown    float64 `toml:"skip_cooldown"`

	AutoRotateSpeed float64 `toml:"auto_rotate_speed"`
	FrameRate       int     `toml:"frame_rate"`
	MaxFrameDelta   float64 `toml:"max_frame_delta"`
	CameraDistance  float64 `toml:"camera_distance"`
	FOV             float64 `toml:"fov"`
	GlowPasses      int     `toml:"glow_passes"`
}

// Default returns the stock tunables.
func Default() Config {
	return Config{
		SampleCount: 1200,

		ParticleCount:     300,
		ParticleSpeed:     30,
		OrbitRadius:       15,
		OrbitAngularSpeed: 2,
		TrailLength:       5,

		ShapeHoldTime:   8,
		DissolveTime:    1.5,
		ScatterDistance: 100,
		TransitionStyle: "scatter",
		Order:           "sequential",
		Seed:            1,

		HandForceStrength: 5,
		HandForceRadius:   100,
		ForceFalloff:      "linear",
		ForceSoftening:    10,
		BiasDecay:         3,
		MaxBias:           60,

		GestureHoldTime: 0.3,
		SkipCooldown:    2,

		AutoRotateSpeed: 0.3,
		FrameRate:       60,
		MaxFrameDelta:   0.1,
		CameraDistance:  400,
		FOV:             45,
		GlowPasses:      3,
	}
}

// Load overlays the TOML file at path onto the defaults. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, errors.Wrap(errors.CodeConfiguration, err, "read %s", path)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		sort.Strings(names)
		return c, errors.New(errors.CodeConfiguration, "%s: unknown keys: %s", path, strings.Join(names, ", "))
	}
	return c, nil
}

// Validate checks every tunable and reports the first problem found.
func (c Config) Validate() error {
	minSamples := 0
	for _, id := range shape.All() {
		minSamples = max(minSamples, shape.MinSamples(id))
	}
	checks := []struct {
		ok   bool
		what string
	}{
		{c.SampleCount >= minSamples, "sample_count must be at least " + strconv.Itoa(minSamples)},
		{c.ParticleCount >= 0, "particle_count must not be negative"},
		{c.ParticleSpeed >= 0, "particle_speed must not be negative"},
		{c.OrbitRadius >= 0, "orbit_radius must not be negative"},
		{c.TrailLength >= 0, "trail_length must not be negative"},
		{c.ShapeHoldTime > 0, "shape_hold_time must be positive"},
		{c.DissolveTime > 0, "dissolve_time must be positive"},
		{c.ScatterDistance >= 0, "scatter_distance must not be negative"},
		{c.HandForceStrength >= 0, "hand_force_strength must not be negative"},
		{c.HandForceRadius > 0, "hand_force_radius must be positive"},
		{c.ForceSoftening > 0, "force_softening must be positive"},
		{c.BiasDecay >= 0, "bias_decay must not be negative"},
		{c.MaxBias > 0, "max_bias must be positive"},
		{c.GestureHoldTime >= 0, "gesture_hold_time must not be negative"},
		{c.SkipCooldown >= 0, "skip_cooldown must not be negative"},
		{c.FrameRate > 0 && c.FrameRate <= 240, "frame_rate must be between 1 and 240"},
		{c.MaxFrameDelta > 0, "max_frame_delta must be positive"},
		{c.CameraDistance > 0, "camera_distance must be positive"},
		{c.FOV > 0 && c.FOV < 180, "fov must be between 0 and 180 degrees"},
		{c.GlowPasses >= 0 && c.GlowPasses <= 5, "glow_passes must be between 0 and 5"},
	}
	for _, ch := range checks {
		if !ch.ok {
			return errors.New(errors.CodeConfiguration, "%s", ch.what)
		}
	}
	if _, err := particle.ParseFalloff(c.ForceFalloff); err != nil {
		return err
	}
	if _, err := transition.ParseOrder(c.Order); err != nil {
		return err
	}
	if _, err := transition.ParseStyle(c.TransitionStyle); err != nil {
		return err
	}
	return nil
}

// Particle returns the particle system tunables. c must be valid.
func (c Config) Particle() particle.Config {
	falloff, _ := particle.ParseFalloff(c.ForceFalloff)
	return particle.Config{
		Count:             c.ParticleCount,
		Speed:             c.ParticleSpeed,
		OrbitRadius:       c.OrbitRadius,
		OrbitAngularSpeed: c.OrbitAngularSpeed,
		TrailLength:       c.TrailLength,
		ForceStrength:     c.HandForceStrength,
		ForceRadius:       c.HandForceRadius,
		Falloff:           falloff,
		Softening:         c.ForceSoftening,
		BiasDecay:         c.BiasDecay,
		MaxBias:           c.MaxBias,
		Seed:              c.Seed,
	}
}

// Transition returns the shape cycle tunables. c must be valid.
func (c Config) Transition() transition.Config {
	order, _ := transition.ParseOrder(c.Order)
	style, _ := transition.ParseStyle(c.TransitionStyle)
	return transition.Config{
		HoldTime:        c.ShapeHoldTime,
		DissolveTime:    c.DissolveTime,
		ScatterDistance: c.ScatterDistance,
		Order:           order,
		Style:           style,
		Seed:            c.Seed,
	}
}

// GestureHold returns the time a gesture must be held to take effect.
func (c Config) GestureHold() time.Duration { return seconds(c.GestureHoldTime) }

// SkipCooldownDuration returns the minimum time between gesture skips.
func (c Config) SkipCooldownDuration() time.Duration { return seconds(c.SkipCooldown) }

// FrameInterval returns the time between frames.
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(max(c.FrameRate, 1))
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
