// Package config reads match settings from the environment.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Darkprix/Memora-Duel/internal/ai"
	"github.com/Darkprix/Memora-Duel/internal/content"
	"github.com/Darkprix/Memora-Duel/internal/duel"
	"github.com/Darkprix/Memora-Duel/internal/game"
	"github.com/Darkprix/Memora-Duel/internal/log"
	"github.com/Darkprix/Memora-Duel/internal/sched"
)

// Settings holds every tunable of a match.
type Settings struct {
	InitialHealth int     `env:"MEMORA_INITIAL_HEALTH" envDefault:"5"`
	HandSize      int     `env:"MEMORA_HAND_SIZE"      envDefault:"8"`
	AIAccuracy    float64 `env:"MEMORA_AI_ACCURACY"    envDefault:"0.9"`
	Seed          int64   `env:"MEMORA_SEED"           envDefault:"0"`
	ContentFile   string  `env:"MEMORA_CONTENT_FILE"`

	AIThinkDelay   time.Duration `env:"MEMORA_AI_THINK_DELAY"   envDefault:"1.5s"`
	AIDefenseDelay time.Duration `env:"MEMORA_AI_DEFENSE_DELAY" envDefault:"1s"`
	CorrectHold    time.Duration `env:"MEMORA_CORRECT_HOLD"     envDefault:"1s"`
	AICorrectHold  time.Duration `env:"MEMORA_AI_CORRECT_HOLD"  envDefault:"1.5s"`
	RevealDelay    time.Duration `env:"MEMORA_REVEAL_DELAY"     envDefault:"1.4s"`
	RevealHold     time.Duration `env:"MEMORA_REVEAL_HOLD"      envDefault:"2s"`
}

// Load parses settings from the process environment.
func Load() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, s.Validate()
}

// LoadFrom parses settings from an explicit environment map.
func LoadFrom(environ map[string]string) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: environ}); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, s.Validate()
}

// RegisterFlags binds command-line overrides to s. Current values become
// the flag defaults.
func (s *Settings) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&s.InitialHealth, "health", s.InitialHealth, "starting health for both sides")
	fs.IntVar(&s.HandSize, "hand", s.HandSize, "cards per hand (capped at the set size)")
	fs.Float64Var(&s.AIAccuracy, "accuracy", s.AIAccuracy, "chance the opponent answers correctly")
	fs.Int64Var(&s.Seed, "seed", s.Seed, "random seed (0 = time-based)")
	fs.StringVar(&s.ContentFile, "content", s.ContentFile, "path to a YAML pair-set file (default: built-in sets)")
	fs.DurationVar(&s.AIThinkDelay, "think", s.AIThinkDelay, "opponent thinking delay")
}

// Validate rejects settings no match can be played with.
func (s Settings) Validate() error {
	switch {
	case s.InitialHealth <= 0:
		return fmt.Errorf("%w: initial health %d", game.ErrInvalidConfiguration, s.InitialHealth)
	case s.HandSize <= 0:
		return fmt.Errorf("%w: hand size %d", game.ErrInvalidConfiguration, s.HandSize)
	case s.AIAccuracy < 0 || s.AIAccuracy > 1:
		return fmt.Errorf("%w: ai accuracy %v outside [0, 1]", game.ErrInvalidConfiguration, s.AIAccuracy)
	}
	for name, d := range map[string]time.Duration{
		"think delay":     s.AIThinkDelay,
		"defense delay":   s.AIDefenseDelay,
		"correct hold":    s.CorrectHold,
		"ai correct hold": s.AICorrectHold,
		"reveal delay":    s.RevealDelay,
		"reveal hold":     s.RevealHold,
	} {
		if d < 0 {
			return fmt.Errorf("%w: negative %s %s", game.ErrInvalidConfiguration, name, d)
		}
	}
	return nil
}

// Timing returns the session pacing.
func (s Settings) Timing() duel.Timing {
	return duel.Timing{
		AIThink:       s.AIThinkDelay,
		AIDefense:     s.AIDefenseDelay,
		CorrectHold:   s.CorrectHold,
		AICorrectHold: s.AICorrectHold,
		RevealDelay:   s.RevealDelay,
		RevealHold:    s.RevealHold,
	}
}

// Deal returns the deal for set, capping the hand at the set size.
func (s Settings) Deal(set content.Set) game.DealConfig {
	return game.DealConfig{
		Pairs:         set.Pairs,
		HandSize:      min(s.HandSize, len(set.Pairs)),
		InitialHealth: s.InitialHealth,
	}
}

// Library loads the configured content.
func (s Settings) Library() (*content.Library, error) {
	return content.Load(s.ContentFile)
}

// NewSession builds a session wired to these settings.
func (s Settings) NewSession(logger log.EventLogger, scheduler *sched.Scheduler) *duel.Session {
	rng := game.NewRandom(s.Seed)
	return duel.NewSession(duel.Config{
		Timing:    s.Timing(),
		Logger:    logger,
		Random:    rng,
		Brain:     ai.NewPolicy(s.AIAccuracy, rng),
		Scheduler: scheduler,
	})
}
