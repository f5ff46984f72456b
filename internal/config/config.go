// Package config loads hpquiz settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abhisek/hpquiz/internal/llm"
	"github.com/abhisek/hpquiz/internal/prefetch"
	"github.com/abhisek/hpquiz/internal/questiongen"
	"github.com/abhisek/hpquiz/internal/session"
)

// DBDisabled is the HPQUIZ_DB value that turns off the event log.
const DBDisabled = "off"

// Config is the full process configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// LogMode is "dev" or "prod".
	LogMode string

	// DBPath is the event log location. Empty means the XDG default and
	// DBDisabled means no event log.
	DBPath string

	// MaxRefills bounds concurrent generator calls across all sessions.
	MaxRefills int

	// RevealAnswers includes the correct option id in served questions.
	RevealAnswers bool

	Session     session.Config
	Prefetch    prefetch.Config
	QuestionGen questiongen.Config
	LLM         llm.Config
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		LogMode:     "dev",
		MaxRefills:  prefetch.DefaultMaxConcurrent,
		Session:     session.DefaultConfig(),
		Prefetch:    prefetch.DefaultConfig(),
		QuestionGen: questiongen.DefaultConfig(),
		LLM:         llm.DefaultConfig(),
	}
}

// Load reads the given .env files (".env" when none are named) into the
// process environment, then builds a Config from it. Missing .env files
// are not an error; variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from variables read through getenv. Prefixed
// HPQUIZ_* names take precedence over the bare names.
func FromLookup(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()
	var errs []error

	str := func(dst *string, keys ...string) {
		if v := first(getenv, keys...); v != "" {
			*dst = v
		}
	}
	num := func(dst *int, keys ...string) {
		v := first(getenv, keys...)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not an integer", keys[0], v))
			return
		}
		*dst = n
	}
	flag := func(dst *bool, keys ...string) {
		v := first(getenv, keys...)
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a boolean", keys[0], v))
			return
		}
		*dst = b
	}

	str(&cfg.Addr, "HPQUIZ_ADDR")
	str(&cfg.LogMode, "HPQUIZ_LOG_MODE")
	str(&cfg.DBPath, "HPQUIZ_DB")
	num(&cfg.MaxRefills, "HPQUIZ_MAX_REFILLS")
	flag(&cfg.RevealAnswers, "HPQUIZ_REVEAL_ANSWERS")

	num(&cfg.Prefetch.BatchSize, "HPQUIZ_BATCH_SIZE", "QUESTION_BATCH_SIZE")
	num(&cfg.Prefetch.LowWaterMark, "HPQUIZ_LOW_WATER_MARK")
	flag(&cfg.Prefetch.PrefetchOnStart, "HPQUIZ_PREFETCH_ON_START", "PREFETCH_ON_START")

	num(&cfg.Session.WindowSize, "HPQUIZ_ANSWER_WINDOW", "ANSWER_WINDOW")
	num(&cfg.Session.FallbackBatch, "HPQUIZ_FALLBACK_BATCH")
	num(&cfg.Session.AvoidListSize, "HPQUIZ_AVOID_LIST_SIZE")

	str(&cfg.QuestionGen.Topic, "HPQUIZ_TOPIC")

	cfg.LLM = llm.ConfigFromLookup(getenv)
	cfg.QuestionGen.Timeout = cfg.LLM.Timeout

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges and the LLM provider settings.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("HPQUIZ_ADDR must not be empty")
	case c.LogMode != "dev" && c.LogMode != "prod":
		return fmt.Errorf("HPQUIZ_LOG_MODE must be dev or prod, got %q", c.LogMode)
	case c.Prefetch.BatchSize < 1:
		return fmt.Errorf("batch size must be at least 1, got %d", c.Prefetch.BatchSize)
	case c.Session.WindowSize < 1:
		return fmt.Errorf("answer window must be at least 1, got %d", c.Session.WindowSize)
	case c.Prefetch.LowWaterMark < 0:
		return fmt.Errorf("low water mark must not be negative, got %d", c.Prefetch.LowWaterMark)
	case c.Session.AvoidListSize < 1:
		return fmt.Errorf("avoid list size must be at least 1, got %d", c.Session.AvoidListSize)
	case c.MaxRefills < 1:
		return fmt.Errorf("max refills must be at least 1, got %d", c.MaxRefills)
	case strings.TrimSpace(c.QuestionGen.Topic) == "":
		return fmt.Errorf("HPQUIZ_TOPIC must not be empty")
	}
	return c.LLM.Validate()
}

// EventLogEnabled reports whether the event log should be opened.
func (c Config) EventLogEnabled() bool {
	return c.DBPath != DBDisabled
}

func first(getenv func(string) string, keys ...string) string {
	for _, k := range keys {
		if v := getenv(k); v != "" {
			return v
		}
	}
	return ""
}
