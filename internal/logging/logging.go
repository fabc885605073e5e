// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package logging wraps logrus behind a small facade so call sites never
// import logrus directly and a global logger can be installed once at
// process startup.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Fields is a structured logging field set.
type Fields = logrus.Fields

// Config controls the global logger's behavior.
type Config struct {
	Level     string // trace, debug, info, warn, error
	Formatter string // json, text
	Output    io.Writer
}

// DefaultConfig mirrors the teacher's conf.DefaultConfig(): info level,
// text formatter, stderr output.
func DefaultConfig() Config {
	return Config{Level: "info", Formatter: "text", Output: os.Stderr}
}

var (
	mu     sync.RWMutex
	global *logrus.Logger
)

func init() {
	global = build(DefaultConfig())
}

// Init installs the process-wide global logger. Call once from main().
func Init(cfg Config) error {
	l := build(cfg)
	mu.Lock()
	global = l
	mu.Unlock()
	return nil
}

func build(cfg Config) *logrus.Logger {
	l := logrus.New()
	if cfg.Output != nil {
		l.SetOutput(cfg.Output)
	} else {
		l.SetOutput(os.Stderr)
	}
	if cfg.Formatter == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// L returns the global logger.
func L() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Component returns an entry pre-tagged with component=name, the pattern
// every subsystem uses to identify its log lines.
func Component(name string) *logrus.Entry {
	return L().WithField("component", name)
}
