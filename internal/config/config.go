// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package config replaces the process-wide config singleton the original
// Python components used (one pydantic BaseSettings class per component,
// instantiated lazily behind a package-level Optional) with a
// constructed-once value threaded through component constructors.
//
// Every component's configuration is read from the environment under a
// fixed prefix (CONTROLLER_, AGENT_, CSMTS_, ...). A missing or invalid
// key is a fatal startup error — see MustLoad.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader binds environment variables under Prefix into a typed struct.
type Loader struct {
	v      *viper.Viper
	prefix string
}

// NewLoader constructs a loader for the given prefix, e.g. "CONTROLLER_".
func NewLoader(prefix string) *Loader {
	v := viper.New()
	v.SetEnvPrefix(strings.TrimSuffix(prefix, "_"))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return &Loader{v: v, prefix: prefix}
}

func (l *Loader) String(key string) string   { return l.v.GetString(key) }
func (l *Loader) Int(key string) int         { return l.v.GetInt(key) }
func (l *Loader) Bool(key string) bool       { return l.v.GetBool(key) }
func (l *Loader) Float(key string) float64   { return l.v.GetFloat64(key) }
func (l *Loader) Strings(key string) []string {
	return l.v.GetStringSlice(key)
}

// SetDefault pre-seeds an optional key's default value.
func (l *Loader) SetDefault(key string, value any) { l.v.SetDefault(key, value) }

// RequireAll returns an error naming every key in keys that viper could not
// resolve to a non-empty value. Callers should treat a non-nil return as a
// fatal configuration error (exit 1), per spec.md §7 taxonomy.
func (l *Loader) RequireAll(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if l.v.GetString(k) == "" {
			missing = append(missing, l.prefix+strings.ToUpper(k))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
