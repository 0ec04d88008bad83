// Package config provides environment helpers and the game tuning model.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvBool parses a boolean environment variable, returning fallback when
// it is unset or malformed.
func GetEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

// LoadEnvFile loads variables from the given .env files (default ".env").
// Files that don't exist are skipped; variables already set in the
// environment win over file values.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

// GameFromEnv loads tuning from the YAML file named by CELLBREAK_TUNING when
// set, then applies CELLBREAK_VARIANT on top.
func GameFromEnv() (Game, error) {
	g := Default()
	if path := GetEnv("CELLBREAK_TUNING", ""); path != "" {
		loaded, err := LoadGame(path)
		if err != nil {
			return Game{}, err
		}
		g = loaded
	}
	if v, ok := os.LookupEnv("CELLBREAK_VARIANT"); ok {
		g = g.WithVariant(ParseVariant(v))
	}
	return g, nil
}
