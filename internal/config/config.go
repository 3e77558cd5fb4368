// Package config reads environment-backed settings with defaults. Values
// come from the process environment, optionally seeded from a .env file
// loaded by the command at startup.
package config

import (
	"os"
	"strconv"
)

// Get returns the value of the environment variable key, or def when the
// variable is unset or empty.
func Get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetInt returns the integer value of the environment variable key, or def
// when the variable is unset, empty, or not an integer.
func GetInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetFloat returns the float value of the environment variable key, or def
// when the variable is unset, empty, or not a number.
func GetFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
