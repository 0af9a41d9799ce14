// Package config provides centralized configuration management.
// All stagehand environment lookups live here.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// StagehandEnv holds all stagehand environment variables.
type StagehandEnv struct {
	// DBPath is the runs database file (STAGEHAND_DB_PATH)
	DBPath string

	// Pretty enables colored terminal output (STAGEHAND_PRETTY, "0" disables)
	Pretty bool

	// MaxExtraStages overrides the staffing-search stage bound
	// (STAGEHAND_MAX_EXTRA_STAGES, 0 means planner default)
	MaxExtraStages int

	// SessionID identifies this process in logs (STAGEHAND_SESSION_ID,
	// generated when unset)
	SessionID string
}

var (
	env     *StagehandEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *StagehandEnv {
	envOnce.Do(func() {
		env = &StagehandEnv{
			DBPath:         getEnvDefault("STAGEHAND_DB_PATH", filepath.Join(GetPaths().Data, "runs.db")),
			Pretty:         os.Getenv("STAGEHAND_PRETTY") != "0",
			MaxExtraStages: getEnvInt("STAGEHAND_MAX_EXTRA_STAGES"),
			SessionID:      getEnvDefault("STAGEHAND_SESSION_ID", uuid.NewString()),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
	pathsOnce = sync.Once{}
	paths = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Paths holds standard stagehand directory paths.
type Paths struct {
	// Home is the stagehand home directory (~/.stagehand)
	Home string

	// Data is the data directory (~/.stagehand/data)
	Data string

	// Scenarios is the scenario library directory (~/.stagehand/scenarios)
	Scenarios string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base := filepath.Join(home, ".stagehand")

		paths = &Paths{
			Home:      base,
			Data:      filepath.Join(base, "data"),
			Scenarios: filepath.Join(base, "scenarios"),
		}
	})
	return paths
}

// Path returns a path under the stagehand home directory.
func Path(parts ...string) string {
	p := GetPaths()
	allParts := append([]string{p.Home}, parts...)
	return filepath.Join(allParts...)
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
