package config

import (
	"os"
	"path/filepath"
)

const (
	AppName      = "almanac"
	DbName       = "almanac.db"
	SettingsName = "config.yaml"

	dataDirEnvVar = "ALMANAC_DATA_DIR"
	dataDirPerms  = 0755
)

// DataDir returns the path to the almanac data directory (~/.almanac/)
// Creates the directory if it doesn't exist
// Can be overridden with ALMANAC_DATA_DIR environment variable (primarily for testing)
func DataDir() (string, error) {
	if dataDir := os.Getenv(dataDirEnvVar); dataDir != "" {
		if err := os.MkdirAll(dataDir, dataDirPerms); err != nil {
			return "", err
		}
		return dataDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dataDir := filepath.Join(home, "."+AppName)
	if err := os.MkdirAll(dataDir, dataDirPerms); err != nil {
		return "", err
	}

	return dataDir, nil
}

// DatabasePath returns the path to the SQLite database (~/.almanac/almanac.db)
func DatabasePath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dataDir, DbName), nil
}

// SettingsPath returns the path to the settings file (~/.almanac/config.yaml)
func SettingsPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dataDir, SettingsName), nil
}
