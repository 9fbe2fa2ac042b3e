// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/ksuid"
	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName  = "stratum.conf"
	ConfigDirectory = ".config/stratum"
	DataDirectory   = ".pel/stratum"
)

var Config = cliconfig{}

type cliconfig struct{}

// Settings is the optional cli configuration file. Flags take precedence
// over anything configured here.
type Settings struct {
	Endpoint string `yaml:"endpoint"`
	LogLevel string `yaml:"log-level"`
}

func (cliconfig) ConfigDirectory() string {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(homePath, ConfigDirectory)
}

func (cliconfig) DataDirectory() string {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(homePath, DataDirectory)
}

func (cliconfig) EnsureConfigDirectory() error {
	configPath := Config.ConfigDirectory()
	if configPath == "" {
		return fmt.Errorf("failed to ensure stratum config directory")
	}

	return os.MkdirAll(configPath, 0700)
}

func (cliconfig) EnsureDataDirectory() error {
	dataPath := Config.DataDirectory()
	if dataPath == "" {
		return fmt.Errorf("failed to ensure stratum data directory")
	}

	return os.MkdirAll(dataPath, 0700)
}

// Load reads the cli settings file. A missing file is not an error; the
// zero Settings value applies.
func (cliconfig) Load() (Settings, error) {
	configPath := Config.ConfigDirectory()
	if configPath == "" {
		return Settings{}, nil
	}

	data, err := os.ReadFile(filepath.Join(configPath, ConfigFileName))
	if os.IsNotExist(err) {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	return settings, nil
}

func (cliconfig) EnsureClientID() error {
	dataPath := Config.DataDirectory()
	if dataPath == "" {
		return fmt.Errorf("failed to ensure stratum data directory")
	}

	idFile := filepath.Join(dataPath, "cli_client_id")
	if _, err := os.Stat(idFile); os.IsNotExist(err) {
		err := os.WriteFile(idFile, []byte(ksuid.New().String()), 0600)
		if err != nil {
			return fmt.Errorf("failed to create ID file: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check ID file: %w", err)
	}

	return nil
}

func (cliconfig) ClientID() (string, error) {
	dataPath := Config.DataDirectory()
	if dataPath == "" {
		return "", fmt.Errorf("failed to retrieve stratum data directory")
	}

	data, err := os.ReadFile(filepath.Join(dataPath, "cli_client_id"))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}
