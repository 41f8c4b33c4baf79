package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	configDirName  = "scpane"
	configFileName = "config.json"
)

func DefaultConfig() Config {
	return Config{
		Theme:      "dark",
		ShowHidden: false,
		LocalPath:  "",
		Port:       22,
	}
}

func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

func LoadConfig() (Config, error) {
	config := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return config, err
	}
	return loadFrom(config, path)
}

func loadFrom(config Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}
	var stored fileConfig
	if err := json.Unmarshal(data, &stored); err != nil {
		return config, err
	}
	return mergeConfig(config, stored), nil
}

func SaveConfig(config Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return saveTo(config, path)
}

func saveTo(config Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeConfig(base Config, stored fileConfig) Config {
	merged := base
	if stored.Theme != nil {
		merged.Theme = *stored.Theme
	}
	if stored.ShowHidden != nil {
		merged.ShowHidden = *stored.ShowHidden
	}
	if stored.LocalPath != nil {
		merged.LocalPath = *stored.LocalPath
	}
	if stored.LogPath != nil {
		merged.LogPath = *stored.LogPath
	}
	if stored.ImportSSHConfig != nil {
		merged.ImportSSHConfig = *stored.ImportSSHConfig
	}
	if stored.Host != nil {
		merged.Host = *stored.Host
	}
	if stored.Port != nil {
		merged.Port = *stored.Port
	}
	if stored.Username != nil {
		merged.Username = *stored.Username
	}
	if stored.IdentityFile != nil {
		merged.IdentityFile = *stored.IdentityFile
	}
	if stored.ProxyJump != nil {
		merged.ProxyJump = *stored.ProxyJump
	}
	return merged
}
