package update

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// ConfigFileName is the project config looked up in the working directory.
const ConfigFileName = ".grocer.json"

var (
	ErrConfigNotFound = errors.New("config: file not found")
	ErrConfigInvalid  = errors.New("config: invalid")
)

// ConfigSources records which files were loaded.
type ConfigSources struct {
	Global  string
	Project string
}

// fileConfig is one JSONC layer. Nil fields leave the lower layer alone.
type fileConfig struct {
	DBPath          *string `json:"db_path"`
	Memory          *bool   `json:"memory"`
	SyncMode        *string `json:"sync_mode"`
	WarnLength      *int    `json:"url_warn_length"`
	ShareBaseURL    *string `json:"share_base_url"`
	WatchIntervalMS *int    `json:"watch_interval_ms"`
	HistoryLimit    *int    `json:"history_limit"`
	ExternalBuffer  *int    `json:"external_buffer"`
	LogFile         *string `json:"log_file"`
}

// GlobalConfigPath is $XDG_CONFIG_HOME/grocer/config.json, else
// ~/.config/grocer/config.json. Empty when neither can be resolved.
func GlobalConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "grocer", "config.json")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".config", "grocer", "config.json")
	}
	return ""
}

// LoadConfig layers the global file, then the project file (or explicit
// when set) over base. An explicit path must exist; the others are optional.
func LoadConfig(base RuntimeConfig, workDir, explicit string) (RuntimeConfig, error) {
	cfg := base
	if path := GlobalConfigPath(); path != "" {
		layer, loaded, err := loadConfigFile(path, false)
		if err != nil {
			return RuntimeConfig{}, err
		}
		if loaded {
			cfg = mergeConfig(cfg, layer)
			cfg.Sources.Global = path
		}
	}

	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return RuntimeConfig{}, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}
	path := filepath.Join(workDir, ConfigFileName)
	mustExist := false
	if explicit != "" {
		path = explicit
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		mustExist = true
	}
	layer, loaded, err := loadConfigFile(path, mustExist)
	if err != nil {
		return RuntimeConfig{}, err
	}
	if loaded {
		cfg = mergeConfig(cfg, layer)
		cfg.Sources.Project = path
	}
	return cfg, nil
}

func loadConfigFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return fileConfig{}, false, nil
		}
		return fileConfig{}, false, fmt.Errorf("read config %s: %w", path, err)
	}
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: invalid JSONC: %w", ErrConfigInvalid, path, err)
	}
	var layer fileConfig
	if err := json.Unmarshal(standardized, &layer); err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}
	return layer, true, nil
}

func mergeConfig(base RuntimeConfig, overlay fileConfig) RuntimeConfig {
	if overlay.DBPath != nil && *overlay.DBPath != "" {
		base.DBPath = *overlay.DBPath
	}
	if overlay.Memory != nil {
		base.Memory = *overlay.Memory
	}
	if overlay.SyncMode != nil && *overlay.SyncMode != "" {
		base.SyncMode = *overlay.SyncMode
	}
	if overlay.WarnLength != nil && *overlay.WarnLength > 0 {
		base.WarnLength = *overlay.WarnLength
	}
	if overlay.ShareBaseURL != nil && *overlay.ShareBaseURL != "" {
		base.ShareBaseURL = *overlay.ShareBaseURL
	}
	if overlay.WatchIntervalMS != nil && *overlay.WatchIntervalMS > 0 {
		base.WatchIntervalMS = *overlay.WatchIntervalMS
	}
	if overlay.HistoryLimit != nil && *overlay.HistoryLimit > 0 {
		base.HistoryLimit = *overlay.HistoryLimit
	}
	if overlay.ExternalBuffer != nil && *overlay.ExternalBuffer > 0 {
		base.ExternalBuffer = *overlay.ExternalBuffer
	}
	if overlay.LogFile != nil {
		base.LogFile = *overlay.LogFile
	}
	return base
}
