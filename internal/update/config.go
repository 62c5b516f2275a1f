package update

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/grocer/internal/fragment"
	"github.com/sandeepkv93/grocer/internal/hashsync"
)

type RuntimeConfig struct {
	DBPath          string
	Memory          bool
	SyncMode        string
	WarnLength      int
	ShareBaseURL    string
	WatchIntervalMS int
	HistoryLimit    int
	ExternalBuffer  int
	LogFile         string

	Sources ConfigSources
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:          DefaultDBPath(),
		SyncMode:        string(hashsync.ModeFull),
		WarnLength:      fragment.DefaultWarnLength,
		ShareBaseURL:    hashsync.DefaultShareBaseURL,
		WatchIntervalMS: 500,
		HistoryLimit:    hashsync.DefaultHistoryLimit,
		ExternalBuffer:  16,
	}
}

// DefaultDBPath is $XDG_DATA_HOME/grocer/history.db, else
// ~/.local/share/grocer/history.db.
func DefaultDBPath() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); dir != "" {
		return filepath.Join(dir, "grocer", "history.db")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "grocer-history.db"
	}
	return filepath.Join(home, ".local", "share", "grocer", "history.db")
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("GROCER_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvBool("GROCER_MEMORY"); ok {
		cfg.Memory = v
	}
	if v, ok := getEnvString("GROCER_SYNC_MODE"); ok {
		cfg.SyncMode = strings.ToLower(v)
	}
	if v, ok := getEnvInt("GROCER_URL_WARN_LEN"); ok && v > 0 {
		cfg.WarnLength = v
	}
	if v, ok := getEnvString("GROCER_SHARE_BASE_URL"); ok {
		cfg.ShareBaseURL = v
	}
	if v, ok := getEnvInt("GROCER_WATCH_INTERVAL_MS"); ok && v > 0 {
		cfg.WatchIntervalMS = v
	}
	if v, ok := getEnvInt("GROCER_HISTORY_LIMIT"); ok && v > 0 {
		cfg.HistoryLimit = v
	}
	if v, ok := getEnvInt("GROCER_EXTERNAL_BUFFER"); ok && v > 0 {
		cfg.ExternalBuffer = v
	}
	if v, ok := getEnvString("GROCER_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	return cfg
}

func (c RuntimeConfig) Mode() (hashsync.Mode, error) {
	return hashsync.ParseMode(c.SyncMode)
}

func (c RuntimeConfig) WatchInterval() time.Duration {
	if c.WatchIntervalMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.WatchIntervalMS) * time.Millisecond
}

func (c RuntimeConfig) Validate() error {
	if _, err := c.Mode(); err != nil {
		return err
	}
	if !c.Memory && strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db path is empty", ErrConfigInvalid)
	}
	return nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
