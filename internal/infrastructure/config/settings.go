package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/spf13/viper"
)

// SettingsFileName is the desktop settings file inside the app local data directory.
const SettingsFileName = "settings.json"

// ErrUnknownSetting is returned for keys without a registered default.
var ErrUnknownSetting = errors.New("unknown desktop setting")

var settingDefaults = map[string]any{
	port.SettingAlwaysAllowRemoteContent: false,
	port.SettingHTMLEmailWarning:         true,
	port.SettingProxyEnabled:             false,
	port.SettingContentProtection:        false,
	port.SettingWebxdcZoomFactor:         1.0,
	port.SettingWebxdcDevTools:           false,
}

// DesktopSettings is the typed desktop settings store over settings.json.
// Viper treats keys case-insensitively, so they are stored lower-cased.
type DesktopSettings struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// NewDesktopSettings opens the settings file at path. A missing file reads as
// all defaults and is created on the first write.
func NewDesktopSettings(path string) (*DesktopSettings, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetConfigFile(path)
	for key, value := range settingDefaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read settings at %s: %w", path, err)
	}
	return &DesktopSettings{v: v, path: path}, nil
}

func (s *DesktopSettings) GetBool(_ context.Context, key string) (bool, error) {
	if _, ok := settingDefaults[key]; !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetBool(key), nil
}

func (s *DesktopSettings) GetFloat(_ context.Context, key string) (float64, error) {
	if _, ok := settingDefaults[key]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetFloat64(key), nil
}

func (s *DesktopSettings) SetBool(_ context.Context, key string, value bool) error {
	if _, ok := settingDefaults[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(key, value)
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

var _ port.SettingsStore = (*DesktopSettings)(nil)
