package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "A Company", cfg.Report.Entity)
	assert.Equal(t, "solar", cfg.Report.Taxonomy)
	assert.Empty(t, cfg.Validation.Endpoint)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid default config", func(c *Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"missing db path", func(c *Config) { c.Server.DBPath = "" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"endpoint without drop dir", func(c *Config) { c.Validation.Endpoint = "http://localhost:8080/" }, true},
		{"endpoint with drop dir", func(c *Config) {
			c.Validation.Endpoint = "http://localhost:8080/"
			c.Validation.DropDir = "/tmp/arelle"
		}, false},
		{"negative sweep interval", func(c *Config) { c.Validation.SweepInterval = -time.Second }, true},
		{"missing entity", func(c *Config) { c.Report.Entity = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
  read_timeout: 5s
log:
  level: debug
validation:
  endpoint: "http://localhost:8099/rest/xbrl/validation?file="
  drop_dir: /srv/arelle
  timeout: 1m
  sweep_interval: 10m
report:
  entity: "Acme Solar"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/srv/arelle", cfg.Validation.DropDir)
	assert.Equal(t, time.Minute, cfg.Validation.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Validation.SweepInterval)
	assert.Equal(t, "Acme Solar", cfg.Report.Entity)
	assert.Equal(t, "solar", cfg.Report.Taxonomy)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [1, 2"), 0644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.Port = 7000

	require.NoError(t, cfg.SaveToFile(path))
	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{
		Server:  ServerConfig{Port: 9999},
		Mapping: MappingConfig{UnitsFile: "units.yaml"},
	})

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "./xbrl.db", cfg.Server.DBPath)
	assert.Equal(t, "units.yaml", cfg.Mapping.UnitsFile)

	cfg.Merge(nil)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestMappingTables_DefaultsAndFiles(t *testing.T) {
	concepts, units, err := MappingConfig{}.Tables(nil)
	require.NoError(t, err)
	assert.Equal(t, "OrientationTilt", concepts["tilt"])
	assert.Equal(t, "degrees", units["OrientationTilt"])

	// GIVEN: A units file with a repeated key
	// THEN: It replaces the defaults and the duplicate is logged

	dir := t.TempDir()
	unitsFile := filepath.Join(dir, "units.yaml")
	require.NoError(t, os.WriteFile(unitsFile, []byte("OrientationTilt: degrees\nOrientationTilt: degrees\n"), 0644))

	core, logs := observer.New(zapcore.WarnLevel)
	_, units, err = MappingConfig{UnitsFile: unitsFile}.Tables(zap.New(core))
	require.NoError(t, err)

	assert.Len(t, units, 1)
	require.Equal(t, 1, logs.FilterMessage("duplicate mapping key").Len())
	assert.Equal(t, int64(2), logs.All()[0].ContextMap()["line"])

	_, _, err = MappingConfig{ConceptsFile: filepath.Join(dir, "missing.yaml")}.Tables(nil)
	assert.Error(t, err)
}

func TestLogConfig_NewLogger(t *testing.T) {
	logger, err := LogConfig{Level: "warn"}.NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = LogConfig{Level: "chatty"}.NewLogger()
	assert.Error(t, err)
}
