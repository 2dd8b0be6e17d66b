package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Ledger.Driver)
	assert.Equal(t, "https://api.sky.blackbaud.com", cfg.Sky.BaseURL)
	assert.Equal(t, 3, cfg.Sky.MaxRetries)
	assert.Equal(t, 5, cfg.Sky.CallCooldownSecs)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

// The threshold policy table is asserted directly so a change to matching
// policy shows up as a test diff, not as drifting matcher behavior.
func TestThresholdPolicy(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Match.PhoneThreshold)
	assert.Equal(t, 90, cfg.Match.RelationshipThreshold)
	assert.Equal(t, 90, cfg.Match.AddressThreshold)
	assert.Equal(t, 1962, cfg.Match.EducationMinYear)
}

func TestSchoolDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.School.EmailDomains, "@iitb.ac.in")
	assert.Contains(t, cfg.School.UnverifiedSources, "Live Alumni")
	assert.Contains(t, cfg.School.StatelessCountries, "Mauritius")
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CRMSYNC_LOG_LEVEL", "debug")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestCooldownDurations(t *testing.T) {
	c := SkyConfig{CallCooldownSecs: 5, RecordCooldownSecs: 10}
	assert.Equal(t, "5s", c.CallCooldown().String())
	assert.Equal(t, "10s", c.RecordCooldown().String())
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
