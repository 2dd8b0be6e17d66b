package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Ledger LedgerConfig `yaml:"ledger" mapstructure:"ledger"`
	Sky    SkyConfig    `yaml:"sky" mapstructure:"sky"`
	Mail   MailConfig   `yaml:"mail" mapstructure:"mail"`
	Match  MatchConfig  `yaml:"match" mapstructure:"match"`
	School SchoolConfig `yaml:"school" mapstructure:"school"`
	Ingest IngestConfig `yaml:"ingest" mapstructure:"ingest"`
	Vocab  VocabConfig  `yaml:"vocab" mapstructure:"vocab"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// LedgerConfig configures the submission ledger backend.
type LedgerConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SkyConfig holds Blackbaud SKY API access settings.
type SkyConfig struct {
	SubscriptionKey string  `yaml:"subscription_key" mapstructure:"subscription_key"`
	TokenPath       string  `yaml:"token_path" mapstructure:"token_path"`
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSec  float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	MaxRetries      int     `yaml:"max_retries" mapstructure:"max_retries"`
	// CallCooldownSecs is slept after every CRM call and
	// RecordCooldownSecs after each completed submission, to respect the
	// remote rate limit.
	CallCooldownSecs   int `yaml:"call_cooldown_secs" mapstructure:"call_cooldown_secs"`
	RecordCooldownSecs int `yaml:"record_cooldown_secs" mapstructure:"record_cooldown_secs"`
}

// CallCooldown returns the per-call cooldown as a duration.
func (c SkyConfig) CallCooldown() time.Duration {
	return time.Duration(c.CallCooldownSecs) * time.Second
}

// RecordCooldown returns the per-record cooldown as a duration.
func (c SkyConfig) RecordCooldown() time.Duration {
	return time.Duration(c.RecordCooldownSecs) * time.Second
}

// MailConfig holds SMTP settings for conflict and error notifications.
type MailConfig struct {
	Host     string   `yaml:"host" mapstructure:"host"`
	Port     int      `yaml:"port" mapstructure:"port"`
	Username string   `yaml:"username" mapstructure:"username"`
	Password string   `yaml:"password" mapstructure:"password"`
	From     string   `yaml:"from" mapstructure:"from"`
	To       []string `yaml:"to" mapstructure:"to"`
	CC       []string `yaml:"cc" mapstructure:"cc"`
	LogPath  string   `yaml:"log_path" mapstructure:"log_path"`
	// RecordURL is the base link for "Open in CRM" anchors in bodies.
	RecordURL string `yaml:"record_url" mapstructure:"record_url"`
}

// MatchConfig is the named threshold table the matchers consult. Boundary
// convention everywhere: score > threshold means already present, <=
// threshold means missing.
type MatchConfig struct {
	PhoneThreshold        int `yaml:"phone_threshold" mapstructure:"phone_threshold"`
	RelationshipThreshold int `yaml:"relationship_threshold" mapstructure:"relationship_threshold"`
	AddressThreshold      int `yaml:"address_threshold" mapstructure:"address_threshold"`
	EducationMinYear      int `yaml:"education_min_year" mapstructure:"education_min_year"`
}

// SchoolConfig identifies the institution this deployment manages.
type SchoolConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
	// EmailDomains classify an address as a school-issued e-mail.
	EmailDomains []string `yaml:"email_domains" mapstructure:"email_domains"`
	// UnverifiedSources are provenance labels whose values are written
	// without primary flags or verified tags.
	UnverifiedSources []string `yaml:"unverified_sources" mapstructure:"unverified_sources"`
	// StatelessCountries suppress the state field on address inserts.
	StatelessCountries []string `yaml:"stateless_countries" mapstructure:"stateless_countries"`
}

// IngestConfig locates the incoming form responses.
type IngestConfig struct {
	ResponsesPath string `yaml:"responses_path" mapstructure:"responses_path"`
	SheetName     string `yaml:"sheet_name" mapstructure:"sheet_name"`
}

// VocabConfig locates the degree vocabulary lookup file.
type VocabConfig struct {
	DegreesPath string `yaml:"degrees_path" mapstructure:"degrees_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CRMSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ledger.driver", "sqlite")
	v.SetDefault("ledger.database_url", "crmsync.db")
	v.SetDefault("sky.base_url", "https://api.sky.blackbaud.com")
	v.SetDefault("sky.token_path", "access_token_output.json")
	v.SetDefault("sky.requests_per_sec", 1.0)
	v.SetDefault("sky.max_retries", 3)
	v.SetDefault("sky.call_cooldown_secs", 5)
	v.SetDefault("sky.record_cooldown_secs", 5)
	v.SetDefault("mail.port", 587)
	v.SetDefault("match.phone_threshold", 80)
	v.SetDefault("match.relationship_threshold", 90)
	v.SetDefault("match.address_threshold", 90)
	v.SetDefault("match.education_min_year", 1962)
	v.SetDefault("school.name", "Indian Institute of Technology Bombay")
	v.SetDefault("school.email_domains", []string{"@iitb.ac.in", "@iitbombay.org", "@sjmsom.in"})
	v.SetDefault("school.unverified_sources", []string{"Live Alumni"})
	v.SetDefault("school.stateless_countries", []string{"Mauritius", "Switzerland", "France", "Bahrain"})
	v.SetDefault("ingest.responses_path", "Databases/Form Responses.xlsx")
	v.SetDefault("vocab.degrees_path", "Databases/degrees.yaml")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
