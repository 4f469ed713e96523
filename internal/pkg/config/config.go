package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var (
	ErrMissingHost     = errors.New("please set the AMCREST_HOST environment variable")
	ErrMissingPassword = errors.New("please set the AMCREST_PASSWORD environment variable")
	ErrInvalidQoS      = errors.New("MQTT_QOS must be 0, 1 or 2")
)

type Config struct {
	AmcrestCfg       *AmcrestConfig
	MqttCfg          *MqttConfig
	HomeAssistantCfg *HomeAssistantConfig
	// StoragePollInterval is in seconds, zero or negative disables polling.
	StoragePollInterval int `env:"STORAGE_POLL_INTERVAL" envDefault:"3600"`
	LogLevel            string
}

type AmcrestConfig struct {
	Host     string `env:"AMCREST_HOST"`
	Port     int    `env:"AMCREST_PORT" envDefault:"80"`
	Username string `env:"AMCREST_USERNAME" envDefault:"admin"`
	Password string `env:"AMCREST_PASSWORD"`
}

type MqttConfig struct {
	Host     string `env:"MQTT_HOST" envDefault:"localhost"`
	Port     int    `env:"MQTT_PORT" envDefault:"1883"`
	Username string `env:"MQTT_USERNAME"`
	Password string `env:"MQTT_PASSWORD"`
	QoS      int    `env:"MQTT_QOS" envDefault:"0"`
	TLS      TLSConfig
}

type TLSConfig struct {
	Enabled bool   `env:"MQTT_TLS_ENABLED" envDefault:"false"`
	CACert  string `env:"MQTT_TLS_CA_CERT"`
	Cert    string `env:"MQTT_TLS_CERT"`
	Key     string `env:"MQTT_TLS_KEY"`
}

type HomeAssistantConfig struct {
	Enabled bool   `env:"HOME_ASSISTANT" envDefault:"false"`
	Prefix  string `env:"HOME_ASSISTANT_PREFIX" envDefault:"homeassistant"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables instead of the
// process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{
		AmcrestCfg:       &AmcrestConfig{},
		MqttCfg:          &MqttConfig{},
		HomeAssistantCfg: &HomeAssistantConfig{},
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that must be present before any connection
// is attempted.
func (c *Config) Validate() error {
	if c.AmcrestCfg.Host == "" {
		return ErrMissingHost
	}
	if c.AmcrestCfg.Password == "" {
		return ErrMissingPassword
	}
	if c.MqttCfg.QoS < 0 || c.MqttCfg.QoS > 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidQoS, c.MqttCfg.QoS)
	}
	return nil
}

// StoragePollingEnabled reports whether the storage poller should run.
func (c *Config) StoragePollingEnabled() bool {
	return c.StoragePollInterval > 0
}
