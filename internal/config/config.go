package config

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

type Config struct {
	LogLevel zapcore.Level
	MQTT     MQTTConfig  `mapstructure:"mqtt"`
	Local    LocalConfig `mapstructure:"local"`
	Cloud    CloudConfig `mapstructure:"cloud"`

	// Units selects the display unit system for discovery payloads.
	Units     string `mapstructure:"units"`
	StatePath string `mapstructure:"state_path"`
	Port      uint   `mapstructure:"port"`
	HttpLog   bool   `mapstructure:"http_log"`
}

func (c Config) Metric() bool {
	return c.Units != UnitsImperial
}

type LocalConfig struct {
	BindAddress         string `mapstructure:"bind_address"`
	ProbeTimeoutSeconds uint32 `mapstructure:"probe_timeout_seconds"`
}

type CloudConfig struct {
	PollIntervalSeconds uint32      `mapstructure:"poll_interval_seconds"`
	BaseURL             string      `mapstructure:"base_url"`
	OAuth               OAuthConfig `mapstructure:"oauth"`
}

// OAuthConfig holds the WeatherFlow authorization code flow endpoints. The
// defaults point at the public WeatherFlow identity service.
type OAuthConfig struct {
	AuthorizeURL string `mapstructure:"authorize_url"`
	TokenURL     string `mapstructure:"token_url"`
	ClientID     string `mapstructure:"client_id"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
