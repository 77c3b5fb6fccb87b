package util

import (
	"tempest2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "tempest2mqtt",
			HADiscoveryTopic: "homeassistant",
		},
		Local: config.LocalConfig{
			BindAddress:         "127.0.0.1:0",
			ProbeTimeoutSeconds: 10,
		},
		Cloud: config.CloudConfig{
			PollIntervalSeconds: 60,
		},
		Units:     config.UnitsMetric,
		StatePath: "",
		Port:      8080,
	}
}
