// Package config provides configuration for go-theta commands.
//
// Values come from an optional YAML file and are then overridden by
// environment variables (THETA_IP, THETA_PORT, BRIDGE_PORT, LOG_LEVEL).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default camera configuration.
// A THETA in access-point mode always answers on 192.168.1.1:80.
const (
	DefaultCameraIP   = "192.168.1.1"
	DefaultCameraPort = 80
	DefaultBridgePort = 8090
	DefaultLogLevel   = "info"

	DefaultHTTPTimeoutMs   = 30000
	DefaultCheckIntervalMs = 1000
	DefaultStatusRetry     = 3
	DefaultIdleDebounce    = 2
)

// CameraConfig describes how to reach the camera.
type CameraConfig struct {
	IP        string `yaml:"ip"`
	Port      int    `yaml:"port"`
	TimeoutMs int    `yaml:"timeout_ms"` // per-request HTTP timeout
}

// CaptureConfig tunes the capture state machines.
type CaptureConfig struct {
	CheckIntervalMs int `yaml:"check_interval_ms"` // command status poll interval
	StatusRetry     int `yaml:"status_retry"`      // consecutive state failures before giving up
	IdleDebounce    int `yaml:"idle_debounce"`     // consecutive idle readings before reporting idle
}

// BridgeConfig configures the REST/websocket bridge.
type BridgeConfig struct {
	Port int `yaml:"port"`
}

// Config aggregates all application configuration.
type Config struct {
	Camera   CameraConfig  `yaml:"camera"`
	Capture  CaptureConfig `yaml:"capture"`
	Bridge   BridgeConfig  `yaml:"bridge"`
	LogLevel string        `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML file (if path is non-empty), applies environment
// overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if ip := os.Getenv("THETA_IP"); ip != "" {
		c.Camera.IP = ip
	}
	if v := os.Getenv("THETA_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("THETA_PORT: %w", err)
		}
		c.Camera.Port = port
	}
	if v := os.Getenv("BRIDGE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BRIDGE_PORT: %w", err)
		}
		c.Bridge.Port = port
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Camera.IP == "" {
		c.Camera.IP = DefaultCameraIP
	}
	if c.Camera.Port == 0 {
		c.Camera.Port = DefaultCameraPort
	}
	if c.Camera.TimeoutMs <= 0 {
		c.Camera.TimeoutMs = DefaultHTTPTimeoutMs
	}
	if c.Capture.CheckIntervalMs <= 0 {
		c.Capture.CheckIntervalMs = DefaultCheckIntervalMs
	}
	if c.Capture.StatusRetry <= 0 {
		c.Capture.StatusRetry = DefaultStatusRetry
	}
	if c.Capture.IdleDebounce <= 0 {
		c.Capture.IdleDebounce = DefaultIdleDebounce
	}
	if c.Bridge.Port == 0 {
		c.Bridge.Port = DefaultBridgePort
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks ranges of configured values.
func (c *Config) Validate() error {
	if c.Camera.Port < 1 || c.Camera.Port > 65535 {
		return fmt.Errorf("camera.port must be 1-65535, got %d", c.Camera.Port)
	}
	if c.Bridge.Port < 1 || c.Bridge.Port > 65535 {
		return fmt.Errorf("bridge.port must be 1-65535, got %d", c.Bridge.Port)
	}
	if c.Capture.CheckIntervalMs < 10 {
		return errors.New("capture.check_interval_ms must be >= 10")
	}
	return nil
}

// CameraURL returns the base URL of the camera's OSC API.
func (c *Config) CameraURL() string {
	if c.Camera.Port == 80 {
		return "http://" + c.Camera.IP
	}
	return fmt.Sprintf("http://%s:%d", c.Camera.IP, c.Camera.Port)
}

// HTTPTimeout returns the per-request HTTP timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Camera.TimeoutMs) * time.Millisecond
}

// CheckInterval returns the command status poll interval.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.Capture.CheckIntervalMs) * time.Millisecond
}

// BridgeAddr returns the listen address of the bridge server.
func (c *Config) BridgeAddr() string {
	return ":" + strconv.Itoa(c.Bridge.Port)
}
