// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/relabs-tech/hmdview/internal/apperrors"
)

// HMD sources accepted by HMD_SOURCE.
const (
	SourceAuto   = "auto"
	SourceIMU    = "imu"
	SourceSerial = "serial"
	SourceMQTT   = "mqtt"
	SourceReplay = "replay"
	SourceNone   = "none"
)

// Config holds all application configuration values.
type Config struct {
	// HMD
	HMDSource    string // auto, imu, serial, mqtt, replay, none
	HMDIndex     int
	HMDDebugType string // DK1 or DK2, used when no real HMD answers
	HMDSettleMS  int    // wait after runtime init before probing devices
	HMDEye       int    // 0=left, 1=right

	// IMU Hardware
	IMUSPIDevice   string
	IMUCSPin       string
	IMUFilterAlpha float64 // complementary filter gyro weight (0-1)

	// Serial head tracker
	SerialPort string
	SerialBaud int

	// MQTT
	MQTTBroker           string
	MQTTClientIDViewer   string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDTracker  string
	MQTTPublishCamera    bool

	// Topics
	TopicEyePose string
	TopicCamera  string

	// Recording
	ReplayPath string
	RecordPath string

	// Timing (milliseconds)
	PollInitialDelayMS int
	PollDelayMS        int
	ProducerIntervalMS int

	// Window and scene
	WindowWidth  int
	WindowHeight int
	CameraFOV    float64
	CameraNear   float64
	CameraFar    float64
	BoxSize      float64
	BoxZ         float64
	BoxColor     color.RGBA
	DepthBuffer  bool

	// Outputs
	WebServerPort int
	StreamMaxFPS  float64
	OLEDEnabled   bool
	OLEDI2CBus    string
	SnapshotPath  string
	LogLevel      string
}

// Package-level singleton, same contract as the other relabs tools:
// InitGlobal sets it once, Get reads it under a read lock.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Defaults returns the configuration used when a key is absent from the file:
// a 1920x1080 window, a 45 degree camera with near 0 and far 100, and one
// blue 0.1 box half a meter ahead. The live view has no depth buffer.
func Defaults() *Config {
	return &Config{
		HMDSource:    SourceAuto,
		HMDIndex:     0,
		HMDDebugType: "DK2",
		HMDSettleMS:  400,
		HMDEye:       0,

		IMUSPIDevice:   "/dev/spidev0.0",
		IMUCSPin:       "8",
		IMUFilterAlpha: 0.98,

		SerialPort: "/dev/ttyUSB0",
		SerialBaud: 115200,

		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDViewer:   "hmdview-viewer",
		MQTTClientIDProducer: "hmdview-producer",
		MQTTClientIDConsole:  "hmdview-console",
		MQTTClientIDTracker:  "hmdview-tracker",

		TopicEyePose: "hmd/eye_pose",
		TopicCamera:  "hmd/camera",

		PollInitialDelayMS: 100,
		PollDelayMS:        10,
		ProducerIntervalMS: 10,

		WindowWidth:  1920,
		WindowHeight: 1080,
		CameraFOV:    45,
		CameraNear:   0,
		CameraFar:    100,
		BoxSize:      0.1,
		BoxZ:         0.5,
		BoxColor:     color.RGBA{B: 0xff, A: 0xff},
		DepthBuffer:  false,

		WebServerPort: 8080,
		StreamMaxFPS:  30,
		SnapshotPath:  "snapshot.png",
		LogLevel:      "info",
	}
}

// Load reads the configuration file and returns a Config struct. Errors
// are apperrors.ConfigError.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, apperrors.ConfigError{Err: fmt.Errorf("failed to open config file: %w", err)}
	}
	defer file.Close()

	cfg, err := Parse(file)
	if err != nil {
		return nil, apperrors.ConfigError{Err: err}
	}
	return cfg, nil
}

// Parse reads KEY=VALUE lines on top of Defaults().
func Parse(r io.Reader) (*Config, error) {
	cfg := Defaults()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error

	switch key {
	// HMD
	case "HMD_SOURCE":
		c.HMDSource = strings.ToLower(value)
	case "HMD_INDEX":
		c.HMDIndex, err = parseInt(key, value)
	case "HMD_DEBUG_TYPE":
		c.HMDDebugType = strings.ToUpper(value)
	case "HMD_SETTLE_MS":
		c.HMDSettleMS, err = parseInt(key, value)
	case "HMD_EYE":
		c.HMDEye, err = parseInt(key, value)
		if err == nil && (c.HMDEye < 0 || c.HMDEye > 1) {
			return fmt.Errorf("HMD_EYE must be 0 (left) or 1 (right), got %d", c.HMDEye)
		}

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value
	case "IMU_FILTER_ALPHA":
		c.IMUFilterAlpha, err = parseFloat(key, value)

	// Serial tracker
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD":
		c.SerialBaud, err = parseInt(key, value)

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_VIEWER":
		c.MQTTClientIDViewer = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_TRACKER":
		c.MQTTClientIDTracker = value
	case "MQTT_PUBLISH_CAMERA":
		c.MQTTPublishCamera, err = parseBool(key, value)

	// Topics
	case "TOPIC_EYE_POSE":
		c.TopicEyePose = value
	case "TOPIC_CAMERA":
		c.TopicCamera = value

	// Recording
	case "REPLAY_PATH":
		c.ReplayPath = value
	case "RECORD_PATH":
		c.RecordPath = value

	// Timing
	case "POLL_INITIAL_DELAY_MS":
		c.PollInitialDelayMS, err = parseInt(key, value)
	case "POLL_DELAY_MS":
		c.PollDelayMS, err = parseInt(key, value)
	case "PRODUCER_INTERVAL_MS":
		c.ProducerIntervalMS, err = parseInt(key, value)

	// Window and scene
	case "WINDOW_WIDTH":
		c.WindowWidth, err = parseInt(key, value)
	case "WINDOW_HEIGHT":
		c.WindowHeight, err = parseInt(key, value)
	case "CAMERA_FOV":
		c.CameraFOV, err = parseFloat(key, value)
	case "CAMERA_NEAR":
		c.CameraNear, err = parseFloat(key, value)
	case "CAMERA_FAR":
		c.CameraFar, err = parseFloat(key, value)
	case "BOX_SIZE":
		c.BoxSize, err = parseFloat(key, value)
	case "BOX_Z":
		c.BoxZ, err = parseFloat(key, value)
	case "BOX_COLOR":
		c.BoxColor, err = ParseHexColor(value)
		if err != nil {
			return fmt.Errorf("invalid BOX_COLOR %q: %w", value, err)
		}
	case "DEPTH_BUFFER":
		c.DepthBuffer, err = parseBool(key, value)

	// Outputs
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = parseInt(key, value)
	case "STREAM_MAX_FPS":
		c.StreamMaxFPS, err = parseFloat(key, value)
	case "OLED_ENABLED":
		c.OLEDEnabled, err = parseBool(key, value)
	case "OLED_I2C_BUS":
		c.OLEDI2CBus = value
	case "SNAPSHOT_PATH":
		c.SnapshotPath = value
	case "LOG_LEVEL":
		c.LogLevel = strings.ToLower(value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

func parseInt(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

func parseFloat(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

func parseBool(key, value string) (bool, error) {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

// ParseHexColor parses "#rrggbb" or "rrggbb" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("want 6 hex digits, got %d", len(s))
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Validate checks ranges and required fields.
func (c *Config) Validate() error {
	switch c.HMDSource {
	case SourceAuto, SourceIMU, SourceSerial, SourceMQTT, SourceReplay, SourceNone:
	default:
		return fmt.Errorf("HMD_SOURCE must be one of auto, imu, serial, mqtt, replay, none; got %q", c.HMDSource)
	}
	if c.HMDDebugType != "DK1" && c.HMDDebugType != "DK2" {
		return fmt.Errorf("HMD_DEBUG_TYPE must be DK1 or DK2, got %q", c.HMDDebugType)
	}
	if c.HMDSettleMS < 0 {
		return fmt.Errorf("HMD_SETTLE_MS must be >= 0, got %d", c.HMDSettleMS)
	}
	if c.HMDSource == SourceReplay && c.ReplayPath == "" {
		return fmt.Errorf("REPLAY_PATH is required when HMD_SOURCE=replay")
	}
	if c.IMUFilterAlpha < 0 || c.IMUFilterAlpha > 1 {
		return fmt.Errorf("IMU_FILTER_ALPHA must be within [0,1], got %g", c.IMUFilterAlpha)
	}
	if c.PollInitialDelayMS < 0 {
		return fmt.Errorf("POLL_INITIAL_DELAY_MS must be >= 0, got %d", c.PollInitialDelayMS)
	}
	if c.PollDelayMS <= 0 {
		return fmt.Errorf("POLL_DELAY_MS must be > 0, got %d", c.PollDelayMS)
	}
	if c.ProducerIntervalMS <= 0 {
		return fmt.Errorf("PRODUCER_INTERVAL_MS must be > 0, got %d", c.ProducerIntervalMS)
	}
	if c.WindowWidth < 2 || c.WindowHeight < 2 {
		return fmt.Errorf("window size must be at least 2x2, got %dx%d", c.WindowWidth, c.WindowHeight)
	}
	if c.CameraFOV <= 0 || c.CameraFOV >= 180 {
		return fmt.Errorf("CAMERA_FOV must be within (0,180), got %g", c.CameraFOV)
	}
	if c.CameraNear < 0 || c.CameraFar <= c.CameraNear {
		return fmt.Errorf("camera clip planes must satisfy 0 <= near < far, got near=%g far=%g", c.CameraNear, c.CameraFar)
	}
	if c.BoxSize <= 0 {
		return fmt.Errorf("BOX_SIZE must be > 0, got %g", c.BoxSize)
	}
	if c.StreamMaxFPS <= 0 {
		return fmt.Errorf("STREAM_MAX_FPS must be > 0, got %g", c.StreamMaxFPS)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once so repeated calls keep the first result.
// An empty path means "defaults only".
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		if configPath == "" {
			globalConfig = Defaults()
			return
		}
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
