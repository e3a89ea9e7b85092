package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDTracker string
	MQTTClientIDGPS     string
	MQTTClientIDCompass string
	MQTTClientIDMotion  string
	MQTTClientIDMock    string
	MQTTClientIDWeb     string
	MQTTClientIDConsole string
	MQTTClientIDDisplay string

	// Topics
	TopicFix     string
	TopicMotion  string
	TopicCompass string
	TopicOverlay string

	// GPS receiver (NMEA RMC over serial)
	GPSSerialPort string
	GPSBaudRate   int

	// Compass talker (NMEA HDT over serial)
	CompassSerialPort string
	CompassBaudRate   int

	// Motion sensor (MPU9250 over SPI)
	MotionSPIDevice      string
	MotionCSPin          string
	MotionSampleInterval int // milliseconds

	// Tracker
	FixTimeoutSeconds int // how long to wait for the one-shot fix

	// Web server
	WebServerPort   int
	PixelsPerDegree float64
	OverlayWidth    int
	OverlayHeight   int

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for the config singleton. External code
// must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
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

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_TRACKER":
		c.MQTTClientIDTracker = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value
	case "MQTT_CLIENT_ID_COMPASS":
		c.MQTTClientIDCompass = value
	case "MQTT_CLIENT_ID_MOTION":
		c.MQTTClientIDMotion = value
	case "MQTT_CLIENT_ID_MOCK":
		c.MQTTClientIDMock = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_FIX":
		c.TopicFix = value
	case "TOPIC_MOTION":
		c.TopicMotion = value
	case "TOPIC_COMPASS":
		c.TopicCompass = value
	case "TOPIC_OVERLAY":
		c.TopicOverlay = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Compass
	case "COMPASS_SERIAL_PORT":
		c.CompassSerialPort = value
	case "COMPASS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid COMPASS_BAUD_RATE %q: %w", value, err)
		}
		c.CompassBaudRate = rate

	// Motion sensor
	case "MOTION_SPI_DEVICE":
		c.MotionSPIDevice = value
	case "MOTION_CS_PIN":
		c.MotionCSPin = value
	case "MOTION_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MOTION_SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.MotionSampleInterval = interval

	// Tracker
	case "FIX_TIMEOUT_SECONDS":
		secs, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid FIX_TIMEOUT_SECONDS %q: %w", value, err)
		}
		c.FixTimeoutSeconds = secs

	// Web server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "PIXELS_PER_DEGREE":
		ppd, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid PIXELS_PER_DEGREE %q: %w", value, err)
		}
		c.PixelsPerDegree = ppd
	case "OVERLAY_WIDTH":
		w, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid OVERLAY_WIDTH %q: %w", value, err)
		}
		c.OverlayWidth = w
	case "OVERLAY_HEIGHT":
		h, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid OVERLAY_HEIGHT %q: %w", value, err)
		}
		c.OverlayHeight = h

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicFix == "" {
		return fmt.Errorf("TOPIC_FIX is required")
	}
	if c.TopicMotion == "" {
		return fmt.Errorf("TOPIC_MOTION is required")
	}
	if c.TopicCompass == "" {
		return fmt.Errorf("TOPIC_COMPASS is required")
	}
	if c.TopicOverlay == "" {
		return fmt.Errorf("TOPIC_OVERLAY is required")
	}
	if c.MotionSampleInterval == 0 {
		return fmt.Errorf("MOTION_SAMPLE_INTERVAL is required")
	}
	if c.PixelsPerDegree == 0 {
		return fmt.Errorf("PIXELS_PER_DEGREE is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Uses sync.Once
// so this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be called
// first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
