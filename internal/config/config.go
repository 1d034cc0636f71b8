// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// 지원하는 전송 방식
const (
	TransportSerial = "serial"
	TransportMQTT   = "mqtt"
)

type Config struct {
	// Device
	TimeoutSeconds float64
	Timeout        time.Duration
	MaxQueueLength int
	TickInterval   time.Duration
	PresetsFile    string

	// Transport
	Transport         string
	SerialPort        string
	SerialBaud        int
	SerialReadTimeout time.Duration
	ReconnectInterval time.Duration
	MaxUnreadMessages int

	// MQTT
	MQTTBroker        string
	MQTTClientID      string
	MQTTUsername      string
	MQTTPassword      string
	MQTTCommandTopic  string
	MQTTResponseTopic string

	// Redis (RedisHost 가 비어 있으면 비활성화)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Database (DBHost 가 비어 있으면 비활성화)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application
	HTTPAddr string
	LogLevel string
	LogFile  string
}

func Load() (*Config, error) {
	// .env 파일은 선택 사항
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	timeoutSeconds, err := getEnvFloat("TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}

	var (
		maxQueue, tickMS, baud, readTimeoutMS int
		reconnectMS, maxUnread, redisDB       int
	)
	for key, opt := range map[string]struct {
		target *int
		def    int
	}{
		"MAX_COMMAND_QUEUE_LENGTH": {&maxQueue, 100},
		"TICK_INTERVAL_MS":         {&tickMS, 20},
		"SERIAL_BAUD":              {&baud, 9600},
		"SERIAL_READ_TIMEOUT_MS":   {&readTimeoutMS, 100},
		"RECONNECT_INTERVAL_MS":    {&reconnectMS, 1000},
		"MAX_UNREAD_MESSAGES":      {&maxUnread, 100},
		"REDIS_DB":                 {&redisDB, 0},
	} {
		v, err := getEnvInt(key, opt.def)
		if err != nil {
			return nil, err
		}
		*opt.target = v
	}

	cfg := &Config{
		TimeoutSeconds: timeoutSeconds,
		Timeout:        time.Duration(timeoutSeconds * float64(time.Second)),
		MaxQueueLength: maxQueue,
		TickInterval:   time.Duration(tickMS) * time.Millisecond,
		PresetsFile:    getEnv("PRESETS_FILE", ""),

		Transport:         getEnv("TRANSPORT", TransportSerial),
		SerialPort:        getEnv("SERIAL_PORT", "/dev/ttyUSB0"),
		SerialBaud:        baud,
		SerialReadTimeout: time.Duration(readTimeoutMS) * time.Millisecond,
		ReconnectInterval: time.Duration(reconnectMS) * time.Millisecond,
		MaxUnreadMessages: maxUnread,

		MQTTBroker:        getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTClientID:      getEnv("MQTT_CLIENT_ID", "TASTE_BRIDGE"),
		MQTTUsername:      getEnv("MQTT_USERNAME", ""),
		MQTTPassword:      getEnv("MQTT_PASSWORD", ""),
		MQTTCommandTopic:  getEnv("MQTT_COMMAND_TOPIC", "taste/command"),
		MQTTResponseTopic: getEnv("MQTT_RESPONSE_TOPIC", "taste/response"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "taste_bridge"),

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 설정값 검증
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("TIMEOUT_SECONDS must be positive, got %v", c.TimeoutSeconds)
	}
	if c.MaxQueueLength <= 0 {
		return fmt.Errorf("MAX_COMMAND_QUEUE_LENGTH must be positive, got %d", c.MaxQueueLength)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL_MS must be positive, got %v", c.TickInterval)
	}
	if c.MaxUnreadMessages <= 0 {
		return fmt.Errorf("MAX_UNREAD_MESSAGES must be positive, got %d", c.MaxUnreadMessages)
	}
	switch c.Transport {
	case TransportSerial, TransportMQTT:
	default:
		return fmt.Errorf("unknown TRANSPORT %q (use %s or %s)", c.Transport, TransportSerial, TransportMQTT)
	}
	return nil
}

// RedisEnabled Redis 미러 사용 여부
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// DatabaseEnabled 이력 DB 사용 여부
func (c *Config) DatabaseEnabled() bool {
	return c.DBHost != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
