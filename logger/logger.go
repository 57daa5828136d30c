package logger

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel string

const (
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// Event types group song-service log lines for filtering.
const (
	EventServiceStartup    = "SERVICE_STARTUP"
	EventServiceShutdown   = "SERVICE_SHUTDOWN"
	EventDBConnection      = "DB_CONNECTION"
	EventDBError           = "DB_ERROR"
	EventSeedLoaded        = "SEED_LOADED"
	EventValidationFailure = "VALIDATION_FAILURE"
	EventHTTPRequest       = "HTTP_REQUEST"
	EventRateLimited       = "RATE_LIMITED"
	EventGeneral           = "GENERAL"
)

type LogEntry struct {
	Timestamp   string                 `json:"timestamp"`
	Level       LogLevel               `json:"level"`
	Service     string                 `json:"service"`
	Environment string                 `json:"environment,omitempty"`
	EventType   string                 `json:"event_type"`
	Message     string                 `json:"message"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Hmac        string                 `json:"hmac"`
}

type Config struct {
	ServiceName string
	Environment string
	LogFilePath string
	HMACKey     string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
}

func (c *Config) setDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "song-service"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 5
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 30
	}
	if c.LogFilePath == "" {
		c.LogFilePath = filepath.Join("/var/log", c.ServiceName, "app.log")
	}
	if c.HMACKey == "" {
		c.HMACKey = "default-hmac-key-change-in-production"
	}
}

type Logger struct {
	service string
	env     string
	key     []byte

	mu  sync.Mutex
	out io.Writer
}

var (
	defaultMu sync.Mutex
	std       *Logger
)

// Init replaces the package-level logger used by Info, Warn and Error.
func Init(cfg Config) {
	l := NewLogger(cfg)
	defaultMu.Lock()
	std = l
	defaultMu.Unlock()
}

func current() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if std == nil {
		cfg := Config{Environment: "development"}
		cfg.setDefaults()
		std = newWithWriter(cfg, os.Stdout)
	}
	return std
}

// NewLogger writes to stdout and, when the directory can be created, to a
// rotated file under cfg.LogFilePath.
func NewLogger(cfg Config) *Logger {
	cfg.setDefaults()

	out := io.Writer(os.Stdout)
	dir := filepath.Dir(cfg.LogFilePath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "logger: cannot create %s, logging to stdout only: %v\n", dir, err)
	} else {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}
	return newWithWriter(cfg, out)
}

func newWithWriter(cfg Config, w io.Writer) *Logger {
	return &Logger{
		service: cfg.ServiceName,
		env:     cfg.Environment,
		key:     []byte(cfg.HMACKey),
		out:     w,
	}
}

func (l *Logger) Info(eventType, message string, details map[string]interface{}) {
	l.write(LevelInfo, eventType, message, details)
}

func (l *Logger) Warn(eventType, message string, details map[string]interface{}) {
	l.write(LevelWarn, eventType, message, details)
}

func (l *Logger) Error(eventType, message string, details map[string]interface{}) {
	l.write(LevelError, eventType, message, details)
}

func Info(eventType, message string, details map[string]interface{}) {
	current().Info(eventType, message, details)
}

func Warn(eventType, message string, details map[string]interface{}) {
	current().Warn(eventType, message, details)
}

func Error(eventType, message string, details map[string]interface{}) {
	current().Error(eventType, message, details)
}

// Fields builds a details map from alternating keys and values. Pairs with a
// non-string key and a trailing odd value are dropped.
func Fields(kv ...interface{}) map[string]interface{} {
	details := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			details[key] = kv[i+1]
		}
	}
	return details
}

func (l *Logger) write(level LogLevel, eventType, message string, details map[string]interface{}) {
	entry := LogEntry{
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		Level:       level,
		Service:     l.service,
		Environment: l.env,
		EventType:   eventType,
		Message:     scrub(message),
		Details:     scrubDetails(details),
	}
	entry.Hmac = l.sign(entry)

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: cannot encode %s entry: %v\n", eventType, err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(data, '\n'))
}

// sign covers the fields a reader filters on, so an edited line no longer verifies.
func (l *Logger) sign(e LogEntry) string {
	mac := hmac.New(sha256.New, l.key)
	fmt.Fprintf(mac, "%s|%s|%s|%s|%s", e.Timestamp, e.Level, e.Service, e.EventType, e.Message)
	return hex.EncodeToString(mac.Sum(nil))
}
