// Package logging builds the logrus loggers used by both binaries.
package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eupolar/eupolar-server/internal/domain"
)

// NewLogger creates a logger from the logging section of the configuration.
// Unknown levels fall back to info.
func NewLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	logger.SetOutput(output(cfg.Output))

	if cfg.PrivacyMode {
		logger.AddHook(NewPrivacyHook())
	}

	return logger
}

func output(name string) io.Writer {
	switch strings.ToLower(name) {
	case "stderr":
		return os.Stderr
	case "discard":
		return io.Discard
	default:
		return os.Stdout
	}
}

// PrivacyHook scrubs log entries before they are written: user identifiers are replaced
// by a short stable hash and free-text journal fields are redacted.
type PrivacyHook struct {
	hashed   map[string]bool
	redacted []string
}

// NewPrivacyHook creates a hook with the default field lists.
func NewPrivacyHook() *PrivacyHook {
	return &PrivacyHook{
		hashed: map[string]bool{"user_id": true},
		redacted: []string{
			"password", "token", "secret", "authorization",
			"notes", "thoughts", "activities", "medications", "answers",
		},
	}
}

// Levels implements logrus.Hook.
func (h *PrivacyHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *PrivacyHook) Fire(entry *logrus.Entry) error {
	for key, value := range entry.Data {
		if h.hashed[key] {
			if s, ok := value.(string); ok && s != "" {
				entry.Data[key] = HashIdentifier(s)
			}
			continue
		}

		lowerKey := strings.ToLower(key)
		for _, pattern := range h.redacted {
			if strings.Contains(lowerKey, pattern) {
				entry.Data[key] = "[REDACTED]"
				break
			}
		}
	}
	return nil
}

// HashIdentifier returns the first 12 hex characters of the SHA-256 of id.
func HashIdentifier(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])[:12]
}
