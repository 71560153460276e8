// Package logger provides the server's structured JSON logging.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	SetLevel(os.Getenv("LOG_LEVEL"))
}

// SetLevel adjusts verbosity; unrecognized or empty values mean info.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

func entry(data []map[string]any) *logrus.Entry {
	fields := logrus.Fields{}
	for _, d := range data {
		for k, v := range d {
			fields[k] = v
		}
	}
	return log.WithFields(fields)
}

func Info(msg string, data ...map[string]any) {
	entry(data).Info(msg)
}

func Warn(msg string, data ...map[string]any) {
	entry(data).Warn(msg)
}

func Error(msg string, data ...map[string]any) {
	entry(data).Error(msg)
}

func Debug(msg string, data ...map[string]any) {
	entry(data).Debug(msg)
}
