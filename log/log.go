package log

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/mrnim94/file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

type Fields = logrus.Fields

var logger = logrus.New()

const logDir = "log_files"

// InitLogger swaps in a logger that also writes JSON lines to daily rotated
// files under log_files/. forceNewFile drops the previous day's link first.
func InitLogger(forceNewFile bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	appName := os.Getenv("APP_NAME")
	if appName == "" {
		appName = "bitbucket_v2"
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		l.Errorf("log: create %s: %v", logDir, err)
		logger = l
		return logger
	}

	linkName := filepath.Join(logDir, appName+".log")
	if forceNewFile {
		_ = os.Remove(linkName)
	}

	writer, err := rotatelogs.New(
		filepath.Join(logDir, appName+".%Y%m%d.log"),
		rotatelogs.WithLinkName(linkName),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		l.Errorf("log: rotate writer: %v", err)
		logger = l
		return logger
	}

	l.AddHook(lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: writer,
		logrus.InfoLevel:  writer,
		logrus.WarnLevel:  writer,
		logrus.ErrorLevel: writer,
		logrus.FatalLevel: writer,
		logrus.PanicLevel: writer,
	}, &logrus.JSONFormatter{}))

	logger = l
	return logger
}

// GetLogLevel reads a level name from envKey, falling back to info.
func GetLogLevel(envKey string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv(envKey)))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func Logger() *logrus.Logger {
	return logger
}

func WithFields(fields Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

func Debug(args ...interface{}) {
	logger.Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

func Info(args ...interface{}) {
	logger.Info(args...)
}

func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

func Warn(args ...interface{}) {
	logger.Warn(args...)
}

func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

func Error(args ...interface{}) {
	logger.Error(args...)
}

func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

func Fatal(args ...interface{}) {
	logger.Fatal(args...)
}

func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}
