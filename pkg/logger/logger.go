package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Usable before InitLoggers runs; InitLoggers swaps in the rotating-file
// versions.
var (
	InfoLogger  = logrus.New()
	ErrorLogger = logrus.New()
)

// InitLoggers sets up the shared loggers. Log files rotate via lumberjack;
// everything is mirrored to stdout/stderr so container logs stay useful.
func InitLoggers() {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	InfoLogger = newLogger(logDir+"/info.log", os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(logDir+"/error.log", os.Stderr, logrus.ErrorLevel)
}

func newLogger(file string, console io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(io.MultiWriter(console, &lumberjack.Logger{
		Filename:   file,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}))
	return l
}
