package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
)

// Setup initializes Logrus with a rotating log file. The loader also
// mirrors output to stdout so skipped-file warnings and the final row
// counts reach the operator's terminal.
func Setup() {
	// 1) Lumberjack for file rotation
	rotator := &lumberjack.Logger{
		Filename:   "./logs/app.log",
		MaxSize:    10, // megabytes
		MaxBackups: 7,  // keep up to 7 old files
		MaxAge:     7,  // days
		Compress:   true,
	}

	// 2) Configure Logrus to write to both
	logrus.SetOutput(io.MultiWriter(os.Stdout, rotator))
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.SetLevel(logrus.InfoLevel)
}

// Timed logs the duration of a named phase. Use as:
//
//	defer logger.Timed("seed")()
func Timed(phase string) func() {
	start := time.Now()
	logrus.WithField("phase", phase).Info("starting")
	return func() {
		logrus.WithFields(logrus.Fields{
			"phase":       phase,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("finished")
	}
}
