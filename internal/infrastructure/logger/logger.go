package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger. Local runs get text output,
// everything else JSON unless log_format says otherwise.
func Setup(env, level, format string) *logrus.Logger {
	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	switch {
	case format == "text", format == "" && env == "local":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if err != nil && level != "" {
		logger.WithField("log_level", level).Warn("unknown log level, using info")
	}

	return logger
}
