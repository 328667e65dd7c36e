package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// logger is usable before initLogger runs (tests never call it)
var logger = logrus.New()

// initLogger applies level and format from config. Unknown levels fall back to info.
func initLogger(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.SetOutput(os.Stdout)
}
