package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// アプリ全体で使うJSONロガー。レベルはLOG_LEVELで指定（既定info）。
func New() *logrus.Logger {
	logg := logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logg.SetLevel(level)

	return logg
}
