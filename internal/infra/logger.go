package infra

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/umalmyha/insurance-crm/internal/config"
)

// Logger configures standard logrus logger
func Logger(cfg config.LogCfg) error {
	lvl, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("failed to parse log level - %w", err)
	}
	logrus.SetLevel(lvl)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
