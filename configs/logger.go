package configs

import (
	log "github.com/sirupsen/logrus"
)

// ConfigureLogger sets the global logrus level and formatter.
// An unknown level falls back to info.
func ConfigureLogger(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithFields(log.Fields{"level": level}).Warn("Unknown log level, using info")
		lvl = log.InfoLevel
	}

	log.SetLevel(lvl)
}
