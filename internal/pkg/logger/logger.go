package logger

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger for the named service.
func Init(service, environment, level string) *log.Entry {
	log.SetOutput(os.Stdout)
	if environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)

	return log.WithField("service", service)
}
