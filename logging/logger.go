package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

func BootstrapLogger() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") != "" {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}
