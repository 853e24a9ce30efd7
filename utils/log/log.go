package log

import (
	"os"

	"github.com/blogsphere/blogsphere/utils/flag"
	"github.com/sirupsen/logrus"
)

const prodEnv = "prod"

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	// JSON outside development for log collectors, plain text locally for
	// readability.
	if os.Getenv("BLOGSPHERE_ENV") == prodEnv {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	Log = logger.WithFields(
		logrus.Fields{"service": flag.ServiceName, "is_development": os.Getenv("BLOGSPHERE_ENV") != prodEnv},
	)
}
