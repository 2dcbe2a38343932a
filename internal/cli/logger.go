package cli

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger builds the command logger. Verbose runs log at debug level;
// otherwise only warnings and errors reach stderr.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: !isTerminal(w),
		FullTimestamp: true,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}
