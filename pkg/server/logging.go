package server

import "github.com/sirupsen/logrus"

// defaultLogger returns a component-tagged logrus entry, used by any server
// constructor that isn't given an explicit logger.
func defaultLogger() logger {
	return componentLogger(logrus.StandardLogger())
}

// componentLogger tags log with the server component field, so embedding
// applications can route server output through their own logrus instance.
func componentLogger(log *logrus.Logger) logger {
	return log.WithField("component", "erpc-server")
}
