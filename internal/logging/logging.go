// Package logging wraps logrus with the fields every layer of the cube
// stack actually attaches: which node is logging, which layer, and the
// handful of structured fields (port, destination, next hop, attempt
// count) that show up in NET/TRANSPORT logs.
// Grounded on firestige-Otus's use of logrus for structured logging,
// replacing the teacher's bare log.Printf call sites.
package logging

import "github.com/sirupsen/logrus"

// New returns a logger scoped to one node and one layer.
func New(nodeAddr byte, layer string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"node":  nodeAddr,
		"layer": layer,
	})
}

// SetLevel sets the package-wide logrus level. Called once from cmd/cube
// during startup.
func SetLevel(level logrus.Level) {
	logrus.SetLevel(level)
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
