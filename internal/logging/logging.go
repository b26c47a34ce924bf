// Package logging is a small structured-logging façade over logrus, used
// by the storage layers to report evictions and disk I/O failures without
// every call site constructing its own fields.
package logging

import "github.com/sirupsen/logrus"

// Log is the package-level logger. Tests and the demo binary may swap its
// output or level; production call sites only ever go through this value.
var Log = logrus.New()

// WithFields is a thin wrapper so callers don't need to import logrus
// directly just to attach structured context.
func WithFields(fields map[string]any) *logrus.Entry {
	return Log.WithFields(logrus.Fields(fields))
}
