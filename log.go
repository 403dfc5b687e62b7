package iec104

import "github.com/sirupsen/logrus"

var _lg = logrus.New()

// SetLogger installs lg as the package-wide logger. Link connect/close,
// sent frames, fatal errors and dropped events are logged through it; the
// Framer does not log, so resyncs are silent. Logging is advisory only and
// never on the path that decides correctness.
func SetLogger(lg *logrus.Logger) {
	if lg != nil {
		_lg = lg
	}
}
