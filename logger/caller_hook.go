package logger

import (
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// callerHook rewrites entry.Caller to the frame that actually invoked the
// Log/Entry wrappers. Without it every line reports logger.go as the source.
type callerHook struct{}

func (h *callerHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire walks up the stack past logrus and this package and pins the first
// foreign frame as the caller.
func (h *callerHook) Fire(entry *logrus.Entry) error {
	// 6 skips runtime.Callers, Fire itself, and the logrus hook machinery
	// between here and the wrapper methods.
	var pcs [16]uintptr
	n := runtime.Callers(6, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for more := true; more; {
		var frame runtime.Frame
		frame, more = frames.Next()
		if internalFrame(frame.Function) {
			continue
		}
		entry.Caller = &frame
		return nil
	}
	return nil
}

func internalFrame(fn string) bool {
	return strings.Contains(fn, "sirupsen/logrus") || strings.Contains(fn, "moonflow/logger")
}
