package redline

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Fields attached to every entry of a run; they are not repeated in the
// operation log.
const (
	fieldRun      = "run"
	fieldDocument = "document"
	fieldFormat   = "format"
)

// opLog is a logrus hook keeping the append-only operation log of one
// run. Warnings and errors are prefixed so the log reads on its own.
type opLog struct {
	mu       sync.Mutex
	lines    []string
	warnings int
}

func (h *opLog) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel}
}

func (h *opLog) Fire(e *logrus.Entry) error {
	var b strings.Builder
	switch e.Level {
	case logrus.WarnLevel:
		b.WriteString("WARNING: ")
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		b.WriteString("ERROR: ")
	}
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		switch k {
		case fieldRun, fieldDocument, fieldFormat:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}

	h.mu.Lock()
	h.lines = append(h.lines, b.String())
	if e.Level == logrus.WarnLevel {
		h.warnings++
	}
	h.mu.Unlock()
	return nil
}

func (h *opLog) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.lines...)
}

func (h *opLog) Warnings() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.warnings
}
