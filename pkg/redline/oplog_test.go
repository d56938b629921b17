package redline

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestOpLog(t *testing.T) {
	hook := &opLog{}
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	l.AddHook(hook)

	log := l.WithFields(logrus.Fields{fieldRun: "r", fieldDocument: "a.pdf", fieldFormat: "current"})
	log.Info("Opening a.pdf...")
	log.Debug("not kept")
	log.WithFields(logrus.Fields{"node": 2, "text": "NODE 1"}).Info("node label found")
	log.WithError(errors.New("boom")).Warn("failed to add the stamp")
	log.Error("nothing found, aborting...")

	assert.Equal(t, []string{
		"Opening a.pdf...",
		"node label found node=2 text=NODE 1",
		"WARNING: failed to add the stamp error=boom",
		"ERROR: nothing found, aborting...",
	}, hook.Lines())
	assert.Equal(t, 1, hook.Warnings())
}
