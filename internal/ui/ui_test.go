package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, false)

	l.Debugf("hidden %d", 1)
	l.Infof("hello %s", "world")
	l.Warnf("careful\n")
	l.Errorf("boom: %v", assert.AnError)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"[INFO] hello world",
		"[WARN] careful",
		"[ERROR] boom: " + assert.AnError.Error(),
	}, lines)

	buf.Reset()
	l.Debug = true
	l.Debugf("visible")
	assert.Equal(t, "[DEBUG] visible\n", buf.String())
}

func TestStats_Snapshot(t *testing.T) {
	var s Stats
	s.Requests.Add(3)
	s.Fallbacks.Add(1)
	s.Failures.Add(2)

	assert.Equal(t, StatsSnapshot{Requests: 3, Fallbacks: 1, Failures: 2}, s.Snapshot())
}

func TestProgressHandle_Completes(t *testing.T) {
	var buf bytes.Buffer
	pm := NewProgressManagerTo(&buf)

	h := pm.Register("assets")
	h.SetTotal(2)
	h.AddBytes(512)
	h.Increment()
	h.AddBytes(1024)
	h.Increment()
	h.MarkDone(false)
	h.AddBytes(10)
	pm.Close()

	assert.Equal(t, int64(1536), h.bytes.Load())
	assert.True(t, h.final.Load())
}
