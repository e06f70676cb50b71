package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("linguaquiz", "warn", &buf)

	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.WithField("key", "blob").Warn("Store unreadable")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Store unreadable", entry["message"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "linguaquiz", entry["service"])
	assert.Equal(t, "blob", entry["key"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_DefaultLevel(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, New("svc", "").GetLevel())
	assert.Equal(t, logrus.DebugLevel, New("svc", "DEBUG").GetLevel())
}
