package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/garage-manager/internal/config"
)

func TestNewWithWriter_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&config.Config{AppEnv: "production", LogLevel: "debug"}, &buf)

	l.WithField("reminder_id", 7).Info("reminder sent")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reminder sent", entry["msg"])
	assert.Equal(t, float64(7), entry["reminder_id"])
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestNewWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	l := NewWithWriter(&config.Config{LogLevel: "loud"}, &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}
