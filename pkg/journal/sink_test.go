package journal

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLogrusSinkWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)

	sink := NewLogrusSink(log, "run-42")
	sink.NumericFailure(3, "gaussian", errors.New("variance went negative"))
	sink.PairingFallback(4, 9)

	out := buf.String()
	assert.Contains(t, out, "run-42")
	assert.Contains(t, out, "gaussian")
	assert.Contains(t, out, "variance went negative")
	assert.Contains(t, out, "player_id")
}

func TestNewLogrusSinkDefaultsToStandardLogger(t *testing.T) {
	sink := NewLogrusSink(nil, "run-default")
	assert.NotNil(t, sink)
	assert.NotPanics(t, func() { sink.PairingFallback(0, 0) })
}
