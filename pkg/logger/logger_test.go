package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-farma/pkg/logger"
)

func TestNewWithWriter_EscribeJSONConCampos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "info")

	log.Info().Int64("comercial_id", 7).Msg("asignación masiva completada")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, float64(7), line["comercial_id"])
	assert.Equal(t, "asignación masiva completada", line["message"])
}

func TestNewWithWriter_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "warn")

	log.Info().Msg("descartado")
	assert.Empty(t, buf.String())

	log.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNop_NoEscribe(t *testing.T) {
	log := logger.Nop()
	assert.NotPanics(t, func() { log.Error().Msg("nada") })
}
