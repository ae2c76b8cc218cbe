package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/predictsports-engine/internal/ensemble"
	"github.com/yourusername/predictsports-engine/internal/logger"
	"github.com/yourusername/predictsports-engine/internal/service"
)

func TestReadMatchFromFile(t *testing.T) {
	input, err := readMatch(strings.NewReader(""), "testdata/match.json")
	require.NoError(t, err)
	assert.Equal(t, 33, input.HomeTeamID)
	assert.Equal(t, 40, input.AwayTeamID)
	require.NotNil(t, input.HomeForm)
	assert.Equal(t, "WWDWL", *input.HomeForm)
}

func TestReadMatchFromStdin(t *testing.T) {
	input, err := readMatch(strings.NewReader(`{"home_team_id":1,"away_team_id":2}`), "-")
	require.NoError(t, err)
	assert.Equal(t, 1, input.HomeTeamID)
	assert.Nil(t, input.HomeXG)
}

func TestReadMatchErrors(t *testing.T) {
	_, err := readMatch(strings.NewReader(""), "testdata/missing.json")
	assert.ErrorContains(t, err, "failed to open match file")

	_, err = readMatch(strings.NewReader("{"), "-")
	assert.ErrorContains(t, err, "failed to decode match")
}

func TestLocalPredictionOutput(t *testing.T) {
	input, err := readMatch(nil, "testdata/match.json")
	require.NoError(t, err)

	svc := service.NewPredictionService(ensemble.NewEngine(), service.Options{
		Logger:       logger.Discard(),
		ModelVersion: "test",
	})
	resp, err := svc.Predict(context.Background(), input)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, resp))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "33_vs_40", decoded["match_id"])
	assert.Equal(t, "test", decoded["model_version"])
	assert.Contains(t, buf.String(), "\n  \"success\": true")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "engine dev (commit unknown, built unknown)\n", buf.String())
}
