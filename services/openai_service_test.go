package services

import (
	"testing"

	"oficinapro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockExtractDiagnostic(t *testing.T) {
	mock := &MockOpenAI{}

	extraction, err := mock.ExtractDiagnostic(
		"O amortecedor dianteiro esquerdo está vazando óleo, precisa trocar. " +
			"As pastilhas de freio estão no limite.")
	require.NoError(t, err)
	require.Len(t, extraction.Parts, 2)

	shock := extraction.Parts[0]
	assert.Equal(t, "Amortecedor", shock.Part)
	assert.Equal(t, "dianteiro", shock.Position)
	assert.Equal(t, "trocar", shock.Action)
	assert.Equal(t, models.UrgencyHigh, shock.Urgency)
	assert.Equal(t, "Vazamento de óleo detectado", shock.Notes)

	pads := extraction.Parts[1]
	assert.Equal(t, "Pastilhas de freio", pads.Part)
	assert.Equal(t, models.UrgencyMedium, pads.Urgency)

	require.Len(t, extraction.Symptoms, 1)
	assert.Equal(t, "Vazamento de óleo", extraction.Symptoms[0].Symptom)
	assert.Equal(t, models.UrgencyHigh, extraction.Symptoms[0].Severity)

	assert.Equal(t, "Diagnóstico identificou 2 peça(s) para manutenção.", extraction.Summary)
	require.Len(t, extraction.Recommendations, 2)
	assert.Equal(t, "Trocar Amortecedor dianteiro", extraction.Recommendations[0])
}

func TestMockExtractDiagnosticNoKeywords(t *testing.T) {
	mock := &MockOpenAI{}

	extraction, err := mock.ExtractDiagnostic("Veículo em bom estado geral.")
	require.NoError(t, err)

	assert.Empty(t, extraction.Parts)
	assert.Empty(t, extraction.Symptoms)
	assert.Empty(t, extraction.Recommendations)
	assert.Equal(t, "Diagnóstico identificou 0 peça(s) para manutenção.", extraction.Summary)
}

func TestMockExtractDiagnosticNoiseSymptom(t *testing.T) {
	mock := &MockOpenAI{}

	extraction, err := mock.ExtractDiagnostic("Tem um barulho estranho na suspensão.")
	require.NoError(t, err)

	require.Len(t, extraction.Symptoms, 1)
	assert.Equal(t, "Ruído anormal", extraction.Symptoms[0].Symptom)
	assert.Equal(t, models.UrgencyMedium, extraction.Symptoms[0].Severity)
}

func TestMockTranscribeAudioIsDeterministic(t *testing.T) {
	mock := &MockOpenAI{}

	first, err := mock.TranscribeAudio([]byte("x"), "a.webm")
	require.NoError(t, err)
	second, err := mock.TranscribeAudio(nil, "b.webm")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "amortecedor")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Trocar", Capitalize("trocar"))
	assert.Equal(t, "Óleo", Capitalize("óleo"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "A", Capitalize("a"))
}

func TestNewOpenAIFromEnvFallsBackToMock(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	client := NewOpenAIFromEnv()
	assert.IsType(t, &MockOpenAI{}, client)
}
