package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlateFromText(t *testing.T) {
	assert.Equal(t, "ABC1234", ExtractPlateFromText("Placa: ABC-1234 BRASIL"))
	assert.Equal(t, "ABC1D23", ExtractPlateFromText("abc1d23"))
	assert.Equal(t, "", ExtractPlateFromText("nenhuma placa aqui"))
}

// Mercosul takes priority when both formats appear in the raw text.
func TestExtractPlateFromTextPrefersMercosul(t *testing.T) {
	assert.Equal(t, "XYZ9K87", ExtractPlateFromText("ABC1234 XYZ9K87"))
}

func TestGeneratePlateSuggestions(t *testing.T) {
	// B misread as 8: coercing back yields the Mercosul plate.
	suggestions := GeneratePlateSuggestions("A8C1D23")
	assert.Contains(t, suggestions, "ABC1D23")

	// 5/S and 2/Z swaps on a legacy plate.
	suggestions = GeneratePlateSuggestions("5BC1234")
	assert.Contains(t, suggestions, "SBC1234")

	// A clean legacy plate survives coercion untouched.
	suggestions = GeneratePlateSuggestions("ABC1234")
	assert.Contains(t, suggestions, "ABC1234")
}

func TestGeneratePlateSuggestionsLimits(t *testing.T) {
	suggestions := GeneratePlateSuggestions("ABC1234XYZ9876QWE5432")
	assert.LessOrEqual(t, len(suggestions), 3)

	assert.Empty(t, GeneratePlateSuggestions("???"))
	assert.Empty(t, GeneratePlateSuggestions(""))
}

func TestCoercePlateUncoercible(t *testing.T) {
	// 'D' at a digit slot has no confusable digit.
	assert.Equal(t, "", coercePlate("ABCDDDD", "LLLDDDD"))
}

func TestMockVisionRecognizePlate(t *testing.T) {
	mock := &MockVision{}

	result, err := mock.RecognizePlate(nil)
	require.NoError(t, err)

	assert.Contains(t, mockPlates, result.Plate)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Contains(t, result.RawText, result.Plate)
}

func TestMockVisionAnalyzeImage(t *testing.T) {
	mock := &MockVision{}

	analysis, err := mock.AnalyzeImage(nil, "pastilha dianteira")
	require.NoError(t, err)

	require.Len(t, analysis.Parts, 1)
	assert.Equal(t, PartConditionWorn, analysis.Parts[0].Condition)
	assert.NotEmpty(t, analysis.Issues)
	assert.NotEmpty(t, analysis.Recommendations)
}

// Each capability picks live or mock independently, once, at startup.
func TestNewVisionFromEnvComposition(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	gateway := NewVisionFromEnv().(*visionGateway)
	assert.IsType(t, &MockVision{}, gateway.PlateRecognizer)
	assert.IsType(t, &MockVision{}, gateway.ImageAnalyzer)

	t.Setenv("GOOGLE_CLOUD_API_KEY", "google-key")
	gateway = NewVisionFromEnv().(*visionGateway)
	assert.IsType(t, &googlePlateClient{}, gateway.PlateRecognizer)
	assert.IsType(t, &MockVision{}, gateway.ImageAnalyzer)

	t.Setenv("OPENAI_API_KEY", "openai-key")
	gateway = NewVisionFromEnv().(*visionGateway)
	assert.IsType(t, &googlePlateClient{}, gateway.PlateRecognizer)
	assert.IsType(t, &openAIImageAnalyzer{}, gateway.ImageAnalyzer)
}
