// services/vision_service.go
package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
)

// PlateOCRResult is the post-processed output of a plate scan. Plate is
// empty when no plate-shaped substring was found; Suggestions carries up to
// three confusable-corrected guesses as a recovery aid.
type PlateOCRResult struct {
	Plate       string   `json:"plate"`
	Confidence  float64  `json:"confidence"`
	RawText     string   `json:"rawText"`
	Suggestions []string `json:"suggestions"`
}

const (
	PartConditionGood     = "good"
	PartConditionWorn     = "worn"
	PartConditionDamaged  = "damaged"
	PartConditionCritical = "critical"
)

// ImageAnalysisResult is the structured output of a part-photo analysis.
type ImageAnalysisResult struct {
	Description string `json:"description"`
	Parts       []struct {
		Name      string `json:"name"`
		Condition string `json:"condition"`
		Notes     string `json:"notes"`
	} `json:"parts"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// Vision covers the two image paths: license-plate OCR and part-photo
// analysis. The capabilities are independent strategies since they run
// against different providers with separate credentials.
type Vision interface {
	PlateRecognizer
	ImageAnalyzer
}

type PlateRecognizer interface {
	RecognizePlate(image []byte) (*PlateOCRResult, error)
}

type ImageAnalyzer interface {
	AnalyzeImage(image []byte, context string) (*ImageAnalysisResult, error)
}

// visionGateway composes the two capabilities chosen at startup.
type visionGateway struct {
	PlateRecognizer
	ImageAnalyzer
}

// NewVisionFromEnv selects live or mock per capability, once, at startup.
// The call paths carry no credential checks of their own.
func NewVisionFromEnv() Vision {
	var plates PlateRecognizer = &MockVision{}
	if key := os.Getenv("GOOGLE_CLOUD_API_KEY"); key != "" {
		plates = &googlePlateClient{apiKey: key, client: &http.Client{}}
	} else {
		log.Warn("GOOGLE_CLOUD_API_KEY not set, using mock plate recognition")
	}

	var images ImageAnalyzer = &MockVision{}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		images = &openAIImageAnalyzer{apiKey: key, client: &http.Client{}}
	} else {
		log.Warn("OPENAI_API_KEY not set, using mock image analysis")
	}

	return &visionGateway{PlateRecognizer: plates, ImageAnalyzer: images}
}

var (
	mercosulPattern = regexp.MustCompile(`[A-Z]{3}[0-9][A-Z][0-9]{2}`)
	legacyPattern   = regexp.MustCompile(`[A-Z]{3}[0-9]{4}`)
	windowPattern   = regexp.MustCompile(`^[A-Z0-9]{7}$`)
)

// ExtractPlateFromText pulls a Brazilian plate out of raw OCR text,
// Mercosul format first, then the legacy format.
func ExtractPlateFromText(text string) string {
	clean := strings.ToUpper(regexp.MustCompile(`\s+`).ReplaceAllString(text, ""))
	clean = strings.ReplaceAll(clean, "-", "")

	if match := mercosulPattern.FindString(clean); match != "" {
		return match
	}
	return legacyPattern.FindString(clean)
}

// Characters OCR engines commonly swap, both directions.
var digitForLetter = map[byte]byte{'O': '0', 'I': '1', 'S': '5', 'B': '8', 'G': '6', 'Z': '2'}
var letterForDigit = map[byte]byte{'0': 'O', '1': 'I', '5': 'S', '8': 'B', '6': 'G', '2': 'Z'}

// GeneratePlateSuggestions slides a 7-character window over the raw OCR text
// and coerces each window into a plate shape by substituting confusable
// characters. Returns up to 3 unique guesses.
func GeneratePlateSuggestions(rawText string) []string {
	clean := strings.ToUpper(regexp.MustCompile(`\s+`).ReplaceAllString(rawText, ""))
	clean = strings.ReplaceAll(clean, "-", "")

	var suggestions []string
	seen := map[string]bool{}

	add := func(candidate string) {
		if candidate != "" && !seen[candidate] && len(suggestions) < 3 {
			seen[candidate] = true
			suggestions = append(suggestions, candidate)
		}
	}

	for i := 0; i+7 <= len(clean); i++ {
		window := clean[i : i+7]
		if !windowPattern.MatchString(window) {
			continue
		}
		add(coercePlate(window, "LLLDLDD"))
		add(coercePlate(window, "LLLDDDD"))
	}

	return suggestions
}

// coercePlate forces a window into the given shape (L = letter, D = digit)
// using the confusable tables. Empty result when a character cannot be
// coerced.
func coercePlate(window, shape string) string {
	out := []byte(window)
	for i := 0; i < 7; i++ {
		ch := out[i]
		isDigit := ch >= '0' && ch <= '9'
		switch shape[i] {
		case 'L':
			if isDigit {
				letter, ok := letterForDigit[ch]
				if !ok {
					return ""
				}
				out[i] = letter
			}
		case 'D':
			if !isDigit {
				digit, ok := digitForLetter[ch]
				if !ok {
					return ""
				}
				out[i] = digit
			}
		}
	}
	return string(out)
}

// googlePlateClient is the live plate OCR strategy on Google Cloud Vision.
type googlePlateClient struct {
	apiKey string
	client *http.Client
}

type googleVisionResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
	} `json:"responses"`
}

// RecognizePlate runs TEXT_DETECTION and post-processes the raw OCR output
// with the plate regexes and the confusable suggestion generator.
func (g *googlePlateClient) RecognizePlate(image []byte) (*PlateOCRResult, error) {
	payload := map[string]interface{}{
		"requests": []map[string]interface{}{
			{
				"image": map[string]string{"content": base64.StdEncoding.EncodeToString(image)},
				"features": []map[string]interface{}{
					{"type": "TEXT_DETECTION", "maxResults": 10},
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := "https://vision.googleapis.com/v1/images:annotate?key=" + g.apiKey
	resp, err := g.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google vision API error: %s", string(data))
	}

	var parsed googleVisionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}

	if len(parsed.Responses) == 0 || len(parsed.Responses[0].TextAnnotations) == 0 {
		return &PlateOCRResult{Suggestions: []string{}}, nil
	}

	rawText := parsed.Responses[0].TextAnnotations[0].Description
	plate := ExtractPlateFromText(rawText)

	confidence := 0.0
	if plate != "" {
		confidence = 0.9
	}
	log.WithField("plate", plate).Info("plate OCR completed")

	return &PlateOCRResult{
		Plate:       plate,
		Confidence:  confidence,
		RawText:     rawText,
		Suggestions: GeneratePlateSuggestions(rawText),
	}, nil
}

const imageAnalysisSystemPrompt = `Você é um especialista em diagnóstico automotivo.
Analise a imagem da peça/componente e retorne um JSON com:

{
  "description": "Descrição geral do que você vê na imagem",
  "parts": [
    {
      "name": "nome da peça identificada",
      "condition": "good/worn/damaged/critical",
      "notes": "observações específicas"
    }
  ],
  "issues": ["lista de problemas identificados"],
  "recommendations": ["recomendações de manutenção/troca"]
}

Seja específico sobre:
- Sinais de desgaste (ferrugem, rachaduras, vazamentos)
- Estado das borrachas/vedações
- Nível de fluidos (se visível)
- Comparação com estado normal da peça`

// openAIImageAnalyzer is the live part-photo analysis strategy on a
// vision-capable chat model.
type openAIImageAnalyzer struct {
	apiKey string
	client *http.Client
}

// AnalyzeImage sends the photo to the model in JSON mode. Same
// parse-or-fail contract as the text extraction.
func (a *openAIImageAnalyzer) AnalyzeImage(image []byte, context string) (*ImageAnalysisResult, error) {
	userPrompt := "Analise esta imagem de peça automotiva:"
	if context != "" {
		userPrompt = fmt.Sprintf("Contexto adicional do mecânico: %q\n\nAnalise esta imagem:", context)
	}

	payload := chatRequest{
		Model: "gpt-4o",
		Messages: []chatMessage{
			{Role: "system", Content: imageAnalysisSystemPrompt},
			{
				Role: "user",
				Content: []map[string]interface{}{
					{"type": "text", "text": userPrompt},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url":    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image),
							"detail": "high",
						},
					},
				},
			},
		},
		Temperature:    0.3,
		MaxTokens:      1000,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	client := &openAIClient{apiKey: a.apiKey, baseURL: "https://api.openai.com/v1", client: a.client}
	content, err := client.chatCompletion(payload)
	if err != nil {
		return nil, err
	}

	var analysis ImageAnalysisResult
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("malformed image analysis response: %w", err)
	}

	log.WithField("parts", len(analysis.Parts)).Info("image analysis completed")
	return &analysis, nil
}

// MockVision is the no-credential fallback for both image paths.
type MockVision struct{}

var mockPlates = []string{"ABC1D23", "XYZ4E56", "BRA2E19"}

func (m *MockVision) RecognizePlate(image []byte) (*PlateOCRResult, error) {
	plate := mockPlates[rand.Intn(len(mockPlates))]
	return &PlateOCRResult{
		Plate:       plate,
		Confidence:  0.95,
		RawText:     fmt.Sprintf("Placa do veículo: %s\nBRASIL", plate),
		Suggestions: []string{},
	}, nil
}

func (m *MockVision) AnalyzeImage(image []byte, context string) (*ImageAnalysisResult, error) {
	analysis := &ImageAnalysisResult{
		Description: "Imagem de peça automotiva (modo simulação)",
		Issues: []string{
			"Desgaste avançado da pastilha",
			"Possível contaminação por óleo",
		},
		Recommendations: []string{
			"Substituir pastilhas de freio em até 5.000 km",
			"Verificar possível vazamento de fluido",
		},
	}
	analysis.Parts = append(analysis.Parts, struct {
		Name      string `json:"name"`
		Condition string `json:"condition"`
		Notes     string `json:"notes"`
	}{
		Name:      "Pastilha de freio",
		Condition: PartConditionWorn,
		Notes:     "Desgaste de aproximadamente 70%, recomendada troca em breve",
	})
	return analysis, nil
}
