// services/openai_service.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"unicode"

	"oficinapro-backend/models"

	log "github.com/sirupsen/logrus"
)

// OpenAI turns a mechanic's unstructured input into text and a structured
// diagnostic extraction. The live implementation calls the OpenAI API; the
// mock is a deterministic keyword heuristic for running without credentials
// (a development fallback, not a substitute extraction algorithm).
type OpenAI interface {
	TranscribeAudio(audio []byte, filename string) (string, error)
	ExtractDiagnostic(transcription string) (*models.DiagnosticExtraction, error)
}

// NewOpenAIFromEnv selects the live client when OPENAI_API_KEY is set and
// the mock otherwise. Selection happens once, here, never at call sites.
func NewOpenAIFromEnv() OpenAI {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		log.Warn("OPENAI_API_KEY not set, using mock OpenAI client")
		return &MockOpenAI{}
	}
	return &openAIClient{
		apiKey:  key,
		baseURL: "https://api.openai.com/v1",
		client:  &http.Client{},
	}
}

const extractionSystemPrompt = `Você é um assistente especializado em diagnósticos automotivos.
Analise a transcrição do mecânico e extraia as seguintes informações em JSON:

{
  "parts": [
    {
      "part": "nome da peça",
      "position": "posição (dianteiro/traseiro, esquerdo/direito, se aplicável)",
      "action": "trocar/verificar/reparar/ajustar",
      "urgency": "low/medium/high",
      "notes": "observações adicionais"
    }
  ],
  "symptoms": [
    {
      "symptom": "descrição do sintoma",
      "severity": "low/medium/high",
      "relatedParts": ["peças relacionadas"]
    }
  ],
  "summary": "resumo breve do diagnóstico em 1-2 frases",
  "recommendations": ["lista de recomendações para o cliente"]
}

Regras:
- Identifique todas as peças mencionadas
- Classifique a urgência baseado no contexto (vazamento de óleo = high, barulho leve = low)
- Seja preciso nos nomes das peças automotivas
- Mantenha o português brasileiro`

type openAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// TranscribeAudio sends the audio to Whisper with Portuguese as the target
// language and returns the transcription verbatim.
func (o *openAIClient) TranscribeAudio(audio []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	writer.WriteField("model", "whisper-1")
	writer.WriteField("language", "pt")
	writer.WriteField("response_format", "text")
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, o.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whisper API error: %s", string(data))
	}

	transcription := strings.TrimSpace(string(data))
	log.WithField("chars", len(transcription)).Info("transcription completed")
	return transcription, nil
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractDiagnostic asks the model for JSON-schema-shaped output and parses
// it. An empty or malformed response is a hard error; there is no retry and
// no partial recovery.
func (o *openAIClient) ExtractDiagnostic(transcription string) (*models.DiagnosticExtraction, error) {
	payload := chatRequest{
		Model: "gpt-4o-mini",
		Messages: []chatMessage{
			{Role: "system", Content: extractionSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Transcrição do mecânico:\n\n%q", transcription)},
		},
		Temperature:    0.3,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	content, err := o.chatCompletion(payload)
	if err != nil {
		return nil, err
	}

	var extraction models.DiagnosticExtraction
	if err := json.Unmarshal([]byte(content), &extraction); err != nil {
		return nil, fmt.Errorf("malformed extraction response: %w", err)
	}

	log.WithFields(log.Fields{
		"parts":    len(extraction.Parts),
		"symptoms": len(extraction.Symptoms),
	}).Info("extraction completed")
	return &extraction, nil
}

func (o *openAIClient) chatCompletion(payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion API error: %s", string(data))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty model response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// MockOpenAI is the deterministic no-credential fallback. The keyword to
// output mapping is fixed so that demos and tests are reproducible.
type MockOpenAI struct{}

func (m *MockOpenAI) TranscribeAudio(audio []byte, filename string) (string, error) {
	return "Verificando o veículo, o amortecedor dianteiro esquerdo está vazando óleo, precisa trocar. " +
		"A coifa do câmbio também está rasgada. Freios estão ok, mas as pastilhas estão no limite, " +
		"recomendo trocar em breve.", nil
}

func (m *MockOpenAI) ExtractDiagnostic(transcription string) (*models.DiagnosticExtraction, error) {
	text := strings.ToLower(transcription)

	var parts []models.ExtractedPart
	var symptoms []models.ExtractedSymptom

	if strings.Contains(text, "amortecedor") {
		part := models.ExtractedPart{
			Part:    "Amortecedor",
			Action:  "verificar",
			Urgency: models.UrgencyMedium,
		}
		if strings.Contains(text, "dianteiro") {
			part.Position = "dianteiro"
		} else if strings.Contains(text, "traseiro") {
			part.Position = "traseiro"
		}
		if strings.Contains(text, "trocar") {
			part.Action = "trocar"
		}
		if strings.Contains(text, "vazando") {
			part.Urgency = models.UrgencyHigh
			part.Notes = "Vazamento de óleo detectado"
		}
		parts = append(parts, part)
	}

	if strings.Contains(text, "coifa") {
		part := models.ExtractedPart{
			Part:    "Coifa do câmbio",
			Action:  "verificar",
			Urgency: models.UrgencyLow,
		}
		if strings.Contains(text, "rasgada") || strings.Contains(text, "trocar") {
			part.Action = "trocar"
		}
		if strings.Contains(text, "rasgada") {
			part.Urgency = models.UrgencyMedium
		}
		parts = append(parts, part)
	}

	if strings.Contains(text, "pastilha") {
		part := models.ExtractedPart{
			Part:    "Pastilhas de freio",
			Action:  "trocar",
			Urgency: models.UrgencyLow,
			Notes:   "No limite de uso",
		}
		if strings.Contains(text, "limite") {
			part.Urgency = models.UrgencyMedium
		}
		parts = append(parts, part)
	}

	if strings.Contains(text, "vazando") || strings.Contains(text, "vazamento") {
		symptoms = append(symptoms, models.ExtractedSymptom{
			Symptom:      "Vazamento de óleo",
			Severity:     models.UrgencyHigh,
			RelatedParts: []string{"Amortecedor"},
		})
	}

	if strings.Contains(text, "barulho") || strings.Contains(text, "ruído") {
		symptoms = append(symptoms, models.ExtractedSymptom{
			Symptom:  "Ruído anormal",
			Severity: models.UrgencyMedium,
		})
	}

	recommendations := make([]string, 0, len(parts))
	for _, part := range parts {
		rec := Capitalize(part.Action) + " " + part.Part
		if part.Position != "" {
			rec += " " + part.Position
		}
		recommendations = append(recommendations, rec)
	}

	return &models.DiagnosticExtraction{
		Parts:           parts,
		Symptoms:        symptoms,
		Summary:         fmt.Sprintf("Diagnóstico identificou %d peça(s) para manutenção.", len(parts)),
		Recommendations: recommendations,
	}, nil
}

// Capitalize uppercases the first rune, safe for accented text.
func Capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
