package controllers

import (
	"errors"
	"io"
	"net/http"

	"oficinapro-backend/services"
	"oficinapro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxAudioSize = 25 << 20 // whisper upload cap

var allowedAudioMimes = map[string]bool{
	"audio/webm": true,
	"audio/mp3":  true,
	"audio/mpeg": true,
	"audio/wav":  true,
	"audio/m4a":  true,
	"audio/mp4":  true,
}

type CreateDiagnosticInput struct {
	ServiceOrderID uuid.UUID `json:"serviceOrderId" binding:"required"`
	AudioURL       string    `json:"audioUrl"`
	AudioDuration  int       `json:"audioDuration" binding:"omitempty,min=0"`
}

type ProcessDiagnosticInput struct {
	Transcription string `json:"transcription"`
}

type CreateItemsInput struct {
	SelectedParts []string `json:"selectedParts"`
}

type ProcessTextInput struct {
	Text            string `json:"text" binding:"required,min=10"`
	AutoCreateItems bool   `json:"autoCreateItems"`
}

type AnalyzeImageInput struct {
	Context string `form:"context"`
}

// CreateDiagnostic registers a diagnostic on an order. The uploading
// mechanic is taken from the token.
func CreateDiagnostic(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	userID, ok := utils.UserID(c)
	if !ok {
		return
	}

	var input CreateDiagnosticInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	diagnostic, err := diagnosticService.Create(tenantID, userID, input.ServiceOrderID, input.AudioURL, input.AudioDuration)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Service order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create diagnostic")
		}
		return
	}

	c.JSON(http.StatusCreated, diagnostic)
}

// GetDiagnosticsByOrder lists diagnostics of one order, newest first.
func GetDiagnosticsByOrder(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("serviceOrderId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	diagnostics, err := diagnosticService.FindByServiceOrder(tenantID, orderUUID)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Service order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve diagnostics")
		}
		return
	}

	c.JSON(http.StatusOK, diagnostics)
}

func GetDiagnostic(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	diagnosticUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid diagnostic ID format")
		return
	}

	diagnostic, err := diagnosticService.FindByID(tenantID, diagnosticUUID)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Diagnostic not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, diagnostic)
}

// TranscribeDiagnostic runs speech-to-text on an uploaded audio file and
// stores the transcription.
func TranscribeDiagnostic(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	diagnosticUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid diagnostic ID format")
		return
	}

	audio, filename, ok := readAudioUpload(c)
	if !ok {
		return
	}

	diagnostic, err := diagnosticService.Transcribe(tenantID, diagnosticUUID, audio, filename)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoAudio):
			utils.RespondWithError(c, http.StatusBadRequest, "No audio available for transcription")
		case utils.IsNotFound(err):
			utils.RespondWithError(c, http.StatusNotFound, "Diagnostic not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Transcription failed: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, diagnostic)
}

// ProcessDiagnostic extracts parts and symptoms from the transcription.
// A manual transcription in the body overrides the stored one.
func ProcessDiagnostic(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	diagnosticUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid diagnostic ID format")
		return
	}

	var input ProcessDiagnosticInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	diagnostic, extraction, err := diagnosticService.Process(tenantID, diagnosticUUID, input.Transcription)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoTranscription):
			utils.RespondWithError(c, http.StatusBadRequest, "No transcription available. Transcribe the audio first or supply the text")
		case utils.IsNotFound(err):
			utils.RespondWithError(c, http.StatusNotFound, "Diagnostic not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Extraction failed: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"diagnostic": diagnostic, "extraction": extraction})
}

// CreateDiagnosticItems materializes extracted parts into order items.
func CreateDiagnosticItems(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	diagnosticUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid diagnostic ID format")
		return
	}

	var input CreateItemsInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	items, err := diagnosticService.CreateItemsFromExtraction(tenantID, diagnosticUUID, input.SelectedParts)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoExtraction):
			utils.RespondWithError(c, http.StatusBadRequest, "No extracted parts available. Process the diagnostic first")
		case utils.IsNotFound(err):
			utils.RespondWithError(c, http.StatusNotFound, "Diagnostic not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create items")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"items": items})
}

// UploadDiagnosticAudio is the one-shot flow: upload audio, transcribe,
// extract, and optionally materialize items.
func UploadDiagnosticAudio(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	userID, ok := utils.UserID(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("serviceOrderId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	audio, filename, ok := readAudioUpload(c)
	if !ok {
		return
	}

	autoCreateItems := c.PostForm("autoCreateItems") == "true"

	result, err := diagnosticService.ProcessAudio(tenantID, userID, orderUUID, audio, filename, autoCreateItems)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Service order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Audio processing failed: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ProcessDiagnosticText is the typed-text variant of the one-shot flow.
func ProcessDiagnosticText(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	userID, ok := utils.UserID(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("serviceOrderId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input ProcessTextInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := diagnosticService.ProcessText(tenantID, userID, orderUUID, input.Text, input.AutoCreateItems)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Service order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Text processing failed: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// AnalyzeDiagnosticImage runs vision analysis on a photo of a part or
// damage, tied to an order.
func AnalyzeDiagnosticImage(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("serviceOrderId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	if _, err := orderService.FindByID(tenantID, orderUUID); err != nil {
		if utils.IsNotFound(err) {
			utils.RespondWithError(c, http.StatusNotFound, "Service order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	image, ok := readImageUpload(c)
	if !ok {
		return
	}

	analysis, err := visionService.AnalyzeImage(image, c.PostForm("context"))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Image analysis failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func readAudioUpload(c *gin.Context) ([]byte, string, bool) {
	file, err := c.FormFile("audio")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Audio file is required")
		return nil, "", false
	}
	if file.Size > maxAudioSize {
		utils.RespondWithError(c, http.StatusBadRequest, "Audio exceeds the 25 MB limit")
		return nil, "", false
	}
	if !allowedAudioMimes[file.Header.Get("Content-Type")] {
		utils.RespondWithError(c, http.StatusBadRequest, "Unsupported audio format. Use webm, mp3, wav, m4a or mp4")
		return nil, "", false
	}

	f, err := file.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to read audio")
		return nil, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to read audio")
		return nil, "", false
	}
	return data, file.Filename, true
}
