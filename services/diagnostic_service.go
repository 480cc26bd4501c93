// services/diagnostic_service.go
package services

import (
	"errors"

	"oficinapro-backend/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrNoTranscription is returned when processing is requested before
	// any transcription exists.
	ErrNoTranscription = errors.New("no transcription available")
	// ErrNoExtraction is returned when item materialization is requested
	// before the diagnostic was processed.
	ErrNoExtraction = errors.New("no extracted parts available")
	// ErrNoAudio is returned when transcription is requested without audio.
	ErrNoAudio = errors.New("no audio available")
)

// DiagnosticService orchestrates the diagnostic lifecycle: create,
// transcribe, extract, and materialize extracted parts into order items.
type DiagnosticService struct {
	db     *gorm.DB
	openai OpenAI
}

func NewDiagnosticService(db *gorm.DB, openai OpenAI) *DiagnosticService {
	return &DiagnosticService{db: db, openai: openai}
}

func (s *DiagnosticService) FindByServiceOrder(tenantID, serviceOrderID uuid.UUID) ([]models.Diagnostic, error) {
	if err := s.orderInTenant(tenantID, serviceOrderID); err != nil {
		return nil, err
	}

	var diagnostics []models.Diagnostic
	err := s.db.Where("service_order_id = ?", serviceOrderID).
		Preload("Mechanic").
		Order("created_at desc").
		Find(&diagnostics).Error
	return diagnostics, err
}

// FindByID tenant-checks through the owning order; a cross-tenant hit is
// indistinguishable from true absence.
func (s *DiagnosticService) FindByID(tenantID, id uuid.UUID) (*models.Diagnostic, error) {
	var diagnostic models.Diagnostic
	err := s.db.Where("id = ?", id).
		Preload("ServiceOrder").
		Preload("Mechanic").
		First(&diagnostic).Error
	if err != nil {
		return nil, err
	}
	if diagnostic.ServiceOrder == nil || diagnostic.ServiceOrder.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return &diagnostic, nil
}

// Create registers a new diagnostic. An order still in DRAFT auto-advances
// to DIAGNOSING as a side effect.
func (s *DiagnosticService) Create(tenantID, mechanicID, serviceOrderID uuid.UUID, audioURL string, audioDuration int) (*models.Diagnostic, error) {
	var order models.ServiceOrder
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, serviceOrderID).First(&order).Error
	if err != nil {
		return nil, err
	}

	if order.Status == models.StatusDraft {
		if err := s.db.Model(&order).Update("status", models.StatusDiagnosing).Error; err != nil {
			return nil, err
		}
	}

	diagnostic := models.Diagnostic{
		ServiceOrderID: serviceOrderID,
		MechanicID:     mechanicID,
		AudioURL:       audioURL,
		AudioDuration:  audioDuration,
	}
	if err := s.db.Create(&diagnostic).Error; err != nil {
		return nil, err
	}
	return &diagnostic, nil
}

// Transcribe runs speech-to-text on the uploaded audio and stores the
// resulting transcription on the diagnostic.
func (s *DiagnosticService) Transcribe(tenantID, diagnosticID uuid.UUID, audio []byte, filename string) (*models.Diagnostic, error) {
	diagnostic, err := s.FindByID(tenantID, diagnosticID)
	if err != nil {
		return nil, err
	}

	if len(audio) == 0 && diagnostic.AudioURL == "" {
		return nil, ErrNoAudio
	}

	transcription, err := s.openai.TranscribeAudio(audio, filename)
	if err != nil {
		return nil, err
	}

	diagnostic.Transcription = transcription
	if err := s.db.Save(diagnostic).Error; err != nil {
		return nil, err
	}
	return diagnostic, nil
}

// Process extracts parts and symptoms from the stored (or manually supplied)
// transcription and overwrites any previous extraction. Each extracted part
// receives a stable UUID so later item selection survives reordering.
func (s *DiagnosticService) Process(tenantID, diagnosticID uuid.UUID, manualTranscription string) (*models.Diagnostic, *models.DiagnosticExtraction, error) {
	diagnostic, err := s.FindByID(tenantID, diagnosticID)
	if err != nil {
		return nil, nil, err
	}

	transcription := manualTranscription
	if transcription == "" {
		transcription = diagnostic.Transcription
	}
	if transcription == "" {
		return nil, nil, ErrNoTranscription
	}

	extraction, err := s.openai.ExtractDiagnostic(transcription)
	if err != nil {
		return nil, nil, err
	}
	AssignPartIDs(extraction.Parts)

	diagnostic.Transcription = transcription
	diagnostic.ExtractedParts = extraction.Parts
	diagnostic.ExtractedSymptoms = extraction.Symptoms
	if err := s.db.Save(diagnostic).Error; err != nil {
		return nil, nil, err
	}

	return diagnostic, extraction, nil
}

// CreateItemsFromExtraction materializes extracted parts into PART items on
// the owning order. selectedParts filters by the stable part IDs; nil or
// empty selects everything. Prices stay zeroed: extraction decides what work
// is needed, the operator decides what it costs. The order advances to
// QUOTING as a side effect.
func (s *DiagnosticService) CreateItemsFromExtraction(tenantID, diagnosticID uuid.UUID, selectedParts []string) ([]models.OSItem, error) {
	diagnostic, err := s.FindByID(tenantID, diagnosticID)
	if err != nil {
		return nil, err
	}

	if len(diagnostic.ExtractedParts) == 0 {
		return nil, ErrNoExtraction
	}

	partsToAdd := SelectParts(diagnostic.ExtractedParts, selectedParts)

	var items []models.OSItem
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, part := range partsToAdd {
			item := models.OSItem{
				ServiceOrderID: diagnostic.ServiceOrderID,
				Type:           models.ItemTypePart,
				Description:    ItemDescription(part),
				Quantity:       1,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			items = append(items, item)
		}

		return tx.Model(&models.ServiceOrder{}).
			Where("id = ? AND status IN ?", diagnostic.ServiceOrderID,
				[]string{models.StatusDraft, models.StatusDiagnosing}).
			Update("status", models.StatusQuoting).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"diagnostic": diagnosticID,
		"items":      len(items),
	}).Info("items created from extraction")
	return items, nil
}

// ProcessResult bundles the outcome of the composite audio/text flows.
type ProcessResult struct {
	Diagnostic *models.Diagnostic           `json:"diagnostic"`
	Extraction *models.DiagnosticExtraction `json:"extraction"`
	Items      []models.OSItem              `json:"items,omitempty"`
}

// ProcessAudio is the full flow: create diagnostic, transcribe, extract and
// optionally materialize items.
func (s *DiagnosticService) ProcessAudio(tenantID, mechanicID, serviceOrderID uuid.UUID, audio []byte, filename string, autoCreateItems bool) (*ProcessResult, error) {
	diagnostic, err := s.Create(tenantID, mechanicID, serviceOrderID, "", 0)
	if err != nil {
		return nil, err
	}

	transcription, err := s.openai.TranscribeAudio(audio, filename)
	if err != nil {
		return nil, err
	}

	diagnostic.Transcription = transcription
	if err := s.db.Save(diagnostic).Error; err != nil {
		return nil, err
	}

	return s.finishProcessing(tenantID, diagnostic.ID, transcription, autoCreateItems)
}

// ProcessText is the same flow starting from typed text instead of audio.
func (s *DiagnosticService) ProcessText(tenantID, mechanicID, serviceOrderID uuid.UUID, text string, autoCreateItems bool) (*ProcessResult, error) {
	diagnostic, err := s.Create(tenantID, mechanicID, serviceOrderID, "", 0)
	if err != nil {
		return nil, err
	}
	return s.finishProcessing(tenantID, diagnostic.ID, text, autoCreateItems)
}

func (s *DiagnosticService) finishProcessing(tenantID, diagnosticID uuid.UUID, transcription string, autoCreateItems bool) (*ProcessResult, error) {
	diagnostic, extraction, err := s.Process(tenantID, diagnosticID, transcription)
	if err != nil {
		return nil, err
	}

	result := &ProcessResult{Diagnostic: diagnostic, Extraction: extraction}
	if autoCreateItems && len(extraction.Parts) > 0 {
		items, err := s.CreateItemsFromExtraction(tenantID, diagnosticID, nil)
		if err != nil {
			return nil, err
		}
		result.Items = items
	}
	return result, nil
}

func (s *DiagnosticService) orderInTenant(tenantID, serviceOrderID uuid.UUID) error {
	var order models.ServiceOrder
	return s.db.Select("id").
		Where("tenant_id = ? AND id = ?", tenantID, serviceOrderID).
		First(&order).Error
}

// AssignPartIDs gives every extracted part a fresh stable identifier.
func AssignPartIDs(parts []models.ExtractedPart) {
	for i := range parts {
		parts[i].ID = uuid.NewString()
	}
}

// SelectParts filters parts by their stable IDs; an empty selection means
// all parts.
func SelectParts(parts []models.ExtractedPart, selected []string) []models.ExtractedPart {
	if len(selected) == 0 {
		return parts
	}
	wanted := make(map[string]bool, len(selected))
	for _, id := range selected {
		wanted[id] = true
	}
	var out []models.ExtractedPart
	for _, part := range parts {
		if wanted[part.ID] {
			out = append(out, part)
		}
	}
	return out
}

// ItemDescription builds the line-item description from an extracted part:
// capitalized action, part name, optional position.
func ItemDescription(part models.ExtractedPart) string {
	description := part.Part
	if part.Position != "" {
		description += " " + part.Position
	}
	return Capitalize(part.Action) + " - " + description
}
