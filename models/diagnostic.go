package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// ExtractedPart is one part the AI pulled out of a mechanic's observation.
// ID is assigned when the extraction is persisted so that item selection
// survives reordering and re-extraction.
type ExtractedPart struct {
	ID       string `json:"id"`
	Part     string `json:"part"`
	Position string `json:"position,omitempty"`
	Action   string `json:"action"`
	Urgency  string `json:"urgency"`
	Notes    string `json:"notes,omitempty"`
}

type ExtractedSymptom struct {
	Symptom      string   `json:"symptom"`
	Severity     string   `json:"severity"`
	RelatedParts []string `json:"relatedParts,omitempty"`
}

// DiagnosticExtraction is the structured output of one extraction call.
type DiagnosticExtraction struct {
	Parts           []ExtractedPart    `json:"parts"`
	Symptoms        []ExtractedSymptom `json:"symptoms"`
	Summary         string             `json:"summary"`
	Recommendations []string           `json:"recommendations"`
}

// Diagnostic is one mechanic-authored observation (audio, text or photo)
// plus its AI-derived extraction. Reprocessing overwrites the stored
// extraction; there is no versioning.
type Diagnostic struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceOrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"serviceOrderId"`
	MechanicID     uuid.UUID `gorm:"type:uuid;index;not null" json:"mechanicId"`

	AudioURL      string `json:"audioUrl"`
	AudioDuration int    `gorm:"default:0" json:"audioDuration"`
	Transcription string `gorm:"type:text" json:"transcription"`

	ExtractedParts    ExtractedPartList    `gorm:"type:jsonb" json:"extractedParts"`
	ExtractedSymptoms ExtractedSymptomList `gorm:"type:jsonb" json:"extractedSymptoms"`

	ServiceOrder *ServiceOrder `gorm:"foreignKey:ServiceOrderID" json:"serviceOrder,omitempty"`
	Mechanic     *User         `gorm:"foreignKey:MechanicID" json:"mechanic,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Diagnostic) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

// ExtractedPartList stores extracted parts as a jsonb column.
type ExtractedPartList []ExtractedPart

func (l ExtractedPartList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *ExtractedPartList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// ExtractedSymptomList stores extracted symptoms as a jsonb column.
type ExtractedSymptomList []ExtractedSymptom

func (l ExtractedSymptomList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *ExtractedSymptomList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value, dest interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(str)
	}
	return json.Unmarshal(b, dest)
}
