package models

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is one persisted Analyze action. ReportJSON holds the normalized
// report exactly as it is offered for download.
type Analysis struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeDocumentID *uuid.UUID `gorm:"type:uuid" json:"resume_document_id,omitempty"`
	JobDescription   string     `gorm:"type:text;not null" json:"job_description"`
	Temperature      float32    `json:"temperature"`
	MaxTokens        int32      `json:"max_tokens"`
	Provider         string     `gorm:"type:text" json:"provider"`
	MatchScore       *int       `json:"match_score,omitempty"`
	ReportJSON       string     `gorm:"type:jsonb;not null" json:"-"`
	RawResponse      string     `gorm:"type:text" json:"-"`
	CreatedAt        time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	ResumeDocument *Document `gorm:"foreignKey:ResumeDocumentID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}
