package models

import "github.com/go-playground/validator/v10"

var validate = validator.New()

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

// AnalyzeRequest is accepted as JSON or as multipart form fields alongside a
// "resume" file part.
type AnalyzeRequest struct {
	JobDescription   string   `json:"job_description" form:"job_description"`
	ResumeDocumentID string   `json:"resume_document_id" form:"resume_document_id" validate:"omitempty,uuid"`
	ResumeText       string   `json:"resume_text" form:"resume_text"`
	Temperature      *float32 `json:"temperature" form:"temperature" validate:"omitempty,gte=0,lte=1"`
	MaxTokens        *int32   `json:"max_tokens" form:"max_tokens" validate:"omitempty,gte=100,lte=2000"`
}

type AnalyzeResponse struct {
	ID     string     `json:"id,omitempty"`
	Report *Report    `json:"report"`
	View   ReportView `json:"view"`
}

type ReportSummary struct {
	ID         string `json:"id"`
	MatchScore int    `json:"match_score"`
	CreatedAt  string `json:"created_at"`
}

type ChatRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
	Message   string `json:"message" validate:"required,max=8000"`
	ReportID  string `json:"report_id" validate:"omitempty,uuid"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Validate checks the optional tuning fields and document ID format.
func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

func (r *ChatRequest) Validate() error {
	return validate.Struct(r)
}
