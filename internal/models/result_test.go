package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeRequestValidate(t *testing.T) {
	temp := func(v float32) *float32 { return &v }
	tokens := func(v int32) *int32 { return &v }

	tests := []struct {
		name    string
		req     AnalyzeRequest
		wantErr bool
	}{
		{name: "empty is structurally valid", req: AnalyzeRequest{}},
		{name: "full", req: AnalyzeRequest{JobDescription: "jd", ResumeDocumentID: "6f1c1f5e-8d2a-4a8e-9b8c-0c5b8a7d9e10", Temperature: temp(0.5), MaxTokens: tokens(1024)}},
		{name: "bounds inclusive", req: AnalyzeRequest{Temperature: temp(1), MaxTokens: tokens(100)}},
		{name: "temperature too high", req: AnalyzeRequest{Temperature: temp(1.5)}, wantErr: true},
		{name: "tokens too low", req: AnalyzeRequest{MaxTokens: tokens(50)}, wantErr: true},
		{name: "tokens too high", req: AnalyzeRequest{MaxTokens: tokens(4096)}, wantErr: true},
		{name: "bad document id", req: AnalyzeRequest{ResumeDocumentID: "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChatRequestValidate(t *testing.T) {
	assert.NoError(t, (&ChatRequest{Message: "hi"}).Validate())
	assert.Error(t, (&ChatRequest{}).Validate())
	assert.Error(t, (&ChatRequest{Message: "hi", ReportID: "nope"}).Validate())
}
