package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		want        string
		wantErr     bool
	}{
		{"resume.PDF", "", MimePDF, false},
		{"resume.docx", "application/octet-stream", MimeDOCX, false},
		{"notes.txt", "", MimeText, false},
		{"blob", "text/plain; charset=utf-8", MimeText, false},
		{"photo.png", "image/png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectContentType(tt.filename, tt.contentType)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFileType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPlainText(t *testing.T) {
	text, err := NewTextExtractor().ExtractText([]byte("Go developer\nKubernetes"), "resume.txt", "")

	require.NoError(t, err)
	assert.Equal(t, "Go developer\nKubernetes", text)
}

func TestExtractTextErrors(t *testing.T) {
	extractor := NewTextExtractor()

	_, err := extractor.ExtractText([]byte("   \n"), "empty.txt", "")
	assert.ErrorIs(t, err, ErrNoTextContent)
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = extractor.ExtractText([]byte("%PDF-not-really"), "broken.pdf", "")
	assert.Error(t, err)

	_, err = extractor.ExtractText([]byte("not a zip"), "broken.docx", "")
	assert.Error(t, err)

	_, err = extractor.ExtractText([]byte("data"), "image.png", "image/png")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestStorageName(t *testing.T) {
	assert.Equal(t, "cv.pdf", StorageName("cv.pdf", MimeText))
	assert.Equal(t, "resume.pdf", StorageName("resume", MimePDF))
	assert.Equal(t, "resume.final.docx", StorageName("resume.final", MimeDOCX))
	assert.Equal(t, "photo.png", StorageName("photo.png", "image/png"))
}
