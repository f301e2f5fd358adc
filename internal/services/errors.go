package services

import (
	"errors"
	"fmt"
)

var (
	ErrMissingInput        = errors.New("both a resume and a job description are required")
	ErrChatUnavailable     = errors.New("chat assistant is not configured")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrSessionNotFound     = errors.New("chat session not found")
	ErrModelCall           = errors.New("model call failed")
)

// ErrNoTextContent marks a resume that decoded to blank text, such as a
// scanned PDF. It counts as missing input.
var ErrNoTextContent = fmt.Errorf("%w: no text content found", ErrMissingInput)
