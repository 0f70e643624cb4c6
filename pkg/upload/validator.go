package upload

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	appErrors "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/errors"
)

// Document carries upload metadata and the stream reader.
type Document struct {
	Filename string
	Size     int64
	MimeType string
	Content  io.ReadSeeker
}

// Constraints bound what an uploaded document may look like.
type Constraints struct {
	MaxSizeBytes int64
	AllowedMIMEs []string
}

// Validator applies the same document checks to every upload site.
type Validator struct {
	maxSize int64
	mimeSet map[string]struct{}
}

// NewValidator constructs a validator with defaults suited to PDF uploads.
func NewValidator(c Constraints) *Validator {
	if c.MaxSizeBytes <= 0 {
		c.MaxSizeBytes = 5 * 1024 * 1024
	}
	if len(c.AllowedMIMEs) == 0 {
		c.AllowedMIMEs = []string{"application/pdf"}
	}
	mimeSet := make(map[string]struct{}, len(c.AllowedMIMEs))
	for _, mt := range c.AllowedMIMEs {
		mimeSet[strings.ToLower(strings.TrimSpace(mt))] = struct{}{}
	}
	return &Validator{maxSize: c.MaxSizeBytes, mimeSet: mimeSet}
}

// MaxSizeBytes returns the configured size ceiling.
func (v *Validator) MaxSizeBytes() int64 {
	return v.maxSize
}

// Validate checks the document against the configured constraints and
// returns the effective MIME type. A document exactly at the size ceiling
// passes; one byte over fails with the computed size in the message.
func (v *Validator) Validate(doc Document) (string, error) {
	if doc.Size == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}
	if doc.Size > v.maxSize {
		return "", appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("file size %d bytes exceeds %d bytes limit", doc.Size, v.maxSize))
	}

	mimeType, err := v.effectiveMime(doc)
	if err != nil {
		return "", err
	}
	if _, allowed := v.mimeSet[strings.ToLower(mimeType)]; !allowed {
		return "", appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("mime type %s not allowed", mimeType))
	}
	return mimeType, nil
}

func (v *Validator) effectiveMime(doc Document) (string, error) {
	declared := strings.TrimSpace(doc.MimeType)
	if idx := strings.Index(declared, ";"); idx >= 0 {
		declared = strings.TrimSpace(declared[:idx])
	}
	if declared != "" {
		return declared, nil
	}
	if doc.Content == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "mime type missing")
	}

	head := make([]byte, 512)
	n, err := doc.Content.Read(head)
	if err != nil && err != io.EOF {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sniff mime type")
	}
	if _, err := doc.Content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	sniffed := http.DetectContentType(head[:n])
	if idx := strings.Index(sniffed, ";"); idx >= 0 {
		sniffed = strings.TrimSpace(sniffed[:idx])
	}
	return sniffed, nil
}
