package upload

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorRejectsNonPDF(t *testing.T) {
	v := NewValidator(Constraints{MaxSizeBytes: 1024})

	_, err := v.Validate(Document{Filename: "cv.png", Size: 100, MimeType: "image/png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image/png")
}

func TestValidatorAcceptsFileAtCeiling(t *testing.T) {
	v := NewValidator(Constraints{MaxSizeBytes: 1024})

	mime, err := v.Validate(Document{Filename: "cv.pdf", Size: 1024, MimeType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)
}

func TestValidatorRejectsFileOverCeiling(t *testing.T) {
	v := NewValidator(Constraints{MaxSizeBytes: 1024})

	_, err := v.Validate(Document{Filename: "cv.pdf", Size: 1025, MimeType: "application/pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("%d bytes", 1025))
}

func TestValidatorRejectsEmptyFile(t *testing.T) {
	v := NewValidator(Constraints{MaxSizeBytes: 1024})

	_, err := v.Validate(Document{Filename: "cv.pdf", Size: 0, MimeType: "application/pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestValidatorSniffsMissingMime(t *testing.T) {
	v := NewValidator(Constraints{MaxSizeBytes: 1024})
	content := bytes.NewReader([]byte("%PDF-1.4 minimal"))

	mime, err := v.Validate(Document{Filename: "cv.pdf", Size: 16, Content: content})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)

	// stream must be rewound for the caller
	pos, err := content.Seek(0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, pos)
}

func TestValidatorIgnoresMimeParameters(t *testing.T) {
	v := NewValidator(Constraints{MaxSizeBytes: 1024})

	mime, err := v.Validate(Document{Filename: "cv.pdf", Size: 10, MimeType: "application/pdf; charset=binary"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)
}
