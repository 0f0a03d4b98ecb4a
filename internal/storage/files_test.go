package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("drawing.dwg", 1024))
	assert.NoError(t, ValidateUpload("photo.JPG", 5*1024*1024)) // extension check is case-insensitive
	assert.NoError(t, ValidateUpload("spec.pdf", MaxFileSize))

	err := ValidateUpload("malware.exe", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不支持的文件格式")
	assert.Contains(t, err.Error(), ".dwg")

	require.Error(t, ValidateUpload("noextension", 10))

	assert.ErrorIs(t, ValidateUpload("big.pdf", MaxFileSize+1), ErrFileTooLarge)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("attachments/inquiries", "图纸.pdf")
	assert.True(t, strings.HasPrefix(key, "attachments/inquiries/"))
	assert.True(t, strings.HasSuffix(key, "_图纸.pdf"))

	// Path components in the upload name must not escape the prefix.
	key = ObjectKey("attachments/orders", "../../etc/passwd.pdf")
	assert.True(t, strings.HasPrefix(key, "attachments/orders/"))
	assert.NotContains(t, key, "..")

	// Keys are unique per call even for the same name.
	assert.NotEqual(t, ObjectKey("p", "a.pdf"), ObjectKey("p", "a.pdf"))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatFileSize(0))
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.0 KB", FormatFileSize(1024))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "1.0 MB", FormatFileSize(1024*1024))
	assert.Equal(t, "20.0 MB", FormatFileSize(20*1024*1024))
}
