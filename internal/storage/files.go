package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Upload rules carried over from the original portal: drawings and office
// documents only, capped at 20MB.

const MaxFileSize = 20 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true,
	".dwg": true, ".dxf": true,
	".ppt": true, ".pptx": true, ".doc": true, ".docx": true,
}

var ErrFileTooLarge = errors.New("文件大小不能超过 20MB")

// ValidateUpload checks extension and size before anything is persisted.
func ValidateUpload(fileName string, size int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[ext] {
		exts := []string{".pdf", ".jpg", ".jpeg", ".png", ".dwg", ".dxf", ".ppt", ".pptx", ".doc", ".docx"}
		return fmt.Errorf("不支持的文件格式。允许的格式：%s", strings.Join(exts, ", "))
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// ObjectKey builds a bucket path like
// attachments/inquiries/2025/01/<uuid>_<name>, keeping the original base name
// for download friendliness.
func ObjectKey(prefix, fileName string) string {
	now := time.Now()
	base := filepath.Base(fileName)
	return fmt.Sprintf("%s/%d/%02d/%s_%s", prefix, now.Year(), now.Month(), uuid.NewString(), base)
}

// FormatFileSize renders a byte count the way the portal UI shows it.
func FormatFileSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
