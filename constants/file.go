package constants

import (
	"mime"
	"strings"
)

// ContentType is the document format the pipeline dispatches on.
type ContentType string

const (
	PDF         ContentType = "PDF"
	DOCX        ContentType = "DOCX"
	Unsupported ContentType = "UNSUPPORTED"
)

// Declared MIME types for the supported formats.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// UnsupportedFileText is what text extraction returns for anything that is not PDF or DOCX.
const UnsupportedFileText = "Unsupported file type"

// AllowedExtensions holds the file extensions picked up by directory scans and the watcher.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapContentType maps a declared MIME type (parameters allowed) to a ContentType.
func MapContentType(mimeType string) ContentType {
	mt, _, err := mime.ParseMediaType(strings.TrimSpace(mimeType))
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(mimeType))
	}
	switch mt {
	case MIMEPDF:
		return PDF
	case MIMEDOCX:
		return DOCX
	default:
		return Unsupported
	}
}

// MapExtToFormat returns the format for a normalized file extension.
func MapExtToFormat(ext string) ContentType {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "docx":
		return DOCX
	default:
		return Unsupported
	}
}

// MIMEForExt returns the declared MIME type for an extension, or "" when unknown.
func MIMEForExt(ext string) string {
	switch MapExtToFormat(ext) {
	case PDF:
		return MIMEPDF
	case DOCX:
		return MIMEDOCX
	default:
		return ""
	}
}
