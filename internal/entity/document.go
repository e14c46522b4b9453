package entity

import (
	"bytes"
	"io"
	"path/filepath"

	"github.com/kochan17/recruitment-app/constants"
)

// Document is an uploaded file plus its declared content type. Treat it as read-only.
type Document struct {
	Name        string                `json:"name"`
	MIMEType    string                `json:"mime_type"`
	ContentType constants.ContentType `json:"content_type"`
	Data        []byte                `json:"-"`
}

// NewDocument builds a Document from a declared MIME type. When mimeType is empty
// the file extension of name decides the format.
func NewDocument(name, mimeType string, data []byte) Document {
	if mimeType == "" {
		mimeType = constants.MIMEForExt(filepath.Ext(name))
	}
	return Document{
		Name:        name,
		MIMEType:    mimeType,
		ContentType: constants.MapContentType(mimeType),
		Data:        data,
	}
}

// Reader returns a fresh reader over the document bytes.
func (d Document) Reader() *bytes.Reader {
	return bytes.NewReader(d.Data)
}

// Size is the document length in bytes.
func (d Document) Size() int { return len(d.Data) }

// ReadDocument drains r into a Document.
func ReadDocument(name, mimeType string, r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	return NewDocument(name, mimeType, data), nil
}
