package entity

import "image"

// ExtractedImage is one raster image pulled out of a document, in document order.
type ExtractedImage struct {
	Name string // output-0.png, image-1.jpeg, ...
	Data []byte
	Page int // 1-based source page for PDFs, 0 otherwise
}

// FaceCandidate is a fixed-size crop derived from one ExtractedImage.
// It is a center crop, not a detected face.
type FaceCandidate struct {
	Name       string          `json:"name"` // face_<source name>
	SourceName string          `json:"source_name"`
	Region     image.Rectangle `json:"region"` // in source image coordinates
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Data       []byte          `json:"-"`
}
