package ingest

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/common"
)

// AllowedExt checks if a file extension is one the pipeline analyzes (pdf, docx).
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// ParseGCSURL splits gs://bucket/object. ok is false for anything that is not a
// gs:// reference.
func ParseGCSURL(ref string) (bucket, object string, ok bool, err error) {
	if !strings.HasPrefix(ref, "gs://") {
		return "", "", false, nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", true, common.InvalidArgumentErrorf("invalid gs url %q: %v", ref, err)
	}
	bucket = u.Host
	object = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || object == "" {
		return "", "", true, common.InvalidArgumentError(fmt.Sprintf("gs url %q needs bucket and object", ref))
	}
	return bucket, object, true, nil
}
