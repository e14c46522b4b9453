package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/entity"
)

// Loader reads documents from the local filesystem or from Cloud Storage.
// The storage client is created on first gs:// use.
type Loader struct {
	logger *slog.Logger

	mu  sync.Mutex
	gcs *storage.Client
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load resolves ref (a path or gs://bucket/object) into a Document.
func (l *Loader) Load(ctx context.Context, ref string) (entity.Document, error) {
	bucket, object, isGCS, err := ParseGCSURL(ref)
	if err != nil {
		return entity.Document{}, err
	}
	if isGCS {
		return l.loadGCS(ctx, bucket, object)
	}
	return l.loadFile(ref)
}

func (l *Loader) loadFile(p string) (entity.Document, error) {
	start := time.Now()
	abs, err := filepath.Abs(p)
	if err != nil {
		return entity.Document{}, fmt.Errorf("abs path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entity.Document{}, fmt.Errorf("read %s: %w", p, common.ErrNotFound)
		}
		return entity.Document{}, fmt.Errorf("read %s: %w", p, err)
	}
	doc := entity.NewDocument(filepath.Base(abs), declaredMIME(abs, ""), data)
	l.logger.Debug("ingest.load.file", "path", abs, "bytes", len(data), "content_type", doc.ContentType,
		"elapsed_ms", time.Since(start).Milliseconds())
	return doc, nil
}

func (l *Loader) loadGCS(ctx context.Context, bucket, object string) (entity.Document, error) {
	start := time.Now()
	client, err := l.storageClient(ctx)
	if err != nil {
		return entity.Document{}, err
	}
	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return entity.Document{}, fmt.Errorf("gs://%s/%s: %w", bucket, object, common.ErrNotFound)
		}
		return entity.Document{}, fmt.Errorf("open gs://%s/%s: %w", bucket, object, err)
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			l.logger.Warn("ingest.load.gcs_close_error", "bucket", bucket, "object", object, "error", cerr)
		}
	}()

	doc, err := entity.ReadDocument(path.Base(object), declaredMIME(object, r.Attrs.ContentType), r)
	if err != nil {
		return entity.Document{}, fmt.Errorf("read gs://%s/%s: %w", bucket, object, err)
	}
	l.logger.Info("ingest.load.gcs", "bucket", bucket, "object", object, "bytes", doc.Size(),
		"content_type", doc.ContentType, "elapsed_ms", time.Since(start).Milliseconds())
	return doc, nil
}

func (l *Loader) storageClient(ctx context.Context) (*storage.Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gcs != nil {
		return l.gcs, nil
	}
	c, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	l.gcs = c
	return c, nil
}

// Close releases the storage client, if one was created.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gcs == nil {
		return nil
	}
	err := l.gcs.Close()
	l.gcs = nil
	return err
}

// declaredMIME prefers a specific declared type and falls back to the file
// extension when the declared one is empty or generic.
func declaredMIME(name, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && !strings.HasPrefix(declared, "application/octet-stream") {
		return declared
	}
	ext := filepath.Ext(name)
	if mt := constants.MIMEForExt(ext); mt != "" {
		return mt
	}
	return mime.TypeByExtension(ext)
}
