package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/common"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestParseGCSURL(t *testing.T) {
	tests := []struct {
		ref            string
		bucket, object string
		ok, wantErr    bool
	}{
		{"gs://resumes/2024/a.pdf", "resumes", "2024/a.pdf", true, false},
		{"gs://resumes/", "", "", true, true},
		{"gs:///a.pdf", "", "", true, true},
		{"/tmp/a.pdf", "", "", false, false},
		{"resume.docx", "", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			b, o, ok, err := ParseGCSURL(tt.ref)
			assert.Equal(t, tt.ok, ok)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "InvalidArgument", common.ToStatus(err).Code().String())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, b)
			assert.Equal(t, tt.object, o)
		})
	}
}

func TestLoader_LocalFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.PDF"), "%PDF")
	writeFile(t, filepath.Join(dir, "b.docx"), "PK")
	writeFile(t, filepath.Join(dir, "c.txt"), "plain")

	l := NewLoader(nil)
	defer func() { _ = l.Close() }()

	doc, err := l.Load(context.Background(), filepath.Join(dir, "a.PDF"))
	require.NoError(t, err)
	assert.Equal(t, "a.PDF", doc.Name)
	assert.Equal(t, constants.PDF, doc.ContentType)
	assert.Equal(t, []byte("%PDF"), doc.Data)

	doc, err = l.Load(context.Background(), filepath.Join(dir, "b.docx"))
	require.NoError(t, err)
	assert.Equal(t, constants.DOCX, doc.ContentType)

	doc, err = l.Load(context.Background(), filepath.Join(dir, "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, constants.Unsupported, doc.ContentType)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeclaredMIME(t *testing.T) {
	assert.Equal(t, constants.MIMEPDF, declaredMIME("x.pdf", ""))
	assert.Equal(t, constants.MIMEDOCX, declaredMIME("x.docx", "application/octet-stream"))
	assert.Equal(t, "text/plain", declaredMIME("x.pdf", "text/plain"))
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "x")
	writeFile(t, filepath.Join(root, "sub", "b.docx"), "x")
	writeFile(t, filepath.Join(root, "sub", "notes.txt"), "x")
	writeFile(t, filepath.Join(root, ".hidden", "c.pdf"), "x")
	writeFile(t, filepath.Join(root, ".d.pdf"), "x")

	res, err := ScanDirectory(root, true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.pdf"), filepath.Join(root, "sub", "b.docx")}, res.Files)
	assert.Equal(t, uint32(2), res.Stats.Matched)
	assert.Zero(t, res.Stats.Failed)

	res, err = ScanDirectory(root, false)
	require.NoError(t, err)
	assert.Len(t, res.Files, 4)
}

func TestScanDirectory_BadRoot(t *testing.T) {
	_, err := ScanDirectory("", true)
	assert.Error(t, err)

	_, err = ScanDirectory(filepath.Join(t.TempDir(), "missing"), true)
	assert.Error(t, err)
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return ""
	}
}

func TestStartWatcher_InitialScanAndNewFiles(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "old.pdf")
	writeFile(t, existing, "x")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    20 * time.Millisecond,
		SkipHidden:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, existing, receive(t, events))

	writeFile(t, filepath.Join(root, "ignored.txt"), "x")
	writeFile(t, filepath.Join(root, ".tmp.pdf"), "x")
	fresh := filepath.Join(root, "new.docx")
	writeFile(t, fresh, "x")
	assert.Equal(t, fresh, receive(t, events))

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
