package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

type FileError struct {
	Path string
	Err  string
}

type DirStats struct {
	Scanned uint32
	Matched uint32
	Failed  uint32
}

// ScanResult lists the documents found under a root in lexical walk order.
type ScanResult struct {
	Files  []string
	Errors []FileError
	Stats  DirStats
}

// ScanDirectory walks root, keeps pdf/docx files and skips hidden entries if
// requested. Unreadable entries are recorded and the walk continues.
func ScanDirectory(root string, skipHidden bool) (ScanResult, error) {
	var out ScanResult
	if strings.TrimSpace(root) == "" {
		return out, errors.New("root path is required")
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		out.Stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			out.Errors = append(out.Errors, FileError{Path: path, Err: walkErr.Error()})
			out.Stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		out.Stats.Matched++
		out.Files = append(out.Files, path)
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("walk: %w", err)
	}
	return out, nil
}
