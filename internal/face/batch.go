package face

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kochan17/recruitment-app/internal/entity"
)

// DeriveAll runs d over images with at most workers derivations in flight.
// Output keeps source order. An image that cannot be cropped yields no candidate
// and a warning; only context cancellation is returned as an error.
func DeriveAll(ctx context.Context, d Deriver, images []entity.ExtractedImage, workers int, logger *slog.Logger) ([]entity.FaceCandidate, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	start := time.Now()

	slots := make([]*entity.FaceCandidate, len(images))
	warns := make([]string, len(images))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, img := range images {
		eg.Go(func() error {
			fc, err := d.DeriveFace(gctx, img)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("face.derive.skipped", "image", img.Name, "error", err)
				warns[i] = fmt.Sprintf("%s: %v", img.Name, err)
				return nil
			}
			slots[i] = &fc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	faces := make([]entity.FaceCandidate, 0, len(images))
	var warnings []string
	for i := range images {
		if slots[i] != nil {
			faces = append(faces, *slots[i])
		}
		if warns[i] != "" {
			warnings = append(warnings, warns[i])
		}
	}
	logger.Info("face.derive.ok",
		"images", len(images),
		"faces", len(faces),
		"skipped", len(warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return faces, warnings, nil
}
