package jobs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/model"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/retention"
	"github.com/lizTheDeveloper/multiverse-bazaar/maintenance/internal/scheduler"
)

// UploadStore defines the repository interface needed by the
// orphaned-upload cleanup job.
type UploadStore interface {
	ListOrphanedBefore(ctx context.Context, cutoff time.Time) ([]*model.Upload, error)
	Delete(ctx context.Context, id string) error
}

// NewOrphanedUploadCleanup builds the job that deletes uploaded files no
// owning record claimed within the retention window, then their rows.
//
// The file goes first: if the row delete then fails, the next run sees the
// row again, finds the file already gone, and finishes the cleanup. One
// upload failing is recorded and the sweep continues.
func NewOrphanedUploadCleanup(uploads UploadStore, root string, logger *slog.Logger) scheduler.Job {
	if logger == nil {
		logger = slog.Default()
	}
	return scheduler.Job{
		Name:        "cleanup-orphaned-uploads",
		Description: "Delete uploaded files no record claimed within 30 days",
		Schedule:    "0 4 * * *",
		Enabled:     true,
		Handler: func(ctx context.Context) (*scheduler.JobResult, error) {
			cutoff := retention.OrphanedUploads.Cutoff(time.Now().UTC())
			orphans, err := uploads.ListOrphanedBefore(ctx, cutoff)
			if err != nil {
				return nil, fmt.Errorf("failed to list orphaned uploads: %w", err)
			}

			deleted := 0
			var errs []string
			for _, upload := range orphans {
				if err := removeUploadFile(root, upload.Path); err != nil {
					logger.Warn("orphaned upload file not deleted",
						"upload", upload.ID,
						"path", upload.Path,
						"error", err,
					)
					errs = append(errs, fmt.Sprintf("upload %s: %v", upload.ID, err))
					continue
				}
				if err := uploads.Delete(ctx, upload.ID); err != nil {
					logger.Warn("orphaned upload row not deleted",
						"upload", upload.ID,
						"error", err,
					)
					errs = append(errs, fmt.Sprintf("upload %s: %v", upload.ID, err))
					continue
				}
				deleted++
			}

			result := &scheduler.JobResult{
				Success: len(errs) == 0,
				Message: fmt.Sprintf("deleted %d orphaned uploads, %d failed", deleted, len(errs)),
				Details: map[string]interface{}{
					"deleted": deleted,
					"failed":  len(errs),
				},
			}
			if len(errs) > 0 {
				result.Details["errors"] = errs
			}
			return result, nil
		},
	}
}

// removeUploadFile deletes the stored file behind an upload row. A file
// already gone is not an error: the row is then the only debt left. A path
// that would escape the uploads root is refused outright.
func removeUploadFile(root, path string) error {
	if !filepath.IsLocal(path) {
		return fmt.Errorf("path %q escapes the uploads root", path)
	}
	if err := os.Remove(filepath.Join(root, path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
