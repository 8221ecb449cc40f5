package boundary

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/landgrid/internal/fetcher"
)

// ErrDownload marks a failure to fetch the boundary dataset.
var ErrDownload = eris.New("boundary: download failed")

// EnsureCached returns path, downloading url into it first when no non-empty
// file exists there yet. The download lands in a temporary file that is only
// renamed into place once complete, so a failed fetch never leaves a partial
// cache behind.
func EnsureCached(ctx context.Context, f fetcher.Fetcher, url, path string) (string, error) {
	log := zap.L().With(
		zap.String("component", "boundary.cache"),
		zap.String("path", path),
	)

	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		log.Debug("boundary dataset already cached, skipping download")
		return path, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", eris.Wrap(err, "boundary: create cache dir")
		}
	}

	tmp := path + ".part"
	log.Info("downloading boundary dataset", zap.String("url", url))

	n, err := f.DownloadToFile(ctx, url, tmp)
	if err != nil {
		_ = os.Remove(tmp)
		return "", eris.Wrapf(ErrDownload, "%s: %v", url, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", eris.Wrap(err, "boundary: move download into cache")
	}

	log.Info("download complete", zap.Int64("bytes", n))
	return path, nil
}
