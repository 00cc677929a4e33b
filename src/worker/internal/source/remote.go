package source

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/cockroachdb/errors/markers"
	"github.com/google/uuid"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
	"github.com/veedubyou/stem-separator/src/shared/lib/errors/mark"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
	cloudstorage "github.com/veedubyou/stem-separator/src/worker/internal/cloud_storage/entity"
	"github.com/veedubyou/stem-separator/src/worker/internal/lib/working_dir"
	"github.com/veedubyou/stem-separator/src/worker/internal/planner"
)

var _ Resolver = RemoteResolver{}

func NewRemoteResolver(workingDirStr string, fileStore cloudstorage.FileStore) (RemoteResolver, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return RemoteResolver{}, cerr.Wrap(err).Error("Failed to prepare the download working dir")
	}

	return RemoteResolver{
		workingDir: workingDir,
		fileStore:  fileStore,
	}, nil
}

// RemoteResolver downloads clips stored at a URL into the working dir,
// clips that point at the local disk are resolved in place
type RemoteResolver struct {
	workingDir working_dir.WorkingDir
	fileStore  cloudstorage.FileStore
	local      LocalResolver
}

func IsRemote(filePath string) bool {
	return strings.HasPrefix(filePath, "https://") || strings.HasPrefix(filePath, "http://")
}

func (r RemoteResolver) Resolve(ctx context.Context, clip timelineentity.Clip) (Resolved, error) {
	sourceURL := clip.Defined.FilePath
	if !IsRemote(sourceURL) {
		return r.local.Resolve(ctx, clip)
	}

	errctx := cerr.Field("clip_id", clip.GetID()).Field("source_url", sourceURL)

	fileName, err := remoteFileName(sourceURL)
	if err != nil {
		return Resolved{}, errctx.Wrap(err).Error("Failed to resolve the source file")
	}

	contents, err := r.fileStore.GetFile(ctx, sourceURL)
	if err != nil {
		if markers.Is(err, cloudstorage.FileNotFoundMark) {
			err = mark.Wrap(err, planner.InvalidSourceMark, "The source file does not exist")
		}
		return Resolved{}, errctx.Wrap(err).Error("Failed to download the source file")
	}

	downloadDir := filepath.Join(r.workingDir.TempDir(), uuid.New().String())
	cleanup := func() {
		if err := os.RemoveAll(downloadDir); err != nil {
			log.WithFields(log.Fields{
				"downloadDir": downloadDir,
				"error":       err.Error(),
			}).Error("Failed to clean up downloaded source")
		}
	}

	if err := os.MkdirAll(downloadDir, os.ModePerm); err != nil {
		return Resolved{}, errctx.Wrap(err).Error("Failed to create the download dir")
	}

	localPath := filepath.Join(downloadDir, fileName)
	if err := os.WriteFile(localPath, contents, 0o644); err != nil {
		cleanup()
		return Resolved{}, errctx.Field("local_path", localPath).
			Wrap(err).Error("Failed to write the downloaded source to disk")
	}

	log.WithFields(log.Fields{
		"sourceURL": sourceURL,
		"localPath": localPath,
	}).Info("Downloaded source file")

	return Resolved{
		Path:    localPath,
		Cleanup: cleanup,
	}, nil
}

func remoteFileName(sourceURL string) (string, error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return "", mark.Wrap(err, planner.InvalidSourceMark, "The source URL cannot be parsed")
	}

	fileName := path.Base(parsed.Path)
	if fileName == "." || fileName == "/" {
		return "", mark.Message(planner.InvalidSourceMark, "The source URL does not name a file")
	}

	return fileName, nil
}
