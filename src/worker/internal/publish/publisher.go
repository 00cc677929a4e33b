package publish

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
	"github.com/veedubyou/stem-separator/src/shared/stems"
	cloudstorage "github.com/veedubyou/stem-separator/src/worker/internal/cloud_storage/entity"
	"github.com/veedubyou/stem-separator/src/worker/internal/lib/storagepath"
	"github.com/veedubyou/stem-separator/src/worker/internal/planner"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

type Request struct {
	TimelineID string
	ClipID     string
	Count      stems.Count
	Clips      []planner.PlacedClip
}

// StemPublisher makes placed stems reachable by whoever reads the timeline
// and returns the clips with their final file paths
//
//counterfeiter:generate . StemPublisher
type StemPublisher interface {
	Publish(ctx context.Context, request Request) ([]planner.PlacedClip, error)
}

var _ StemPublisher = LocalPublisher{}

// LocalPublisher leaves stems where the separator wrote them
type LocalPublisher struct{}

func (LocalPublisher) Publish(_ context.Context, request Request) ([]planner.PlacedClip, error) {
	return request.Clips, nil
}

var _ StemPublisher = CloudPublisher{}

func NewCloudPublisher(fileStore cloudstorage.FileStore, pathGenerator storagepath.Generator) CloudPublisher {
	return CloudPublisher{
		fileStore:     fileStore,
		pathGenerator: pathGenerator,
	}
}

type CloudPublisher struct {
	fileStore     cloudstorage.FileStore
	pathGenerator storagepath.Generator
}

func (c CloudPublisher) Publish(ctx context.Context, request Request) ([]planner.PlacedClip, error) {
	errctx := cerr.Field("timeline_id", request.TimelineID).
		Field("clip_id", request.ClipID).
		Field("stem_count", request.Count)

	published := make([]planner.PlacedClip, 0, len(request.Clips))
	for _, clip := range request.Clips {
		stemURL := c.pathGenerator.StemURL(request.TimelineID, request.ClipID, request.Count, clip.Role)
		clipErrctx := errctx.Field("role", clip.Role).
			Field("file_path", clip.FilePath).
			Field("stem_url", stemURL)

		contents, err := os.ReadFile(clip.FilePath)
		if err != nil {
			return nil, clipErrctx.Wrap(err).Error("Failed to read stem file from disk")
		}

		if err := c.fileStore.WriteFile(ctx, stemURL, contents); err != nil {
			return nil, clipErrctx.Wrap(err).Error("Failed to upload stem file")
		}

		log.WithFields(log.Fields{
			"role":     clip.Role,
			"stemURL":  stemURL,
			"filePath": clip.FilePath,
		}).Info("Uploaded stem")

		clip.FilePath = stemURL
		published = append(published, clip)
	}

	return published, nil
}
