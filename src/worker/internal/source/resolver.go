package source

import (
	"context"
	"path/filepath"

	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
	"github.com/veedubyou/stem-separator/src/shared/lib/errors/mark"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
	"github.com/veedubyou/stem-separator/src/worker/internal/planner"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Resolved is a source file that can be handed to the separator.
// Cleanup must be called once the stems are no longer needed on disk.
type Resolved struct {
	Path    string
	Cleanup func()
}

//counterfeiter:generate . Resolver
type Resolver interface {
	Resolve(ctx context.Context, clip timelineentity.Clip) (Resolved, error)
}

var _ Resolver = LocalResolver{}

type LocalResolver struct{}

func (LocalResolver) Resolve(_ context.Context, clip timelineentity.Clip) (Resolved, error) {
	errctx := cerr.Field("clip_id", clip.GetID()).Field("filepath", clip.Defined.FilePath)

	if clip.Defined.FilePath == "" {
		return Resolved{}, errctx.Wrap(mark.Message(planner.InvalidSourceMark, "The clip has no file")).
			Error("Failed to resolve the source file")
	}

	absPath, err := filepath.Abs(clip.Defined.FilePath)
	if err != nil {
		return Resolved{}, errctx.Wrap(mark.Wrap(err, planner.InvalidSourceMark, "Cannot make the source path absolute")).
			Error("Failed to resolve the source file")
	}

	if err := planner.ValidateSource(absPath); err != nil {
		return Resolved{}, errctx.Wrap(err).Error("Failed to resolve the source file")
	}

	return Resolved{
		Path:    absPath,
		Cleanup: func() {},
	}, nil
}
