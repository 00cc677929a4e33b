package timelineentity

import (
	"context"
)

type TimelineUpdater func(timeline Timeline) (Timeline, error)

type Store interface {
	GetTimeline(ctx context.Context, timelineID string) (Timeline, error)
	SetTimeline(ctx context.Context, timeline Timeline) error
	UpdateTimeline(ctx context.Context, timelineID string, updater TimelineUpdater) error
}
