package dummy

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
)

var _ timelineentity.Store = &TimelineStore{}

func NewDummyTimelineStore() *TimelineStore {
	return &TimelineStore{
		Unavailable: false,
		State:       make(map[string][]byte),
	}
}

// TimelineStore keeps timelines serialized so callers never share state with it
type TimelineStore struct {
	Unavailable bool
	State       map[string][]byte
	mutex       sync.RWMutex
}

func (t *TimelineStore) GetTimeline(_ context.Context, timelineID string) (timelineentity.Timeline, error) {
	if t.Unavailable {
		return timelineentity.Timeline{}, NetworkFailure
	}

	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.get(timelineID)
}

func (t *TimelineStore) get(timelineID string) (timelineentity.Timeline, error) {
	timelineJSON, ok := t.State[timelineID]
	if !ok {
		return timelineentity.Timeline{}, NotFound
	}

	timeline := timelineentity.Timeline{}
	if err := json.Unmarshal(timelineJSON, &timeline); err != nil {
		return timelineentity.Timeline{}, cerr.Wrap(err).Error("Failed to unmarshal stored timeline")
	}

	return timeline, nil
}

func (t *TimelineStore) SetTimeline(_ context.Context, timeline timelineentity.Timeline) error {
	if t.Unavailable {
		return NetworkFailure
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.set(timeline)
}

func (t *TimelineStore) set(timeline timelineentity.Timeline) error {
	timeline.EnsureClipIDs()

	timelineJSON, err := json.Marshal(timeline)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to marshal timeline")
	}

	t.State[timeline.Defined.ID] = timelineJSON
	return nil
}

func (t *TimelineStore) UpdateTimeline(_ context.Context, timelineID string, updater timelineentity.TimelineUpdater) error {
	if t.Unavailable {
		return NetworkFailure
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	timeline, err := t.get(timelineID)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to get timeline from store")
	}

	updated, err := updater(timeline)
	if err != nil {
		return cerr.Wrap(err).Error("Timeline update function failed")
	}

	if len(updated.Defined.Clips) > timelineentity.MaxClips {
		return cerr.Wrap(timelineentity.TimelineFullMark).Error("Timeline has too many clips to store")
	}

	return t.set(updated)
}
