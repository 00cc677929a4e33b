package timelinestorage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-separator/src/shared/lib/errors/mark"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
)

const timelineFileExt = ".json"

var _ timelineentity.Store = FileStore{}

// FileStore keeps one JSON document per timeline inside a directory,
// this is what the host editor exports and reads back
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (FileStore, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return FileStore{}, errors.Wrap(err, "Failed to convert timeline dir to absolute format")
	}

	if err := os.MkdirAll(absDir, os.ModePerm); err != nil {
		return FileStore{}, errors.Wrap(err, "Failed to create timeline dir")
	}

	return FileStore{dir: absDir}, nil
}

func (f FileStore) Dir() string {
	return f.dir
}

func (f FileStore) GetTimeline(ctx context.Context, timelineID string) (timelineentity.Timeline, error) {
	path, err := f.timelinePath(timelineID)
	if err != nil {
		return timelineentity.Timeline{}, err
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return timelineentity.Timeline{}, mark.Wrap(err, TimelineNotFound, "Timeline is not found")
		}

		return timelineentity.Timeline{}, mark.Wrap(err, DefaultErrorMark, "Failed to read timeline file")
	}

	timeline := timelineentity.Timeline{}
	if err := json.Unmarshal(contents, &timeline); err != nil {
		return timelineentity.Timeline{}, mark.Wrap(err, UnmarshalMark, "Failed to parse timeline file")
	}

	if timeline.Defined.ID == "" {
		timeline.Defined.ID = timelineID
	}

	return timeline, nil
}

func (f FileStore) SetTimeline(ctx context.Context, timeline timelineentity.Timeline) error {
	if _, err := validateAndMarshal(timeline); err != nil {
		return err
	}

	path, err := f.timelinePath(timeline.Defined.ID)
	if err != nil {
		return err
	}

	contents, err := json.MarshalIndent(timeline, "", "  ")
	if err != nil {
		return mark.Wrap(err, MarshalMark, "Failed to serialize timeline")
	}

	// write then rename so the host never sees half a document
	tempFile, err := os.CreateTemp(f.dir, ".timeline-*")
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to create temp timeline file")
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(contents); err != nil {
		_ = tempFile.Close()
		return mark.Wrap(err, DefaultErrorMark, "Failed to write temp timeline file")
	}

	if err := tempFile.Close(); err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to close temp timeline file")
	}

	if err := os.Rename(tempFile.Name(), path); err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to move timeline file into place")
	}

	return nil
}

func (f FileStore) UpdateTimeline(ctx context.Context, timelineID string, updater timelineentity.TimelineUpdater) error {
	timeline, err := f.GetTimeline(ctx, timelineID)
	if err != nil {
		return errors.Wrap(err, "Can't find the timeline to update")
	}

	updated, err := updater(timeline)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "The updater failed to make changes to the timeline")
	}

	updated.Defined.ID = timelineID
	// host exported clips may come without an id
	updated.EnsureClipIDs()

	return f.SetTimeline(ctx, updated)
}

func (f FileStore) timelinePath(timelineID string) (string, error) {
	if timelineID == "" {
		return "", mark.Message(IDEmptyMark, "No timeline ID was provided")
	}

	if strings.ContainsAny(timelineID, `/\`) || timelineID == "." || timelineID == ".." {
		return "", mark.Message(TimelineNotFound, "Timeline ID cannot contain path separators")
	}

	return filepath.Join(f.dir, timelineID+timelineFileExt), nil
}
