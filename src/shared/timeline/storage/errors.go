package timelinestorage

import (
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
)

var (
	DefaultErrorMark = errors.New("timeline storage error")
	TimelineNotFound = errors.New("timeline not found")
	IDEmptyMark      = errors.New("timeline ID is empty")
	MarshalMark      = errors.New("timeline could not be marshalled")
	UnmarshalMark    = errors.New("timeline could not be unmarshalled")
	ClipSizeExceeded = timelineentity.TimelineFullMark
)
