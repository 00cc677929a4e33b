package separation

import (
	"github.com/cockroachdb/errors/markers"
	"github.com/veedubyou/stem-separator/src/shared/stems"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
	"github.com/veedubyou/stem-separator/src/worker/internal/planner"
	"github.com/veedubyou/stem-separator/src/worker/internal/separator"
)

const (
	NoActiveSoundClipMessage = "No sound clip is the active clip."
	InvalidSourceMessage     = "The path of the source file needs to be absolute and not relative."
	UnavailableMessage       = "Installing spleeter module failed! Try to run as administrator."
	InvalidCountMessage      = "Stems can only be split 2, 4 or 5 ways."
	TimelineFullMessage      = "The timeline has no room for the stems."
	DefaultMessage           = "Failed to separate the clip into stems."
)

// UserMessage is what a person at the editor should be told about err
func UserMessage(err error) string {
	switch {
	case markers.Is(err, timelineentity.NoActiveSoundClipMark):
		return NoActiveSoundClipMessage
	case markers.Is(err, planner.InvalidSourceMark):
		return InvalidSourceMessage
	case markers.Is(err, separator.UnavailableMark):
		return UnavailableMessage
	case markers.Is(err, stems.InvalidCountMark):
		return InvalidCountMessage
	case markers.Is(err, timelineentity.TimelineFullMark):
		return TimelineFullMessage
	default:
		return DefaultMessage
	}
}
