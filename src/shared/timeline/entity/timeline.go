package timelineentity

import (
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-separator/src/shared/lib/errors/mark"
	"github.com/veedubyou/stem-separator/src/shared/lib/jsonlib"
)

var (
	NoActiveSoundClipMark = errors.New("no active sound clip")
	TimelineFullMark      = errors.New("timeline has too many clips")
)

// MaxClips is the most clips a stored timeline may hold
const MaxClips = 256

type TimelineFields struct {
	ID           string `json:"id"`
	ActiveClipID string `json:"active_clip_id"`
	Clips        []Clip `json:"clips"`
}

type Timeline struct {
	jsonlib.Flatten[TimelineFields]
}

func NewTimeline(id string) Timeline {
	return Timeline{
		Flatten: jsonlib.NewFlatten(TimelineFields{
			ID:    id,
			Clips: []Clip{},
		}),
	}
}

func (t *Timeline) EnsureClipIDs() {
	for i := range t.Defined.Clips {
		if t.Defined.Clips[i].IsNew() {
			t.Defined.Clips[i].CreateID()
		}
	}
}

func (t Timeline) GetClip(clipID string) (Clip, error) {
	for _, clip := range t.Defined.Clips {
		if clip.GetID() == clipID {
			return clip, nil
		}
	}

	return Clip{}, errors.Newf("Failed to find clip %s in timeline", clipID)
}

// ActiveClip is the user's current selection, which must be a sound clip to be separated
func (t Timeline) ActiveClip() (Clip, error) {
	if t.Defined.ActiveClipID == "" {
		return Clip{}, mark.Message(NoActiveSoundClipMark, "No clip is the active clip")
	}

	clip, err := t.GetClip(t.Defined.ActiveClipID)
	if err != nil {
		return Clip{}, mark.Wrap(err, NoActiveSoundClipMark, "The active clip is not on the timeline")
	}

	if !clip.IsSound() {
		return Clip{}, mark.Message(NoActiveSoundClipMark, "No sound clip is the active clip")
	}

	return clip, nil
}

// UsedLanes lists every occupied lane once, in ascending order
func (t Timeline) UsedLanes() []int {
	seen := map[int]bool{}
	lanes := []int{}
	for _, clip := range t.Defined.Clips {
		lane := clip.Defined.Lane
		if seen[lane] {
			continue
		}
		seen[lane] = true
		lanes = append(lanes, lane)
	}

	sort.Ints(lanes)
	return lanes
}

func (t Timeline) EnsureRoomFor(clipCount int) error {
	if len(t.Defined.Clips)+clipCount > MaxClips {
		return mark.Message(TimelineFullMark,
			fmt.Sprintf("The timeline has %d clips, %d more would exceed %d", len(t.Defined.Clips), clipCount, MaxClips))
	}

	return nil
}

func (t *Timeline) AppendClips(clips ...Clip) {
	for _, clip := range clips {
		if clip.IsNew() {
			clip.CreateID()
		}
		t.Defined.Clips = append(t.Defined.Clips, clip)
	}
}

// SeparationErrorKey holds the user message of the last failed separation
const SeparationErrorKey = "separation_error"

func (t Timeline) SeparationError() (string, bool) {
	return t.ExtraString(SeparationErrorKey)
}

func (t *Timeline) SetSeparationError(message string) {
	t.SetExtra(SeparationErrorKey, message)
}

func (t *Timeline) ClearSeparationError() {
	t.DeleteExtra(SeparationErrorKey)
}
