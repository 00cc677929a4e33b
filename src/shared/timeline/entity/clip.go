package timelineentity

import (
	"github.com/google/uuid"
	"github.com/veedubyou/stem-separator/src/shared/lib/jsonlib"
)

const (
	SoundClipType = "sound"
	MovieClipType = "movie"
)

type ClipFields struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Type               string `json:"type"`
	FilePath           string `json:"filepath"`
	Lane               int    `json:"channel"`
	FrameStart         int    `json:"frame_start"`
	FrameFinalStart    int    `json:"frame_final_start"`
	FrameFinalDuration int    `json:"frame_final_duration"`
}

// Clip is a strip placed on the timeline, anything the host stores
// beyond ClipFields rides along in Extra
type Clip struct {
	jsonlib.Flatten[ClipFields]
}

func NewClip(fields ClipFields) Clip {
	return Clip{
		Flatten: jsonlib.NewFlatten(fields),
	}
}

func (c Clip) GetID() string {
	return c.Defined.ID
}

func (c Clip) IsNew() bool {
	return c.Defined.ID == ""
}

func (c *Clip) CreateID() {
	if !c.IsNew() {
		panic("Cannot assign an ID to a clip that already has one")
	}

	c.Defined.ID = uuid.New().String()
}

func (c Clip) IsSound() bool {
	return c.Defined.Type == SoundClipType
}

func (c Clip) FrameFinalEnd() int {
	return c.Defined.FrameFinalStart + c.Defined.FrameFinalDuration
}
