package testing

import (
	"os"
	"path/filepath"

	"github.com/onsi/gomega"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
)

// WriteFakeAudio drops a placeholder media file, nothing in the tests decodes audio
func WriteFakeAudio(dir string, name string) string {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte("cool_jamz"), 0o644)
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())
	return path
}

func SoundClip(id string, filePath string, lane int) timelineentity.Clip {
	return timelineentity.NewClip(timelineentity.ClipFields{
		ID:                 id,
		Name:               filepath.Base(filePath),
		Type:               timelineentity.SoundClipType,
		FilePath:           filePath,
		Lane:               lane,
		FrameStart:         1,
		FrameFinalStart:    25,
		FrameFinalDuration: 480,
	})
}

func TimelineWithActive(id string, active timelineentity.Clip, others ...timelineentity.Clip) timelineentity.Timeline {
	timeline := timelineentity.NewTimeline(id)
	timeline.Defined.ActiveClipID = active.GetID()
	timeline.Defined.Clips = append([]timelineentity.Clip{active}, others...)
	return timeline
}
