package storagepath

import (
	"fmt"

	"github.com/veedubyou/stem-separator/src/shared/stems"
)

// Generator lays objects out as {host}/{bucket}/{timeline_id}/{clip_id}/{leaf}
type Generator struct {
	Host   string
	Bucket string
}

func (g Generator) GeneratePath(timelineID string, clipID string, leafPath string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", g.Host, g.Bucket, timelineID, clipID, leafPath)
}

func (g Generator) StemURL(timelineID string, clipID string, count stems.Count, role string) string {
	return g.GeneratePath(timelineID, clipID, fmt.Sprintf("%s/%s.mp3", count.DirName(), role))
}
