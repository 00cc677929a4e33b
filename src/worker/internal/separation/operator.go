package separation

import (
	"context"
	"path/filepath"

	"github.com/apex/log"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
	"github.com/veedubyou/stem-separator/src/shared/lib/errors/mark"
	"github.com/veedubyou/stem-separator/src/shared/stems"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
	"github.com/veedubyou/stem-separator/src/worker/internal/planner"
	"github.com/veedubyou/stem-separator/src/worker/internal/publish"
	"github.com/veedubyou/stem-separator/src/worker/internal/separator"
	"github.com/veedubyou/stem-separator/src/worker/internal/source"
)

type Config struct {
	// OutputDir overrides where stems are written, empty means next to the source
	OutputDir string
}

func NewOperator(
	timelineStore timelineentity.Store,
	resolver source.Resolver,
	stemSeparator separator.Separator,
	publisher publish.StemPublisher,
	config Config,
) Operator {
	return Operator{
		timelineStore: timelineStore,
		resolver:      resolver,
		separator:     stemSeparator,
		publisher:     publisher,
		config:        config,
	}
}

type Operator struct {
	timelineStore timelineentity.Store
	resolver      source.Resolver
	separator     separator.Separator
	publisher     publish.StemPublisher
	config        Config
}

// SeparateActiveClip splits the timeline's active sound clip into stems and
// places each stem on its own new lane, in sync with the source
func (o Operator) SeparateActiveClip(ctx context.Context, timelineID string, count stems.Count) ([]planner.PlacedClip, error) {
	errctx := cerr.Field("timeline_id", timelineID).Field("stem_count", count)

	if !count.Valid() {
		return nil, errctx.Wrap(mark.Message(stems.InvalidCountMark, "Unsupported stem count")).
			Error("Refusing to separate")
	}

	timeline, err := o.timelineStore.GetTimeline(ctx, timelineID)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to get timeline from store")
	}

	activeClip, err := timeline.ActiveClip()
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to find a clip to separate")
	}

	errctx = errctx.Field("clip_id", activeClip.GetID())

	if err := timeline.EnsureRoomFor(len(count.Roles())); err != nil {
		return nil, errctx.Wrap(err).Error("The timeline can't take the stems")
	}

	resolved, err := o.resolver.Resolve(ctx, activeClip)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to resolve the source file")
	}
	defer resolved.Cleanup()

	errctx = errctx.Field("source_path", resolved.Path)

	outputDir := o.outputDirFor(resolved.Path)
	if err := planner.EnsureOutputDir(outputDir); err != nil {
		return nil, errctx.Wrap(err).Error("Failed to prepare the output dir")
	}

	if err := o.separator.EnsureAvailable(ctx); err != nil {
		return nil, errctx.Wrap(err).Error("The separator is unavailable")
	}

	stemPaths, err := o.separator.Separate(ctx, separator.Request{
		SourcePath: resolved.Path,
		OutputDir:  outputDir,
		Count:      count,
	})
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to separate the source")
	}

	sourceClip := planner.SourceClip{
		FilePath:           resolved.Path,
		FrameStart:         activeClip.Defined.FrameStart,
		FrameFinalStart:    activeClip.Defined.FrameFinalStart,
		FrameFinalDuration: activeClip.Defined.FrameFinalDuration,
	}

	placed, err := planner.Plan(planner.Request{
		Source:    sourceClip,
		Count:     count,
		UsedLanes: timeline.UsedLanes(),
		OutputDir: outputDir,
	}, stemPaths)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to plan stem placement")
	}

	log.WithFields(log.Fields{
		"timelineID": timelineID,
		"separated":  len(stemPaths),
		"placed":     len(placed),
	}).Info("Planned stem placement")

	placed, err = o.publisher.Publish(ctx, publish.Request{
		TimelineID: timelineID,
		ClipID:     activeClip.GetID(),
		Count:      count,
		Clips:      placed,
	})
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to publish stems")
	}

	updater := func(timeline timelineentity.Timeline) (timelineentity.Timeline, error) {
		timeline.AppendClips(ToClips(placed)...)
		return timeline, nil
	}

	if err := o.timelineStore.UpdateTimeline(ctx, timelineID, updater); err != nil {
		return nil, errctx.Wrap(err).Error("Failed to add stems to the timeline")
	}

	return placed, nil
}

func (o Operator) outputDirFor(sourcePath string) string {
	if o.config.OutputDir != "" {
		return o.config.OutputDir
	}

	return filepath.Dir(sourcePath)
}

// ToClips turns placed stems into sound clips named after their role
func ToClips(placed []planner.PlacedClip) []timelineentity.Clip {
	clips := make([]timelineentity.Clip, 0, len(placed))
	for _, p := range placed {
		clips = append(clips, timelineentity.NewClip(timelineentity.ClipFields{
			Name:               p.Role,
			Type:               timelineentity.SoundClipType,
			FilePath:           p.FilePath,
			Lane:               p.Lane,
			FrameStart:         p.FrameStart,
			FrameFinalStart:    p.Start,
			FrameFinalDuration: p.End - p.Start,
		}))
	}

	return clips
}
