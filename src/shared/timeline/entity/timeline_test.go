package timelineentity_test

import (
	"encoding/json"

	"github.com/cockroachdb/errors/markers"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
)

var _ = Describe("Timeline", func() {
	var (
		timeline  timelineentity.Timeline
		soundClip timelineentity.Clip
		movieClip timelineentity.Clip
	)

	BeforeEach(func() {
		soundClip = timelineentity.NewClip(timelineentity.ClipFields{
			ID:                 "sound-1",
			Name:               "mix",
			Type:               timelineentity.SoundClipType,
			FilePath:           "/media/mix.wav",
			Lane:               3,
			FrameStart:         10,
			FrameFinalStart:    24,
			FrameFinalDuration: 200,
		})

		movieClip = timelineentity.NewClip(timelineentity.ClipFields{
			ID:   "movie-1",
			Type: timelineentity.MovieClipType,
			Lane: 1,
		})

		timeline = timelineentity.NewTimeline("timeline-1")
		timeline.Defined.Clips = []timelineentity.Clip{soundClip, movieClip}
	})

	Describe("ActiveClip", func() {
		It("returns the active sound clip", func() {
			timeline.Defined.ActiveClipID = "sound-1"
			clip, err := timeline.ActiveClip()
			Expect(err).NotTo(HaveOccurred())
			Expect(clip).To(Equal(soundClip))
			Expect(clip.FrameFinalEnd()).To(Equal(224))
		})

		DescribeTable("refuses anything but a sound clip",
			func(activeID string) {
				timeline.Defined.ActiveClipID = activeID
				_, err := timeline.ActiveClip()
				Expect(err).To(HaveOccurred())
				Expect(markers.Is(err, timelineentity.NoActiveSoundClipMark)).To(BeTrue())
			},
			Entry("nothing selected", ""),
			Entry("unknown clip", "ghost"),
			Entry("movie clip", "movie-1"),
		)
	})

	Describe("UsedLanes", func() {
		It("is empty for an empty timeline", func() {
			Expect(timelineentity.NewTimeline("empty").UsedLanes()).To(BeEmpty())
		})

		It("de-duplicates and sorts", func() {
			timeline.AppendClips(
				timelineentity.NewClip(timelineentity.ClipFields{Lane: 5}),
				timelineentity.NewClip(timelineentity.ClipFields{Lane: 3}),
			)
			Expect(timeline.UsedLanes()).To(Equal([]int{1, 3, 5}))
		})
	})

	Describe("AppendClips", func() {
		It("assigns IDs to new clips", func() {
			timeline.AppendClips(timelineentity.NewClip(timelineentity.ClipFields{Name: "vocals"}))
			Expect(timeline.Defined.Clips).To(HaveLen(3))
			Expect(timeline.Defined.Clips[2].GetID()).NotTo(BeEmpty())
		})

		It("keeps existing IDs", func() {
			timeline.AppendClips(timelineentity.NewClip(timelineentity.ClipFields{ID: "keep-me"}))
			Expect(timeline.Defined.Clips[2].GetID()).To(Equal("keep-me"))
		})
	})

	Describe("EnsureRoomFor", func() {
		It("allows filling the timeline exactly", func() {
			Expect(timeline.EnsureRoomFor(timelineentity.MaxClips - 2)).To(Succeed())
		})

		It("refuses clips past the limit", func() {
			err := timeline.EnsureRoomFor(timelineentity.MaxClips - 1)
			Expect(markers.Is(err, timelineentity.TimelineFullMark)).To(BeTrue())
		})
	})

	Describe("EnsureClipIDs", func() {
		It("only fills in missing IDs", func() {
			timeline.Defined.Clips = append(timeline.Defined.Clips, timelineentity.NewClip(timelineentity.ClipFields{Lane: 4}))
			timeline.EnsureClipIDs()

			Expect(timeline.Defined.Clips[0].GetID()).To(Equal("sound-1"))
			Expect(timeline.Defined.Clips[1].GetID()).To(Equal("movie-1"))
			Expect(timeline.Defined.Clips[2].GetID()).NotTo(BeEmpty())
		})
	})

	Describe("JSON", func() {
		It("carries host fields it doesn't know about", func() {
			input := `{
				"id": "timeline-1",
				"active_clip_id": "sound-1",
				"fps": 24,
				"clips": [{
					"id": "sound-1",
					"name": "mix",
					"type": "sound",
					"filepath": "/media/mix.wav",
					"channel": 3,
					"frame_start": 10,
					"frame_final_start": 24,
					"frame_final_duration": 200,
					"volume": 0.5
				}]
			}`

			parsed := timelineentity.Timeline{}
			Expect(json.Unmarshal([]byte(input), &parsed)).To(Succeed())

			Expect(parsed.Extra).To(HaveKeyWithValue("fps", float64(24)))
			Expect(parsed.Defined.Clips).To(HaveLen(1))
			Expect(parsed.Defined.Clips[0].Defined.Lane).To(Equal(3))
			Expect(parsed.Defined.Clips[0].Extra).To(HaveKeyWithValue("volume", 0.5))

			roundTrip, err := json.Marshal(parsed)
			Expect(err).NotTo(HaveOccurred())
			Expect(roundTrip).To(MatchJSON(input))
		})
	})

	Describe("SeparationError", func() {
		It("is absent on a fresh timeline", func() {
			_, ok := timeline.SeparationError()
			Expect(ok).To(BeFalse())
		})

		It("is stored as a host field and can be cleared", func() {
			timeline.SetSeparationError("No sound clip is the active clip.")

			message, ok := timeline.SeparationError()
			Expect(ok).To(BeTrue())
			Expect(message).To(Equal("No sound clip is the active clip."))

			timelineJSON, err := json.Marshal(timeline)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(timelineJSON)).To(ContainSubstring(`"separation_error"`))

			timeline.ClearSeparationError()
			_, ok = timeline.SeparationError()
			Expect(ok).To(BeFalse())
		})
	})
})
