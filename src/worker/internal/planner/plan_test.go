package planner_test

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors/markers"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-separator/src/shared/stems"
	. "github.com/veedubyou/stem-separator/src/shared/testing"
	"github.com/veedubyou/stem-separator/src/worker/internal/planner"
)

type mapOutputs map[string]string

func (m mapOutputs) Lookup(role string) (string, bool) {
	path, ok := m[role]
	return path, ok
}

var _ = Describe("Plan", func() {
	var (
		dir        string
		sourcePath string
		source     planner.SourceClip
		request    planner.Request
	)

	writeStems := func(roles ...string) {
		stemDir := planner.StemDir(dir, sourcePath)
		Expect(os.MkdirAll(stemDir, os.ModePerm)).To(Succeed())
		for _, role := range roles {
			WriteFakeAudio(stemDir, role+".mp3")
		}
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		sourcePath = WriteFakeAudio(dir, "take five.wav")

		source = planner.SourceClip{
			FilePath:           sourcePath,
			FrameStart:         1,
			FrameFinalStart:    48,
			FrameFinalDuration: 960,
		}

		request = planner.Request{
			Source:    source,
			Count:     stems.FourStems,
			UsedLanes: nil,
			OutputDir: dir,
		}
	})

	Describe("FirstEmptyLane", func() {
		It("starts at lane 1 on an empty timeline", func() {
			Expect(planner.FirstEmptyLane(nil)).To(Equal(1))
			Expect(planner.FirstEmptyLane([]int{})).To(Equal(1))
		})

		It("goes right above the highest lane", func() {
			Expect(planner.FirstEmptyLane([]int{1, 3, 5})).To(Equal(6))
			Expect(planner.FirstEmptyLane([]int{5, 1, 3})).To(Equal(6))
		})
	})

	Describe("Paths", func() {
		It("names the stem dir after the source without its extension", func() {
			Expect(planner.SourceStem("/media/take five.wav")).To(Equal("take five"))
			Expect(planner.SourceStem("/media/mix.final.mp3")).To(Equal("mix.final"))
			Expect(planner.StemPath("/out", "/media/mix.wav", "vocals")).To(Equal("/out/mix/vocals.mp3"))
		})
	})

	DescribeTable("all stems present",
		func(count stems.Count, usedLanes []int, firstLane int) {
			writeStems(count.Roles()...)
			request.Count = count
			request.UsedLanes = usedLanes

			placed, err := planner.Plan(request, planner.DiskOutputs{OutputDir: dir, SourcePath: sourcePath})
			Expect(err).NotTo(HaveOccurred())
			Expect(placed).To(HaveLen(len(count.Roles())))

			for i, clip := range placed {
				Expect(clip.Role).To(Equal(count.Roles()[i]))
				Expect(clip.Lane).To(Equal(firstLane + i))
				Expect(clip.FrameStart).To(Equal(1))
				Expect(clip.Start).To(Equal(48))
				Expect(clip.End).To(Equal(48 + 960))
				Expect(clip.FilePath).To(Equal(filepath.Join(dir, "take five", clip.Role+".mp3")))

				for _, used := range usedLanes {
					Expect(clip.Lane).To(BeNumerically(">", used))
				}
			}
		},
		Entry("2 stems on an empty timeline", stems.TwoStems, []int{}, 1),
		Entry("4 stems above sparse lanes", stems.FourStems, []int{1, 3, 5}, 6),
		Entry("5 stems above a single lane", stems.FiveStems, []int{2}, 3),
	)

	It("skips roles whose file is missing without shifting the others", func() {
		writeStems("drums", "other")
		request.UsedLanes = []int{1, 3, 5}

		placed, err := planner.Plan(request, planner.DiskOutputs{OutputDir: dir, SourcePath: sourcePath})
		Expect(err).NotTo(HaveOccurred())
		Expect(placed).To(HaveLen(2))

		Expect(placed[0].Role).To(Equal("drums"))
		Expect(placed[0].Lane).To(Equal(6))
		Expect(placed[1].Role).To(Equal("other"))
		Expect(placed[1].Lane).To(Equal(8))
	})

	It("places nothing and doesn't fail when no stems were produced", func() {
		placed, err := planner.Plan(request, planner.DiskOutputs{OutputDir: dir, SourcePath: sourcePath})
		Expect(err).NotTo(HaveOccurred())
		Expect(placed).To(BeEmpty())
	})

	It("works from any outputs lookup", func() {
		placed, err := planner.Plan(request, mapOutputs{"vocals": "gs://bucket/vocals.mp3"})
		Expect(err).NotTo(HaveOccurred())
		Expect(placed).To(Equal([]planner.PlacedClip{{
			Role:       "vocals",
			Lane:       4,
			FrameStart: 1,
			Start:      48,
			End:        1008,
			FilePath:   "gs://bucket/vocals.mp3",
		}}))
	})

	Describe("Invalid sources", func() {
		var lookups int
		var countingOutputs planner.Outputs

		BeforeEach(func() {
			lookups = 0
			countingOutputs = outputsFunc(func(role string) (string, bool) {
				lookups++
				return "/anything.mp3", true
			})
		})

		DescribeTable("refuses before looking at any output",
			func(path func() string) {
				request.Source.FilePath = path()

				placed, err := planner.Plan(request, countingOutputs)
				Expect(err).To(HaveOccurred())
				Expect(markers.Is(err, planner.InvalidSourceMark)).To(BeTrue())
				Expect(placed).To(BeEmpty())
				Expect(lookups).To(Equal(0))
			},
			Entry("relative path", func() string { return "take five.wav" }),
			Entry("empty path", func() string { return "" }),
			Entry("missing file", func() string { return filepath.Join(dir, "ghost.wav") }),
			Entry("directory", func() string { return dir }),
		)
	})

	It("rejects an unsupported count", func() {
		request.Count = stems.Count(3)
		_, err := planner.Plan(request, mapOutputs{})
		Expect(markers.Is(err, stems.InvalidCountMark)).To(BeTrue())
	})

	It("creates the output dir idempotently", func() {
		outDir := filepath.Join(dir, "nested", "out")
		Expect(planner.EnsureOutputDir(outDir)).To(Succeed())
		Expect(planner.EnsureOutputDir(outDir)).To(Succeed())
		Expect(outDir).To(BeADirectory())
	})
})

type outputsFunc func(role string) (string, bool)

func (o outputsFunc) Lookup(role string) (string, bool) {
	return o(role)
}
