package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
	"github.com/veedubyou/stem-separator/src/shared/lib/errors/mark"
	"github.com/veedubyou/stem-separator/src/shared/stems"
)

const stemFileExt = ".mp3"

var InvalidSourceMark = errors.New("invalid source file")

type SourceClip struct {
	FilePath           string
	FrameStart         int
	FrameFinalStart    int
	FrameFinalDuration int
}

func (s SourceClip) FrameFinalEnd() int {
	return s.FrameFinalStart + s.FrameFinalDuration
}

type PlacedClip struct {
	Role       string `json:"role"`
	Lane       int    `json:"lane"`
	FrameStart int    `json:"frame_start"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	FilePath   string `json:"file_path"`
}

type Request struct {
	Source    SourceClip
	Count     stems.Count
	UsedLanes []int
	OutputDir string
}

// Outputs answers where the separator put a role's file, if anywhere
type Outputs interface {
	Lookup(role string) (string, bool)
}

func Plan(request Request, outputs Outputs) ([]PlacedClip, error) {
	errctx := cerr.Field("source_path", request.Source.FilePath).
		Field("stem_count", request.Count)

	if err := ValidateSource(request.Source.FilePath); err != nil {
		return nil, errctx.Wrap(err).Error("Refusing to plan stems for an invalid source")
	}

	if !request.Count.Valid() {
		return nil, errctx.Wrap(mark.Message(stems.InvalidCountMark, "Unsupported stem count")).
			Error("Refusing to plan stems for an unsupported count")
	}

	firstLane := FirstEmptyLane(request.UsedLanes)

	placed := []PlacedClip{}
	for i, role := range request.Count.Roles() {
		filePath, ok := outputs.Lookup(role)
		if !ok {
			continue
		}

		placed = append(placed, PlacedClip{
			Role:       role,
			Lane:       firstLane + i,
			FrameStart: request.Source.FrameStart,
			Start:      request.Source.FrameFinalStart,
			End:        request.Source.FrameFinalEnd(),
			FilePath:   filePath,
		})
	}

	return placed, nil
}

func FirstEmptyLane(usedLanes []int) int {
	if len(usedLanes) == 0 {
		return 1
	}

	highest := usedLanes[0]
	for _, lane := range usedLanes[1:] {
		if lane > highest {
			highest = lane
		}
	}

	return highest + 1
}

// ValidateSource only accepts an absolute path to an existing regular file
func ValidateSource(path string) error {
	if path == "" || !filepath.IsAbs(path) {
		return mark.Message(InvalidSourceMark,
			"The path of the source file needs to be absolute and not relative")
	}

	info, err := os.Stat(path)
	if err != nil {
		return mark.Wrap(err, InvalidSourceMark, "The source file does not exist")
	}

	if !info.Mode().IsRegular() {
		return mark.Message(InvalidSourceMark, fmt.Sprintf("The source path %s is not a file", path))
	}

	return nil
}

// SourceStem is the file name without its last extension, the separator names its output dir after it
func SourceStem(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func StemDir(outputDir string, sourcePath string) string {
	return filepath.Join(outputDir, SourceStem(sourcePath))
}

func StemPath(outputDir string, sourcePath string, role string) string {
	return filepath.Join(StemDir(outputDir, sourcePath), role+stemFileExt)
}

var _ Outputs = DiskOutputs{}

// DiskOutputs looks for {output_dir}/{source_stem}/{role}.mp3
type DiskOutputs struct {
	OutputDir  string
	SourcePath string
}

func (d DiskOutputs) Lookup(role string) (string, bool) {
	path := StemPath(d.OutputDir, d.SourcePath, role)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	return path, true
}

// EnsureOutputDir creates the output dir if needed, an existing dir is fine
func EnsureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return cerr.Field("output_dir", dir).Wrap(err).Error("Failed to create the output dir")
	}

	return nil
}
