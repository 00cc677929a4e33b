package separator

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-separator/src/shared/stems"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

var UnavailableMark = errors.New("separator unavailable")

// StemFilePaths maps a role (vocals, drums...) to the file the model wrote for it
type StemFilePaths map[string]string

func (s StemFilePaths) Lookup(role string) (string, bool) {
	path, ok := s[role]
	return path, ok
}

type Request struct {
	SourcePath string
	OutputDir  string
	Count      stems.Count
}

//counterfeiter:generate . Separator
type Separator interface {
	// EnsureAvailable makes at most one attempt to install the model before giving up
	EnsureAvailable(ctx context.Context) error
	Separate(ctx context.Context, request Request) (StemFilePaths, error)
}
