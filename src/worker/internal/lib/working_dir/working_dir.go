package working_dir

import (
	"os"
	"path/filepath"

	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
)

const tempDirName = "tmp"

type WorkingDir struct {
	root string
}

func NewWorkingDir(dir string) (WorkingDir, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return WorkingDir{}, cerr.Field("dir", dir).Wrap(err).Error("Failed to make working dir absolute")
	}

	tempDir := filepath.Join(root, tempDirName)
	if err := os.MkdirAll(tempDir, os.ModePerm); err != nil {
		return WorkingDir{}, cerr.Field("temp_dir", tempDir).Wrap(err).Error("Failed to create working temp dir")
	}

	return WorkingDir{root: root}, nil
}

func (w WorkingDir) Root() string {
	return w.root
}

func (w WorkingDir) TempDir() string {
	return filepath.Join(w.root, tempDirName)
}

func (w WorkingDir) String() string {
	return w.root
}
