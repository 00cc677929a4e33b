package executor

import (
	"os/exec"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

type Cmd interface {
	SetDir(dir string)
	CombinedOutput() ([]byte, error)
}

//counterfeiter:generate . Executor
type Executor interface {
	Command(name string, args ...string) Cmd
}

var _ Executor = BinaryFileExecutor{}

// BinaryFileExecutor runs real binaries on the host
type BinaryFileExecutor struct{}

func (BinaryFileExecutor) Command(name string, args ...string) Cmd {
	return &binaryCmd{cmd: exec.Command(name, args...)}
}

type binaryCmd struct {
	cmd *exec.Cmd
}

func (b *binaryCmd) SetDir(dir string) {
	b.cmd.Dir = dir
}

func (b *binaryCmd) CombinedOutput() ([]byte, error) {
	return b.cmd.CombinedOutput()
}
