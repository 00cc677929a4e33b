package dummy

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/stem-separator/src/shared/stems"
	"github.com/veedubyou/stem-separator/src/worker/internal/executor"
	"github.com/veedubyou/stem-separator/src/worker/internal/planner"
)

const expectedFilenameFormat = "{filename}/{instrument}.{codec}"

var _ executor.Executor = &SpleeterExecutor{}

func NewDummySpleeterExecutor() *SpleeterExecutor {
	return &SpleeterExecutor{
		Installed:    true,
		InstallWorks: true,
		MissingRoles: map[string]bool{},
	}
}

// SpleeterExecutor stands in for both the spleeter binary and the python used to install it.
// Separating writes {out}/{source_stem}/{role}.mp3 containing the source bytes and the role name.
type SpleeterExecutor struct {
	Installed     bool
	InstallWorks  bool
	SeparateFails bool
	MissingRoles  map[string]bool

	mutex           sync.Mutex
	versionCalls    int
	ensurePipCalls  int
	installCalls    int
	separateCalls   int
	lastWorkingDirs []string
}

func (s *SpleeterExecutor) Command(name string, args ...string) executor.Cmd {
	return &spleeterCmd{
		executor: s,
		name:     name,
		args:     args,
	}
}

func (s *SpleeterExecutor) VersionCalls() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.versionCalls
}

func (s *SpleeterExecutor) EnsurePipCalls() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ensurePipCalls
}

func (s *SpleeterExecutor) InstallCalls() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.installCalls
}

func (s *SpleeterExecutor) SeparateCalls() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.separateCalls
}

func (s *SpleeterExecutor) WorkingDirs() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]string{}, s.lastWorkingDirs...)
}

type spleeterCmd struct {
	executor *SpleeterExecutor
	name     string
	args     []string
	dir      string
}

func (c *spleeterCmd) SetDir(dir string) {
	c.dir = dir
}

func (c *spleeterCmd) CombinedOutput() ([]byte, error) {
	s := c.executor
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastWorkingDirs = append(s.lastWorkingDirs, c.dir)

	switch {
	case len(c.args) >= 2 && c.args[0] == "-m" && c.args[1] == "ensurepip":
		s.ensurePipCalls++
		return []byte("Requirement already satisfied: pip"), nil

	case len(c.args) == 4 && c.args[0] == "-m" && c.args[1] == "pip" && c.args[2] == "install":
		s.installCalls++
		if c.args[3] != "spleeter" || !s.InstallWorks {
			return []byte("ERROR: Could not install packages"), errors.New("exit status 1")
		}
		s.Installed = true
		return []byte("Successfully installed spleeter"), nil

	case len(c.args) == 1 && c.args[0] == "--version":
		s.versionCalls++
		if !s.Installed {
			return []byte(c.name + ": command not found"), errors.New("exit status 127")
		}
		return []byte("spleeter 2.3.2"), nil

	case len(c.args) > 0 && c.args[0] == "separate":
		s.separateCalls++
		if !s.Installed {
			return []byte(c.name + ": command not found"), errors.New("exit status 127")
		}
		if s.SeparateFails {
			return []byte("tensorflow exploded"), errors.New("exit status 1")
		}
		return s.separate(c.args[1:])

	default:
		return nil, errors.Newf("unexpected command %s %s", c.name, strings.Join(c.args, " "))
	}
}

func (s *SpleeterExecutor) separate(args []string) ([]byte, error) {
	if len(args) != 11 {
		return nil, errors.Newf("unexpected number of separate args: %v", args)
	}

	flags := map[string]string{}
	for i := 0; i < 10; i += 2 {
		flags[args[i]] = args[i+1]
	}
	sourcePath := args[10]

	if flags["-c"] != "mp3" || flags["-b"] != "320k" || flags["-f"] != expectedFilenameFormat {
		return nil, errors.Newf("unexpected codec flags: %v", flags)
	}

	count, err := stems.ParseCount(strings.TrimPrefix(flags["-p"], "spleeter:"))
	if err != nil {
		return nil, errors.Wrap(err, "unexpected model")
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, errors.Wrap(err, "source file not readable")
	}

	stemDir := planner.StemDir(flags["-o"], sourcePath)
	if err := os.MkdirAll(stemDir, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "can't create stem dir")
	}

	for _, role := range count.Roles() {
		if s.MissingRoles[role] {
			continue
		}

		stemPath := filepath.Join(stemDir, role+".mp3")
		contents := append(append([]byte{}, source...), []byte("-"+role)...)
		if err := os.WriteFile(stemPath, contents, 0o644); err != nil {
			return nil, errors.Wrap(err, "can't write stem")
		}
	}

	return []byte("INFO:spleeter:File written"), nil
}
