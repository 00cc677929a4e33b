package separator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/apex/log"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
	"github.com/veedubyou/stem-separator/src/shared/lib/errors/mark"
	"github.com/veedubyou/stem-separator/src/shared/stems"
	"github.com/veedubyou/stem-separator/src/worker/internal/executor"
	"github.com/veedubyou/stem-separator/src/worker/internal/lib/working_dir"
	"github.com/veedubyou/stem-separator/src/worker/internal/planner"
)

const (
	spleeterPackage = "spleeter"
	filenameFormat  = "{filename}/{instrument}.{codec}"
)

var _ Separator = Spleeter{}

func NewSpleeter(workingDirStr string, spleeterBinPath string, pythonBinPath string, executor executor.Executor) (Spleeter, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return Spleeter{}, cerr.Wrap(err).Error("Failed to convert working dir to absolute format")
	}

	return Spleeter{
		workingDir:      workingDir,
		spleeterBinPath: spleeterBinPath,
		pythonBinPath:   pythonBinPath,
		executor:        executor,
	}, nil
}

type Spleeter struct {
	workingDir      working_dir.WorkingDir
	spleeterBinPath string
	pythonBinPath   string
	executor        executor.Executor
}

func (s Spleeter) EnsureAvailable(ctx context.Context) error {
	logger := log.WithFields(log.Fields{
		"spleeterBinPath": s.spleeterBinPath,
		"pythonBinPath":   s.pythonBinPath,
	})

	if s.checkVersion() == nil {
		return nil
	}

	if s.pythonBinPath == "" {
		return mark.Message(UnavailableMark, "Spleeter is not installed and there is no python to install it with")
	}

	if ctx.Err() != nil {
		return cerr.Wrap(ctx.Err()).Error("Context cancelled before spleeter could be installed")
	}

	logger.Info("Installing: spleeter module")
	if err := s.install(); err != nil {
		return mark.Wrap(err, UnavailableMark,
			"Installing spleeter module failed! Try to run as administrator")
	}

	if err := s.checkVersion(); err != nil {
		return mark.Wrap(err, UnavailableMark,
			"Spleeter is still unavailable after installing it")
	}

	logger.Info("Installed spleeter module")
	return nil
}

func (s Spleeter) checkVersion() error {
	cmd := s.executor.Command(s.spleeterBinPath, "--version")
	cmd.SetDir(s.workingDir.Root())

	output, err := cmd.CombinedOutput()
	if err != nil {
		return cerr.Field("spleeter_output", string(output)).
			Wrap(err).Error("Spleeter is not runnable")
	}

	return nil
}

func (s Spleeter) install() error {
	// older pythons ship without pip, a failure here is not conclusive
	ensurePip := s.executor.Command(s.pythonBinPath, "-m", "ensurepip")
	ensurePip.SetDir(s.workingDir.Root())
	if output, err := ensurePip.CombinedOutput(); err != nil {
		log.WithField("output", string(output)).Debug("ensurepip did not succeed")
	}

	args := []string{"-m", "pip", "install", spleeterPackage}
	cmd := s.executor.Command(s.pythonBinPath, args...)
	cmd.SetDir(s.workingDir.Root())

	output, err := cmd.CombinedOutput()
	if err != nil {
		return cerr.Field("python_bin_path", s.pythonBinPath).
			Field("pip_args", args).
			Field("pip_output", string(output)).
			Wrap(err).Error("pip install failed")
	}

	return nil
}

func (s Spleeter) Separate(ctx context.Context, request Request) (StemFilePaths, error) {
	errctx := cerr.Field("source_path", request.SourcePath).
		Field("output_dir", request.OutputDir).
		Field("stem_count", request.Count)

	if !request.Count.Valid() {
		return nil, errctx.Wrap(mark.Message(stems.InvalidCountMark, "Invalid stem count passed in!")).
			Error("Refusing to separate")
	}

	absOutputDir, err := filepath.Abs(request.OutputDir)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Cannot convert output dir to absolute format")
	}

	// separating is a lengthy process, if we want to halt now is the time
	if ctx.Err() != nil {
		return nil, errctx.Wrap(ctx.Err()).Error("Context cancelled before separating could happen")
	}

	if err := s.runSpleeter(request.SourcePath, absOutputDir, request); err != nil {
		return nil, errctx.Wrap(err).Error("Failed to execute spleeter")
	}

	return collectStemFilePaths(planner.DiskOutputs{
		OutputDir:  absOutputDir,
		SourcePath: request.SourcePath,
	}, request.Count), nil
}

func (s Spleeter) runSpleeter(sourcePath string, outputDir string, request Request) error {
	logger := log.WithFields(log.Fields{
		"sourcePath": sourcePath,
		"outputDir":  outputDir,
		"model":      request.Count.ModelName(),
		"workingDir": s.workingDir,
	})

	logger.Info("Running spleeter command")

	args := []string{
		"separate",
		"-p", request.Count.ModelName(),
		"-o", outputDir,
		"-c", "mp3",
		"-b", "320k",
		"-f", filenameFormat,
		sourcePath,
	}

	errctx := cerr.Field("spleeter_bin_path", s.spleeterBinPath).Field("spleeter_args", args)

	cmd := s.executor.Command(s.spleeterBinPath, args...)
	cmd.SetDir(s.workingDir.Root())

	output, err := cmd.CombinedOutput()
	if err != nil {
		return errctx.Field("spleeter_output", string(output)).
			Wrap(err).
			Error(fmt.Sprintf("Error occurred while running spleeter: %s", string(output)))
	}

	logger.Debug(string(output))
	logger.Info("Finished spleeter command")

	return nil
}

// collectStemFilePaths keeps only the requested roles' files, anything else in the stem dir is ignored
func collectStemFilePaths(outputs planner.DiskOutputs, count stems.Count) StemFilePaths {
	logger := log.WithFields(log.Fields{
		"dir": planner.StemDir(outputs.OutputDir, outputs.SourcePath),
	})

	stemPaths := StemFilePaths{}
	for _, role := range count.Roles() {
		path, ok := outputs.Lookup(role)
		if !ok {
			logger.WithField("role", role).Warn("Spleeter produced no file for role")
			continue
		}

		stemPaths[role] = path
	}

	return stemPaths
}
