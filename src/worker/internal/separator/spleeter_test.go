package separator_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors/markers"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-separator/src/shared/stems"
	. "github.com/veedubyou/stem-separator/src/shared/testing"
	"github.com/veedubyou/stem-separator/src/worker/internal/dummy"
	"github.com/veedubyou/stem-separator/src/worker/internal/separator"
)

var _ = Describe("Spleeter", func() {
	var (
		workingDir string
		mediaDir   string
		sourcePath string

		dummyExecutor *dummy.SpleeterExecutor
		pythonBinPath string
		spleeter      separator.Spleeter
	)

	BeforeEach(func() {
		By("Creating scratch dirs", func() {
			workingDir = ExpectSuccess(os.MkdirTemp("", "spleeter-wd"))
			mediaDir = ExpectSuccess(os.MkdirTemp("", "spleeter-media"))
			DeferCleanup(func() {
				_ = os.RemoveAll(workingDir)
				_ = os.RemoveAll(mediaDir)
			})

			sourcePath = WriteFakeAudio(mediaDir, "song.wav")
		})

		dummyExecutor = dummy.NewDummySpleeterExecutor()
		pythonBinPath = "/somewhere/python3"
	})

	JustBeforeEach(func() {
		spleeter = ExpectSuccess(separator.NewSpleeter(workingDir, "/somewhere/spleeter", pythonBinPath, dummyExecutor))
	})

	Describe("EnsureAvailable", func() {
		Context("spleeter is already installed", func() {
			It("only checks the version", func() {
				Expect(spleeter.EnsureAvailable(context.Background())).To(Succeed())
				Expect(dummyExecutor.VersionCalls()).To(Equal(1))
				Expect(dummyExecutor.InstallCalls()).To(Equal(0))
			})

			It("runs in the working dir", func() {
				Expect(spleeter.EnsureAvailable(context.Background())).To(Succeed())
				Expect(dummyExecutor.WorkingDirs()).To(ConsistOf(workingDir))
			})
		})

		Context("spleeter is missing and installs cleanly", func() {
			BeforeEach(func() {
				dummyExecutor.Installed = false
			})

			It("installs once and checks the version again", func() {
				Expect(spleeter.EnsureAvailable(context.Background())).To(Succeed())
				Expect(dummyExecutor.EnsurePipCalls()).To(Equal(1))
				Expect(dummyExecutor.InstallCalls()).To(Equal(1))
				Expect(dummyExecutor.VersionCalls()).To(Equal(2))
			})
		})

		Context("spleeter is missing and the install fails", func() {
			BeforeEach(func() {
				dummyExecutor.Installed = false
				dummyExecutor.InstallWorks = false
			})

			It("gives up after a single attempt", func() {
				err := spleeter.EnsureAvailable(context.Background())
				Expect(err).To(HaveOccurred())
				Expect(markers.Is(err, separator.UnavailableMark)).To(BeTrue())
				Expect(dummyExecutor.InstallCalls()).To(Equal(1))
			})
		})

		Context("there is no python to install with", func() {
			BeforeEach(func() {
				dummyExecutor.Installed = false
				pythonBinPath = ""
			})

			It("fails without attempting an install", func() {
				err := spleeter.EnsureAvailable(context.Background())
				Expect(markers.Is(err, separator.UnavailableMark)).To(BeTrue())
				Expect(dummyExecutor.InstallCalls()).To(Equal(0))
			})
		})
	})

	Describe("Separate", func() {
		var outputDir string

		BeforeEach(func() {
			outputDir = filepath.Join(mediaDir, "out")
		})

		It("collects a file per role", func() {
			stemPaths := ExpectSuccess(spleeter.Separate(context.Background(), separator.Request{
				SourcePath: sourcePath,
				OutputDir:  outputDir,
				Count:      stems.FourStems,
			}))

			Expect(stemPaths).To(HaveLen(4))
			for _, role := range stems.FourStems.Roles() {
				expectedPath := filepath.Join(outputDir, "song", role+".mp3")
				Expect(stemPaths).To(HaveKeyWithValue(role, expectedPath))

				contents := ExpectSuccess(os.ReadFile(expectedPath))
				Expect(string(contents)).To(Equal("cool_jamz-" + role))
			}
		})

		It("leaves out roles the model didn't write", func() {
			dummyExecutor.MissingRoles["bass"] = true

			stemPaths := ExpectSuccess(spleeter.Separate(context.Background(), separator.Request{
				SourcePath: sourcePath,
				OutputDir:  outputDir,
				Count:      stems.FourStems,
			}))

			Expect(stemPaths).To(HaveLen(3))
			Expect(stemPaths).NotTo(HaveKey("bass"))
		})

		It("only collects the requested roles", func() {
			stemDir := filepath.Join(outputDir, "song")
			Expect(os.MkdirAll(stemDir, os.ModePerm)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(stemDir, "piano.mp3"), []byte("left over"), 0644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(stemDir, "notes.txt"), []byte("left over"), 0644)).To(Succeed())

			stemPaths := ExpectSuccess(spleeter.Separate(context.Background(), separator.Request{
				SourcePath: sourcePath,
				OutputDir:  outputDir,
				Count:      stems.FourStems,
			}))

			Expect(stemPaths).To(HaveLen(4))
			Expect(stemPaths).NotTo(HaveKey("piano"))
			Expect(stemPaths).NotTo(HaveKey("notes"))

			path, ok := stemPaths.Lookup("drums")
			Expect(ok).To(BeTrue())
			Expect(path).To(Equal(filepath.Join(outputDir, "song", "drums.mp3")))
		})

		It("fails when spleeter fails", func() {
			dummyExecutor.SeparateFails = true

			_, err := spleeter.Separate(context.Background(), separator.Request{
				SourcePath: sourcePath,
				OutputDir:  outputDir,
				Count:      stems.TwoStems,
			})
			Expect(err).To(HaveOccurred())
		})

		It("doesn't start once the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := spleeter.Separate(ctx, separator.Request{
				SourcePath: sourcePath,
				OutputDir:  outputDir,
				Count:      stems.FiveStems,
			})
			Expect(err).To(HaveOccurred())
			Expect(dummyExecutor.SeparateCalls()).To(Equal(0))
		})

		It("rejects an unsupported count", func() {
			_, err := spleeter.Separate(context.Background(), separator.Request{
				SourcePath: sourcePath,
				OutputDir:  outputDir,
				Count:      stems.Count(3),
			})
			Expect(err).To(HaveOccurred())
			Expect(dummyExecutor.SeparateCalls()).To(Equal(0))
		})
	})
})
