package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/veedubyou/stem-separator/src/shared/stems"
	timelinestorage "github.com/veedubyou/stem-separator/src/shared/timeline/storage"
	"github.com/veedubyou/stem-separator/src/worker/internal/publish"
	"github.com/veedubyou/stem-separator/src/worker/internal/separation"
	"github.com/veedubyou/stem-separator/src/worker/internal/separator"
	"github.com/veedubyou/stem-separator/src/worker/internal/source"
)

type separateOptions struct {
	timelineDir string
	timelineID  string
	stemCount   string
	outputDir   string
}

func newSeparateCommand(deps Dependencies, root *rootOptions) *cobra.Command {
	opts := &separateOptions{}

	cmd := &cobra.Command{
		Use:   "separate",
		Short: "Separate the active sound clip into stems",
		Long: `Separate the timeline's active sound clip into stems and add one clip per stem.

Stems are written to {output-dir}/{source name}/{role}.mp3, next to the source unless
--output-dir is given. Spleeter is installed with pip on first use if it is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := stems.ParseCount(opts.stemCount)
			if err != nil {
				printError(cmd.ErrOrStderr(), separation.UserMessage(err))
				return err
			}

			timelineStore, err := timelinestorage.NewFileStore(opts.timelineDir)
			if err != nil {
				return err
			}

			spleeter, err := separator.NewSpleeter(deps.WorkingDir, deps.SpleeterBinPath, deps.PythonBinPath, deps.Executor)
			if err != nil {
				return err
			}

			operator := separation.NewOperator(
				timelineStore,
				source.LocalResolver{},
				spleeter,
				publish.LocalPublisher{},
				separation.Config{OutputDir: opts.outputDir},
			)

			placed, err := operator.SeparateActiveClip(cmd.Context(), opts.timelineID, count)
			if err != nil {
				printError(cmd.ErrOrStderr(), separation.UserMessage(err))
				return err
			}

			out := cmd.OutOrStdout()
			if root.jsonOutput {
				return printJSON(out, placed)
			}

			printSuccess(out, fmt.Sprintf("Placed %d of %d stems", len(placed), int(count)))
			rows := make([][]string, 0, len(placed))
			for _, p := range placed {
				rows = append(rows, []string{
					fmt.Sprint(p.Lane),
					p.Role,
					fmt.Sprintf("%d-%d", p.Start, p.End),
					p.FilePath,
				})
			}
			printTable(out, []string{"LANE", "ROLE", "FRAMES", "FILE"}, rows, nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.timelineDir, "timeline-dir", "", "Directory holding {timeline}.json files")
	cmd.Flags().StringVar(&opts.timelineID, "timeline", "", "ID of the timeline to work on")
	cmd.Flags().StringVarP(&opts.stemCount, "stems", "s", "4", "Number of stems: 2, 4 or 5")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Where to write stems, defaults to the source's dir")
	_ = cmd.MarkFlagRequired("timeline-dir")
	_ = cmd.MarkFlagRequired("timeline")

	return cmd
}
