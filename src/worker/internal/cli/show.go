package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	timelineentity "github.com/veedubyou/stem-separator/src/shared/timeline/entity"
	timelinestorage "github.com/veedubyou/stem-separator/src/shared/timeline/storage"
)

type showOptions struct {
	timelineDir string
	timelineID  string
}

func newShowCommand(root *rootOptions) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a timeline's clips by lane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			timelineStore, err := timelinestorage.NewFileStore(opts.timelineDir)
			if err != nil {
				return err
			}

			timeline, err := timelineStore.GetTimeline(cmd.Context(), opts.timelineID)
			if err != nil {
				printError(cmd.ErrOrStderr(), fmt.Sprintf("Timeline %s could not be read", opts.timelineID))
				return err
			}

			out := cmd.OutOrStdout()
			if root.jsonOutput {
				return printJSON(out, timeline)
			}

			clips := append([]timelineentity.Clip{}, timeline.Defined.Clips...)
			sort.SliceStable(clips, func(i, j int) bool {
				return clips[i].Defined.Lane < clips[j].Defined.Lane
			})

			printLabelValue(out, "Timeline", timeline.Defined.ID)
			printLabelValue(out, "Lanes in use", fmt.Sprint(timeline.UsedLanes()))
			if message, failed := timeline.SeparationError(); failed {
				printLabelValue(out, "Last separation", message)
			}

			rows := make([][]string, 0, len(clips))
			for _, clip := range clips {
				rows = append(rows, []string{
					fmt.Sprint(clip.Defined.Lane),
					clip.Defined.Name,
					clip.Defined.Type,
					fmt.Sprintf("%d-%d", clip.Defined.FrameFinalStart, clip.FrameFinalEnd()),
					clip.Defined.FilePath,
				})
			}

			isActive := func(row int) bool {
				return clips[row].GetID() == timeline.Defined.ActiveClipID
			}
			printTable(out, []string{"LANE", "NAME", "TYPE", "FRAMES", "FILE"}, rows, isActive)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.timelineDir, "timeline-dir", "", "Directory holding {timeline}.json files")
	cmd.Flags().StringVar(&opts.timelineID, "timeline", "", "ID of the timeline to show")
	_ = cmd.MarkFlagRequired("timeline-dir")
	_ = cmd.MarkFlagRequired("timeline")

	return cmd
}
