package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/veedubyou/stem-separator/src/shared/stems"
)

type stemSetJSON struct {
	Count stems.Count `json:"count"`
	Model string      `json:"model"`
	Roles []string    `json:"roles"`
}

func newStemsCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stems",
		Short: "List the stem sets that can be requested",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if root.jsonOutput {
				sets := []stemSetJSON{}
				for _, count := range stems.Counts() {
					sets = append(sets, stemSetJSON{
						Count: count,
						Model: count.ModelName(),
						Roles: count.Roles(),
					})
				}
				return printJSON(out, sets)
			}

			rows := [][]string{}
			for _, count := range stems.Counts() {
				rows = append(rows, []string{
					fmt.Sprint(int(count)),
					count.ModelName(),
					strings.Join(count.Roles(), ", "),
				})
			}
			printTable(out, []string{"STEMS", "MODEL", "ROLES (BY LANE)"}, rows, nil)
			return nil
		},
	}
}
