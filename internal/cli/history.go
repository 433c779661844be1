package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bilateral/pkg/store"
)

func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "List solves archived with --save",
		Long: `Without arguments, list archived solves, newest first. With an id, show
that solve in full.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := historyStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 1 {
				id, err := store.ParseID(args[0])
				if err != nil {
					return err
				}
				rec, err := st.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				printRecord(rec)
				return nil
			}

			recs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No archived solves")
				printDetail("Directory: %s", st.Path())
				return nil
			}
			for _, rec := range recs {
				printSummary(rec)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "number of solves to list")
	return cmd
}

func printSummary(rec *store.Record) {
	friend := ""
	if rec.FriendIncluded {
		friend = StyleSuccess.Render(" +friend")
	}
	fmt.Printf("%s  %s  %s teams → %s%s\n",
		StyleDim.Render(rec.CreatedAt.Local().Format("2006-01-02 15:04")),
		StyleHighlight.Render(rec.ID.String()),
		StyleNumber.Render(fmt.Sprint(len(rec.Teams))),
		StyleValue.Render(formatMembers(rec)),
		friend)
}

func printRecord(rec *store.Record) {
	printKeyValue("ID", rec.ID.String())
	printKeyValue("Created", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	printKeyValue("Teams", fmt.Sprint(len(rec.Teams)))
	printKeyValue("Cover", formatMembers(rec))
	printKeyValue("Friend", fmt.Sprintf("%s (included: %v)", rec.Friend, rec.FriendIncluded))
	printKeyValue("Optimal", fmt.Sprintf("%d covers, %d with friend", rec.OptimalCount, rec.PreferredCount))
	printKeyValue("Hash", rec.ProjectsHash)
}

func formatMembers(rec *store.Record) string {
	ids := make([]string, len(rec.Members))
	for i, id := range rec.Members {
		ids[i] = id.String()
	}
	return "{" + strings.Join(ids, " ") + "}"
}
