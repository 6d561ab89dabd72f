package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var attemptsCmd = &cobra.Command{
	Use:   "attempts <subject>",
	Short: "Show a subject's verification history, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		history, err := m.History(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if !textFormat() {
			return output(history)
		}
		if len(history) == 0 {
			fmt.Println(styles.Dim.Render("no attempts recorded"))
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CREATED\tID\tVERIFIED\tSCORE\tCONFIDENCE\tCONSUMED")
		for _, a := range history {
			fmt.Fprintf(w, "%s\t%s\t%v\t%.4f\t%s\t%v\n",
				a.CreatedAt.Format("2006-01-02 15:04:05"),
				a.ID, a.Verified, a.Score, a.Confidence, a.Consumed)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(attemptsCmd)
}
