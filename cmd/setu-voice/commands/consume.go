package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:     "consume <subject>",
	Aliases: []string{"authorize"},
	Short:   "Spend an accepted verification on an account closure",
	Long: `Consume takes the subject's most recent accepted verification and
marks it used for closure. Each subject can spend at most one
verification, and each verification can be spent at most once; a
second consume fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		att, err := m.Authorize(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if !textFormat() {
			return output(att)
		}
		fmt.Println(styles.Verdict(true, "Verification consumed for closure."))
		fmt.Print(styles.Fields(
			[2]string{"attempt", att.ID},
			[2]string{"verified at", att.CreatedAt.Format("2006-01-02 15:04:05")},
			[2]string{"consumed at", att.ConsumedAt.Format("2006-01-02 15:04:05")},
			[2]string{"score", fmt.Sprintf("%.4f", att.Score)},
		))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}
