package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <subject> <audio.wav>",
	Short: "Verify a recording against an enrolled subject",
	Long: `Verify scores the recording against the subject's enrolled voice
and appends a row to the audit trail. The exit status is zero for
accepted and rejected verdicts alike; inspect the output to branch.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		audio, err := readAudio(args[1])
		if err != nil {
			return err
		}

		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		subject, err := m.Subject(ctx, args[0])
		if err != nil {
			return err
		}
		res, err := m.Verify(ctx, subject, audio)
		if err != nil {
			return err
		}

		if !textFormat() {
			return output(res)
		}
		fmt.Println(styles.Verdict(res.Accepted(), res.Message))
		fields := [][2]string{
			{"score", fmt.Sprintf("%.4f", res.Score)},
			{"confidence", res.Confidence.String()},
			{"voice code match", fmt.Sprintf("%v", res.FingerprintMatch)},
		}
		if res.Reason != "" {
			fields = append(fields, [2]string{"reason", string(res.Reason)})
		}
		if res.AttemptID != "" {
			fields = append(fields, [2]string{"attempt", res.AttemptID})
		}
		fmt.Print(styles.Fields(fields...))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
