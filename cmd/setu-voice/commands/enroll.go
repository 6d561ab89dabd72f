package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <subject> <audio.wav>",
	Short: "Register a subject's reference recording",
	Long: `Enroll stores the reference recording and derives the subject's
voice code. The first enrollment wins; enrolling again keeps the
original reference.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject := args[0]
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
		path, err := m.Enroll(ctx, subject, audio)
		if err != nil {
			return err
		}
		code, err := m.Log().Fingerprint(ctx, subject)
		if err != nil {
			return err
		}

		if textFormat() {
			fmt.Println(styles.Verdict(true, "Subject enrolled."))
			fmt.Print(styles.Fields(
				[2]string{"subject", subject},
				[2]string{"recording", path},
				[2]string{"voice code", code},
			))
			return nil
		}
		return output(struct {
			Subject     string `json:"subject" yaml:"subject"`
			Path        string `json:"path" yaml:"path"`
			Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
		}{subject, path, code})
	},
}

func init() {
	rootCmd.AddCommand(enrollCmd)
}
