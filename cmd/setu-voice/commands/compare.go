package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AdityaAneNenu/setu/pkg/voiceprint"
)

var compareCmd = &cobra.Command{
	Use:   "compare <a.wav> <b.wav>",
	Short: "Score two recordings against each other",
	Long: `Compare extracts speaker features from both recordings and prints
the similarity score, the match verdict, and the confidence grade.
Nothing is stored; use verify for auditable decisions.`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		a, err := readAudio(args[0])
		if err != nil {
			return err
		}
		b, err := readAudio(args[1])
		if err != nil {
			return err
		}

		ex := voiceprint.NewExtractor(voiceprint.Config{})
		cmp := voiceprint.Compare(ex.Features(a), ex.Features(b))

		if !textFormat() {
			return output(cmp)
		}
		fmt.Println(styles.Verdict(cmp.Match, "voice comparison"))
		fmt.Print(styles.Fields(
			[2]string{"score", fmt.Sprintf("%.4f", cmp.Score)},
			[2]string{"confidence", cmp.Confidence.String()},
		))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
