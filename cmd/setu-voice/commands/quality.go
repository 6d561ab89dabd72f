package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AdityaAneNenu/setu/pkg/voiceprint"
)

var qualityCmd = &cobra.Command{
	Use:   "quality <audio.wav>",
	Short: "Check whether a recording is usable for verification",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		audio, err := readAudio(args[0])
		if err != nil {
			return err
		}

		ex := voiceprint.NewExtractor(voiceprint.Config{})
		report := ex.CheckQuality(audio)

		if !textFormat() {
			return output(report)
		}
		fmt.Println(styles.Verdict(report.Admissible, strings.Join(report.Reasons, " ")))
		fmt.Print(styles.Fields(
			[2]string{"duration", fmt.Sprintf("%.2fs", report.Duration)},
			[2]string{"rms energy", fmt.Sprintf("%.4f", report.RMSEnergy)},
			[2]string{"snr", fmt.Sprintf("%.1f dB", report.SNR)},
		))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(qualityCmd)
}
