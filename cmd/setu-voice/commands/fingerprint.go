package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AdityaAneNenu/setu/pkg/voiceprint"
)

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint <audio.wav> [other.wav]",
	Short: "Derive the deterministic voice code of a recording",
	Long: `Fingerprint prints the 64-character voice code of a recording.
With two recordings it prints both codes and whether they match.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		fp := voiceprint.NewFingerprinter()

		audio, err := readAudio(args[0])
		if err != nil {
			return err
		}
		code := fp.Fingerprint(audio)

		if len(args) == 1 {
			if textFormat() {
				fmt.Println(code)
				return nil
			}
			return output(struct {
				Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
			}{code})
		}

		other, err := readAudio(args[1])
		if err != nil {
			return err
		}
		otherCode := fp.Fingerprint(other)
		match := voiceprint.MatchFingerprints(code, otherCode)

		if !textFormat() {
			return output(struct {
				A     string `json:"a" yaml:"a"`
				B     string `json:"b" yaml:"b"`
				Match bool   `json:"match" yaml:"match"`
			}{code, otherCode, match})
		}
		fmt.Println(styles.Verdict(match, "voice code comparison"))
		fmt.Print(styles.Fields(
			[2]string{"a", code},
			[2]string{"b", otherCode},
		))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fingerprintCmd)
}
