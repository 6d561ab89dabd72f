package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/AdityaAneNenu/setu/pkg/cli"
	"github.com/AdityaAneNenu/setu/pkg/kv"
	"github.com/AdityaAneNenu/setu/pkg/storage"
	"github.com/AdityaAneNenu/setu/pkg/verify"
)

var (
	verbose      bool
	formatOutput string
	outputFile   string
	configPath   string

	styles = cli.NewStyles(cli.DefaultTheme)
)

var rootCmd = &cobra.Command{
	Use:   "setu-voice",
	Short: "Voice biometric verification for account closures",
	Long: `setu-voice is a voice biometric verification tool.

Commands:
  enroll       Register a subject's reference recording
  verify       Verify a recording against an enrolled subject
  quality      Check whether a recording is usable for verification
  fingerprint  Derive the deterministic voice code of a recording
  compare      Score two recordings against each other
  attempts     Show a subject's verification history
  consume      Spend an accepted verification on an account closure
  version      Version information

Examples:
  setu-voice enroll alice reference.wav
  setu-voice verify alice attempt.wav
  setu-voice quality attempt.wav
  setu-voice compare a.wav b.wav --format json
  setu-voice attempts alice
  setu-voice consume alice`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&formatOutput, "format", "text", "output format: text, yaml, json")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "o", "o", "", "output file path")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.setu-voice/config.yaml)")
}

// Test overrides, set by command tests to avoid touching real backends.
var (
	testStoreOverride kv.Store
	testBlobsOverride storage.BlobStore
)

func newLogger() *slog.Logger {
	lvl := slog.LevelWarn
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// openManager builds the Manager from config. The returned cleanup
// must be called before the command exits.
func openManager() (*verify.Manager, func(), error) {
	if testStoreOverride != nil && testBlobsOverride != nil {
		m := verify.NewManager(verify.ManagerOptions{
			Blobs:  testBlobsOverride,
			Store:  testStoreOverride,
			Logger: newLogger(),
		})
		return m, func() {}, nil
	}

	cfg, err := cli.LoadConfigWithPath(configPath)
	if err != nil {
		return nil, nil, err
	}
	cli.PrintVerbose(verbose, "config: %s", cfg.Path())

	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	blobs, err := openBlobs(cfg)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	m := verify.NewManager(verify.ManagerOptions{
		Blobs:  blobs,
		Store:  store,
		Logger: newLogger(),
	})
	return m, func() { store.Close() }, nil
}

func openStore(cfg *cli.Config) (kv.Store, error) {
	switch cfg.Store.Backend {
	case "badger":
		return kv.NewBadger(kv.BadgerOptions{Dir: cfg.Store.Dir})
	case "memory":
		return kv.NewMemory(nil), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func openBlobs(cfg *cli.Config) (storage.BlobStore, error) {
	switch cfg.Blobs.Backend {
	case "local":
		return storage.NewLocal(cfg.Blobs.Dir)
	case "memory":
		return storage.NewMemory(), nil
	case "s3":
		sc := cfg.Blobs.S3
		if sc == nil || sc.Bucket == "" {
			return nil, errors.New("blobs.s3.bucket is required for the s3 backend")
		}
		opts := s3.Options{Region: sc.Region}
		if sc.Endpoint != "" {
			opts.BaseEndpoint = aws.String(sc.Endpoint)
			opts.UsePathStyle = true
		}
		if sc.AccessKey != "" {
			key, secret := sc.AccessKey, sc.SecretKey
			opts.Credentials = aws.CredentialsProviderFunc(
				func(context.Context) (aws.Credentials, error) {
					return aws.Credentials{
						AccessKeyID:     key,
						SecretAccessKey: secret,
						Source:          "setu-voice config",
					}, nil
				})
		}
		return storage.NewS3(s3.New(opts), sc.Bucket, sc.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Blobs.Backend)
	}
}

func readAudio(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return data, nil
}

// textFormat reports whether the human-readable renderer should run.
func textFormat() bool {
	return formatOutput == "text" || formatOutput == ""
}

func output(v any) error {
	return cli.Output(v, cli.OutputOptions{
		Format: cli.OutputFormat(formatOutput),
		File:   outputFile,
	})
}
