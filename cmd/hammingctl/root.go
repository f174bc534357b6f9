package main

import (
	"fmt"
	"strings"

	"github.com/danmuck/hamming/internal/config"
	"github.com/danmuck/hamming/internal/hamming"
	"github.com/danmuck/hamming/internal/logging"
	"github.com/danmuck/hamming/internal/observability"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	codeName   string
	seed       int64
	logLevel   string

	cfg  config.Config
	code hamming.Code
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "hammingctl",
		Short: "Extended Hamming SECDED codec and bit-error round trips",
		Long: `hammingctl encodes text with an extended Hamming code, injects random
bit errors into the encoded stream and decodes it back, showing every
intermediate stream as one %08b line per byte.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a TOML config file")
	flags.StringVar(&a.codeName, "code", "", "code: eh8_4|eh16_11|eh32_26|eh64_57")
	flags.Int64Var(&a.seed, "seed", 0, "seed for reproducible error masks")
	flags.StringVar(&a.logLevel, "log-level", "", "trace|debug|info|warn|error|off")

	root.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newRunCmd(a),
		newSweepCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup resolves config file, then flag overrides, then logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if strings.TrimSpace(a.configPath) != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("code") {
		cfg.Code = a.codeName
	}
	if flags.Changed("seed") {
		seed := a.seed
		cfg.Seed = &seed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	code, err := hamming.Lookup(cfg.Code)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.code = code

	observability.InitLogger("hammingctl")
	zerolog.SetGlobalLevel(logging.ResolveLevel(cfg.LogLevel))
	return nil
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
