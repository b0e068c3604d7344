// Package main provides the fstd2nc command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go.ngs.io/fstd2nc/internal/adapter/store/rawfile"
	"go.ngs.io/fstd2nc/internal/config"
	"go.ngs.io/fstd2nc/internal/logging"
	"go.ngs.io/fstd2nc/internal/usecase"
)

const version = "0.1.0"

// app carries what the subcommands share once flags are parsed.
type app struct {
	configFile string
	cfg        *config.Config
	log        *logrus.Logger
}

func (a *app) assembler() *usecase.AssembleUseCase {
	return usecase.NewAssembleUseCase(rawfile.NewStore(a.cfg.VerifyChecksums), a.log)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "fstd2nc",
		Short:         "Assemble FSTD record files into NetCDF datasets",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.New(a.configFile)
			if err != nil {
				return err
			}
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			if a.cfg, err = config.Load(v); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.log, err = logging.New(a.cfg.LogLevel, a.cfg.LogFormat)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (yaml, toml or json)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "text", "log format: text or json")
	pf.Int("workers", 0, "parallel group decoders (default: one per CPU)")
	pf.Bool("verify-checksums", true, "verify payload checksums when reading records")

	root.AddCommand(newConvertCmd(a), newInspectCmd(a), newSynthCmd(a))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
