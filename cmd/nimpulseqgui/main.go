package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fsantini/nimpulseqgui/adapters/gradientecho"
	"github.com/fsantini/nimpulseqgui/adapters/seqfile"
	"github.com/fsantini/nimpulseqgui/adapters/sqlite"
	"github.com/fsantini/nimpulseqgui/app"
	"github.com/fsantini/nimpulseqgui/domain/hardware"
	"github.com/fsantini/nimpulseqgui/internal/config"
	"github.com/fsantini/nimpulseqgui/internal/observability"
	"github.com/fsantini/nimpulseqgui/internal/oracle"
	"github.com/fsantini/nimpulseqgui/internal/preamble"
	"github.com/fsantini/nimpulseqgui/ports"
	"github.com/fsantini/nimpulseqgui/ui"
)

var (
	flagPreset      string
	flagMaxGradient float64
	flagMaxSlew     float64
	flagArtifact    string
)

func main() {
	godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "nimpulseqgui",
		Short: "Edit, validate and persist pulse sequence protocols",
	}
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "hardware preset file (TOML)")
	rootCmd.PersistentFlags().Float64Var(&flagMaxGradient, "max-gradient", 0, "override max gradient (mT/m)")
	rootCmd.PersistentFlags().Float64Var(&flagMaxSlew, "max-slew", 0, "override max slew rate (T/m/s)")
	rootCmd.PersistentFlags().StringVar(&flagArtifact, "artifact", "", "sequence artifact to load the protocol from")

	rootCmd.AddCommand(
		newShowCmd(),
		newSetCmd(),
		newSearchCmd(),
		newBuildCmd(),
		newSnapshotCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newSession assembles the edit session: hardware resolution, oracle
// wrapper, gradient-echo adapters, optional snapshot store, and an initial
// validation pass so discovery has an accepted anchor. If --artifact names
// an existing file its preamble is loaded first.
func newSession(cmd *cobra.Command, log zerolog.Logger, cfg *config.Config) (*app.ProtocolService, error) {
	var preset hardware.Limits
	presetPath := flagPreset
	if presetPath == "" {
		presetPath = cfg.Hardware.PresetPath
	}
	if presetPath != "" {
		var err error
		preset, err = hardware.LoadPreset(presetPath)
		if err != nil {
			return nil, err
		}
	}
	var override hardware.Limits
	if cmd.Flags().Changed("max-gradient") {
		override.MaxGradient = &flagMaxGradient
	}
	if cmd.Flags().Changed("max-slew") {
		override.MaxSlew = &flagMaxSlew
	}
	hw := hardware.Resolve(override, preset)

	wrapper := oracle.NewWrapper(gradientecho.NewOracle(), hw, log)

	var repo ports.ProtocolRepository
	if cfg.Store.Path != "" {
		store, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		repo = store
	}

	service := app.NewProtocolService(gradientecho.DefaultProtocol(), wrapper, gradientecho.NewBuilder(), repo, log)
	if err := service.ValidateCurrent(cmd.Context()); err != nil {
		return nil, fmt.Errorf("default protocol infeasible on %s: %w", hw.DeviceName, err)
	}

	if flagArtifact != "" {
		if _, err := os.Stat(flagArtifact); err == nil {
			f, err := seqfile.Open(flagArtifact)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			if _, err := service.LoadArtifact(cmd.Context(), f); err != nil {
				return nil, err
			}
		}
	}
	return service, nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current protocol",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := observability.InitLogger("nimpulseqgui", cfg.LogLevel)
			service, err := newSession(cmd, log, cfg)
			if err != nil {
				return err
			}
			printProtocol(service)
			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [name] [value]",
		Short: "Edit one parameter, validating through the oracle",
		Long: `Edit one parameter. The tentative value is probed on an isolated copy and
committed only if the feasibility oracle accepts it. Search-enabled
parameters additionally get their editable range refined around the new
value.

Example: nimpulseqgui set TE 3.5 --artifact scan.seq`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := observability.InitLogger("nimpulseqgui", cfg.LogLevel)
			service, err := newSession(cmd, log, cfg)
			if err != nil {
				return err
			}
			if err := service.SetValue(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			printProtocol(service)
			return writeBackArtifact(cmd, service)
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [name]",
		Short: "Narrow a parameter's range or candidates to what the oracle accepts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := observability.InitLogger("nimpulseqgui", cfg.LogLevel)
			service, err := newSession(cmd, log, cfg)
			if err != nil {
				return err
			}
			if err := service.Search(cmd.Context(), args[0]); err != nil {
				return err
			}
			printProtocol(service)
			return nil
		},
	}
}

func newBuildCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the sequence artifact with the protocol preamble embedded",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := observability.InitLogger("nimpulseqgui", cfg.LogLevel)
			service, err := newSession(cmd, log, cfg)
			if err != nil {
				return err
			}
			seq, err := service.BuildSequence(cmd.Context())
			if err != nil {
				return err
			}
			if err := seqfile.Write(outPath, seq, service.EncodePreamble()); err != nil {
				return err
			}
			log.Info().Str("path", outPath).Int("blocks", seq.Blocks).Float64("duration_ms", seq.Duration).Msg("sequence written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "out.seq", "output artifact path")
	return cmd
}

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save or restore named protocol snapshots",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "save [name]",
			Short: "Save the current protocol under a name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.Load()
				log := observability.InitLogger("nimpulseqgui", cfg.LogLevel)
				service, err := newSession(cmd, log, cfg)
				if err != nil {
					return err
				}
				return service.SaveSnapshot(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "restore [name]",
			Short: "Restore the latest snapshot saved under a name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg := config.Load()
				log := observability.InitLogger("nimpulseqgui", cfg.LogLevel)
				service, err := newSession(cmd, log, cfg)
				if err != nil {
					return err
				}
				warnings, err := service.RestoreSnapshot(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printWarnings(warnings)
				printProtocol(service)
				return writeBackArtifact(cmd, service)
			},
		},
	)
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the protocol editor API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := observability.InitLogger("nimpulseqgui", cfg.LogLevel)
			service, err := newSession(cmd, log, cfg)
			if err != nil {
				return err
			}
			server := ui.NewServer(service, log)
			return server.ListenAndServe(ui.Config{Port: cfg.Server.Port})
		},
	}
}

func printProtocol(service *app.ProtocolService) {
	live := service.Protocol()
	for _, name := range live.Names() {
		prop, _ := live.Get(name)
		unit := prop.Meta().Unit
		if unit != "" {
			unit = " " + unit
		}
		fmt.Printf("%-16s %s%s\n", name, preamble.FormatValue(prop), unit)
	}
}

func printWarnings(warnings []preamble.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

// writeBackArtifact rebuilds and rewrites the artifact named by --artifact
// so an edit session round-trips through the file it came from.
func writeBackArtifact(cmd *cobra.Command, service *app.ProtocolService) error {
	if flagArtifact == "" {
		return nil
	}
	seq, err := service.BuildSequence(cmd.Context())
	if err != nil {
		return err
	}
	return seqfile.Write(flagArtifact, seq, service.EncodePreamble())
}
