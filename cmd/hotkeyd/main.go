package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/TanaroSch/hotkeyd/internal/app"
	"github.com/TanaroSch/hotkeyd/internal/config"
	"github.com/TanaroSch/hotkeyd/internal/dispatch"
	"github.com/TanaroSch/hotkeyd/internal/grab"
	"github.com/TanaroSch/hotkeyd/internal/notify"
	"github.com/TanaroSch/hotkeyd/internal/status"
	"github.com/TanaroSch/hotkeyd/internal/x11"
)

const version = "v0.3.0"

var (
	timeout       float64
	configPath    string
	redirectPath  string
	statusPath    string
	maxMotionFreq uint
	ignoreMapping bool
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "hotkeyd [flags] [extra-config ...]",
	Short: "Global X11 hotkey daemon with multi-step chains",
	Long: `hotkeyd grabs the hotkeys listed in its configuration and runs a shell
command when one of them is typed. A hotkey may be a chain of chords
separated by ";" which must be typed in order before the timeout.

Send SIGUSR1 to reload the configuration.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.Float64VarP(&timeout, "timeout", "t", config.DefaultTimeout.Seconds(), "Chain timeout in seconds (0 disables)")
	flags.StringVarP(&configPath, "config", "c", "", "Main configuration file (default $XDG_CONFIG_HOME/hotkeyd/hotkeyd.toml)")
	flags.StringVarP(&redirectPath, "redirect", "r", "", "Append the output of every command to this file")
	flags.StringVarP(&statusPath, "status-fifo", "s", "", "Write status lines to this named pipe")
	flags.UintVarP(&maxMotionFreq, "max-motion-freq", "f", 0, "Maximum motion events handled per second (0 is unlimited)")
	flags.BoolVarP(&ignoreMapping, "ignore-mapping", "n", false, "Do not reload when the keyboard mapping changes")
	flags.BoolVar(&verbose, "verbose", false, "Log every input event and its outcome")
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log.Printf("hotkeyd %s starting...", version)

	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	// Flags given on the command line win over the file on every reload.
	flags := cmd.Flags()
	load := func() (*config.Config, error) {
		cfg, err := config.LoadAll(configPath, args)
		if err != nil {
			return nil, err
		}
		if flags.Changed("timeout") {
			cfg.Timeout = timeout
		}
		if flags.Changed("max-motion-freq") {
			cfg.MaxMotionFreq = maxMotionFreq
		}
		return cfg, nil
	}

	shell, err := dispatch.LookupShell()
	if err != nil {
		return err
	}
	runner, err := dispatch.NewRunner(shell, redirectPath)
	if err != nil {
		return err
	}
	defer runner.Close()

	var statusWriter *status.Writer
	if statusPath != "" {
		statusWriter, err = status.OpenFIFO(statusPath)
		if err != nil {
			return err
		}
		defer statusWriter.Close()
	}

	notifier := notify.NewManager(true, "hotkeyd")

	conn, err := x11.Open()
	if err != nil {
		if errors.Is(err, grab.ErrBackendNotAvailable) {
			err = fmt.Errorf("%w (hotkeyd needs an X server or XWayland)", err)
		}
		notifier.Fatal(err)
		return err
	}
	defer conn.Close()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	application, err := app.New(app.Deps{
		Display:  conn,
		Load:     load,
		Runner:   runner,
		Status:   statusWriter,
		Notifier: notifier,
	}, app.Options{
		IgnoreMapping: ignoreMapping,
		Verbose:       verbose,
		Reload:        reloadRequests(ctx),
	})
	if err != nil {
		notifier.Fatal(fmt.Errorf("failed to load configuration: %w", err))
		return err
	}

	if err := application.Run(ctx); err != nil {
		notifier.Fatal(err)
		return err
	}
	log.Println("hotkeyd stopped")
	return nil
}
