package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wizardshot/internal/config"
	"wizardshot/internal/runner"
	"wizardshot/internal/ui"
	"wizardshot/internal/wizard"

	"github.com/spf13/cobra"
)

var (
	flagBaseURL     string
	flagOutput      string
	flagClusterName string
	flagPassword    string
	flagQuality     int
	flagBrowser     string
	flagHeadful     bool
	flagNoInstall   bool
	flagTimeout     time.Duration
	flagWaitReady   time.Duration
	flagQuiet       bool
)

func init() {
	captureCmd := &cobra.Command{
		Use:   "capture",
		Short: "Walk the setup wizard and write the documentation images",
		RunE:  runCapture,
	}

	captureCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "server address (default http://couchbase:8091)")
	captureCmd.Flags().StringVar(&flagOutput, "output", "", "output folder for images (default /output)")
	captureCmd.Flags().StringVar(&flagClusterName, "cluster-name", "", "cluster name typed into the wizard")
	captureCmd.Flags().StringVar(&flagPassword, "password", "", "administrator password typed into the wizard")
	captureCmd.Flags().IntVar(&flagQuality, "quality", 0, "JPEG quality 1-100 (default 85)")
	captureCmd.Flags().StringVar(&flagBrowser, "browser", "", "chromium, firefox or webkit")
	captureCmd.Flags().BoolVar(&flagHeadful, "headful", false, "show the browser window")
	captureCmd.Flags().BoolVar(&flagNoInstall, "no-install", false, "skip the Playwright driver/browser download")
	captureCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "per-action timeout (default 30s)")
	captureCmd.Flags().DurationVar(&flagWaitReady, "wait-ready", 0, "wait up to this long for the server to answer first")
	captureCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "no progress bar")

	rootCmd.AddCommand(captureCmd)
}

func loadConfig(o config.Options) (*config.Config, string, error) {
	cfg, used, err := config.Load(flagConfig)
	if err != nil {
		return nil, "", err
	}
	o.Debug = flagDebug
	cfg.Merge(o)
	return cfg, used, cfg.Validate()
}

func runCapture(cmd *cobra.Command, _ []string) error {
	cfg, used, err := loadConfig(config.Options{
		BaseURL:     flagBaseURL,
		Output:      flagOutput,
		ClusterName: flagClusterName,
		Password:    flagPassword,
		Quality:     flagQuality,
		Browser:     flagBrowser,
		Headful:     flagHeadful,
		NoInstall:   flagNoInstall,
		Timeout:     flagTimeout,
		WaitReady:   flagWaitReady,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	logSvc := ui.NewLogger(cfg.Debug).WithOutput(out)
	if used != "" {
		fmt.Fprintf(out, "Config file: %s\n", used)
	}
	fmt.Fprintln(out, "Full config:")
	cfg.Print(out)
	fmt.Fprintln(out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	plan := runner.PlanFor(cfg)
	hooks := wizard.Hooks{
		Action: func(s wizard.Step, a wizard.Action) {
			logSvc.Debugf("%s: %s\n", s.Name, a)
		},
	}
	var pr *ui.Progress
	if !flagQuiet && !cfg.Debug {
		pr = ui.NewProgress(out, len(plan))
		defer pr.Close()
		hooks.StepStart = func(_ int, s wizard.Step) { pr.Step(s.Name) }
		hooks.StepDone = func(int, wizard.Step, wizard.Shot) { pr.Advance() }
	} else {
		hooks.StepDone = func(_ int, s wizard.Step, shot wizard.Shot) {
			logSvc.Infof("%s -> %s (%dx%d)\n", s.Name, shot.Path, shot.Width, shot.Height)
		}
	}

	start := time.Now()
	res, err := runner.Run(ctx, runner.Options{Config: cfg, Hooks: hooks})
	if pr != nil {
		pr.Close()
	}
	if err != nil {
		if res.RunID != "" {
			for _, p := range res.Report.Problems {
				logSvc.Errorf("%s: %s\n", p.File, p.Reason)
			}
		}
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Capture Summary:")
	for _, s := range res.Manifest.Shots {
		fmt.Fprintf(out, "  %-22s %4dx%-4d %s\n", s.File, s.Width, s.Height, s.Step)
	}
	fmt.Fprintf(out, "Output: %s\n", res.Dir)
	fmt.Fprintf(out, "Log:    %s\n", res.LogPath)
	fmt.Fprintf(out, "Time:   %s\n", time.Since(start).Round(time.Second))
	return nil
}
