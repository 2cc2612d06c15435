package main

import (
	"fmt"

	"wizardshot/internal/config"
	"wizardshot/internal/imgcheck"
	"wizardshot/internal/runner"

	"github.com/spf13/cobra"
)

var flagVerifyOutput string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every image exists with the expected dimensions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(config.Options{Output: flagVerifyOutput})
		if err != nil {
			return err
		}

		rep := imgcheck.Verify(cfg.Output, runner.Expectations(runner.PlanFor(cfg)))
		out := cmd.OutOrStdout()
		for _, p := range rep.Problems {
			fmt.Fprintf(out, "FAIL %s: %s\n", p.File, p.Reason)
		}
		fmt.Fprintf(out, "%d/%d images ok in %s\n", rep.Checked-len(rep.Problems), rep.Checked, rep.Dir)
		return rep.Err()
	},
}

func init() {
	verifyCmd.Flags().StringVar(&flagVerifyOutput, "output", "", "folder holding the images (default from config)")
	rootCmd.AddCommand(verifyCmd)
}
