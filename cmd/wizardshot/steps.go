package main

import (
	"fmt"
	"text/tabwriter"

	"wizardshot/internal/config"
	"wizardshot/internal/runner"

	"github.com/spf13/cobra"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List the wizard steps and the image each one writes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(config.Options{})
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tSTEP\tFILE\tVIEWPORT\tIMAGE\tACTIONS")
		for i, s := range runner.PlanFor(cfg) {
			w, h := s.ExpectedSize()
			n := len(s.Actions)
			if s.Enter != nil {
				n++
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%dx%d\t%dx%d\t%d\n",
				i+1, s.Name, s.File, s.Viewport.Width, s.Viewport.Height, w, h, n)
			if flagDebug {
				if s.Enter != nil {
					fmt.Fprintf(tw, "\t\t> %s\t\t\t\n", s.Enter)
				}
				for _, a := range s.Actions {
					fmt.Fprintf(tw, "\t\t  %s\t\t\t\n", a)
				}
			}
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(stepsCmd)
}
