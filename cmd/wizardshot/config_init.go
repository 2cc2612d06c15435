package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"wizardshot/internal/config"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var flagInitPath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the wizardshot config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		path := flagInitPath
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintln(out, "Configuration already exists at:")
			fmt.Fprintln(out, "  ", path)
			return nil
		}

		def := config.DefaultConfig()
		var err error
		if def.BaseURL, err = ask("Server URL", def.BaseURL, validateURL, false); err != nil {
			return err
		}
		if def.Output, err = ask("Output folder", def.Output, notEmpty, false); err != nil {
			return err
		}
		if def.ClusterName, err = ask("Cluster name", def.ClusterName, notEmpty, false); err != nil {
			return err
		}
		if def.Password, err = ask("Administrator password", def.Password, notEmpty, true); err != nil {
			return err
		}

		if err := def.Validate(); err != nil {
			return err
		}

		fmt.Fprintln(out)
		def.Print(out)
		confirm := promptui.Prompt{Label: "Write " + path, IsConfirm: true}
		if _, err := confirm.Run(); err != nil {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}

		if err := config.SaveYAML(def, path); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		fmt.Fprintln(out, "Config created at:", path)
		return nil
	},
}

func ask(label, def string, validate promptui.ValidateFunc, secret bool) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
	}
	if secret {
		p.Mask = '*'
	}
	return p.Run()
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("value required")
	}
	return nil
}

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must be an http(s) URL")
	}
	return nil
}

func init() {
	configInitCmd.Flags().StringVar(&flagInitPath, "path", config.DefaultPath, "where to write the config")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
