package main

import (
	"github.com/spf13/cobra"

	"parlor/internal/ollama"
)

func newModelsCmd() *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Manage the local model library",
	}

	modelsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List downloaded models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			library, err := newLibrary(cmd)
			if err != nil {
				return err
			}
			return library.List()
		},
	})

	modelsCmd.AddCommand(&cobra.Command{
		Use:   "pull <model>",
		Short: "Download a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := newLibrary(cmd)
			if err != nil {
				return err
			}
			return library.Pull(args[0])
		},
	})

	modelsCmd.AddCommand(&cobra.Command{
		Use:   "rm <model>",
		Short: "Remove a downloaded model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := newLibrary(cmd)
			if err != nil {
				return err
			}
			return library.Remove(args[0])
		},
	})

	modelsCmd.AddCommand(&cobra.Command{
		Use:   "cp <src> <dst>",
		Short: "Copy a model under a new name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := newLibrary(cmd)
			if err != nil {
				return err
			}
			return library.Copy(args[0], args[1])
		},
	})

	return modelsCmd
}

func newLibrary(cmd *cobra.Command) (*ollama.Library, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	return ollama.NewLibrary(cfg.OllamaBin), nil
}
