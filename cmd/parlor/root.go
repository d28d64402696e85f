package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"parlor/internal/config"
)

func execute() {
	rootCmd := &cobra.Command{
		Use:   "parlor",
		Short: "Local conversational agents over a supervised model server",
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file")

	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newDuoCmd())
	rootCmd.AddCommand(newAgentsCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newConversationsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(styledError(err.Error()))
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	if path == "" {
		path = config.DefaultPath()
	}

	return config.LoadOrCreate(path)
}

// operatorName is the identity used for the human side of a chat.
func operatorName() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}

	if user := os.Getenv("USERNAME"); user != "" {
		return user
	}

	return "user"
}
