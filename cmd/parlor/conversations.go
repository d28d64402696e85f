package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"parlor/internal/conversation"
)

func newConversationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conversations",
		Short: "List recorded conversations",
		RunE:  runConversationsCmd,
	}
}

func runConversationsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	infos, err := conversation.NewService(cfg.DataDir).List()
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		fmt.Println(styleDim.Render("No conversations recorded yet."))
		return nil
	}

	for _, info := range infos {
		fmt.Println(styleAgentName.Render(info.Record.Host) + " ↔ " + styleAgentName.Render(info.Record.Guest))
		fmt.Println(kvLine("id", info.Record.ID))
		fmt.Println(kvLine("started", info.Record.StartedAt.Format("2006-01-02 15:04")))
		fmt.Println(kvLine("turns", strconv.Itoa(info.TurnCount)))
	}

	return nil
}
