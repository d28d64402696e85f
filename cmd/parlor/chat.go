package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"parlor/internal/agent"
	"parlor/internal/chat"
	"parlor/internal/conversation"
	"parlor/internal/memory"
	"parlor/internal/ollama"
	"parlor/internal/prompt"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <agent>",
		Short: "Open an interactive chat session with an agent",
		Args:  cobra.ExactArgs(1),
		RunE:  runChatCmd,
	}
}

func runChatCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := agent.NewRegistry(cfg.DataDir)

	ag, err := agent.Load(registry, args[0], cfg.CacheCapacity)
	if err != nil {
		return err
	}

	port, err := ollama.FindAvailablePort(cfg.PortRangeStart, cfg.PortRangeEnd)
	if err != nil {
		return err
	}

	server := ollama.NewServer(cfg.OllamaBin)
	if err := server.Start(port); err != nil {
		return err
	}
	// The supervised process is released on every exit path, interrupt
	// included.
	defer server.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	operator := operatorName()

	store, err := memory.NewChromemStore(cfg.DataDir, memory.OllamaEmbedding(cfg.EmbedModel, port))
	if err != nil {
		return err
	}

	conv, err := conversation.NewService(cfg.DataDir).Start(ag.Profile.Name, true, operator, false)
	if err != nil {
		return err
	}

	fmt.Println(styleHeader.Render("Chat with " + ag.Profile.Name))
	fmt.Println(kvLine("port", stylePort.Render(strconv.Itoa(port))))
	fmt.Println(kvLine("model", ag.Profile.Model))
	fmt.Println(styleDim.Render("type 'exit' or 'quit' to leave, '!focus' to adjust the agent's focus"))

	session := &chat.Session{
		Agent:       ag,
		Counterpart: operator,
		Engine:      prompt.NewEngine(store, cfg.RetrievalTopN),
		Client:      ollama.NewClient(ollama.LocalURL(port), cfg.HTTPTimeout()),
		Store:       store,
		Log:         conv,
		In:          os.Stdin,
		Out:         os.Stdout,
	}

	return session.Run(ctx)
}
