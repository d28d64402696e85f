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

func newDuoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duo <host-agent> <guest-agent>",
		Short: "Put two agents into an autonomous round-robin chat",
		Long:  "Runs an unbounded agent-to-agent exchange; interrupt with Ctrl-C to end it.",
		Args:  cobra.ExactArgs(2),
		RunE:  runDuoCmd,
	}
}

func runDuoCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := agent.NewRegistry(cfg.DataDir)

	host, err := agent.Load(registry, args[0], cfg.CacheCapacity)
	if err != nil {
		return err
	}

	guest, err := agent.Load(registry, args[1], cfg.CacheCapacity)
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
	defer server.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := memory.NewChromemStore(cfg.DataDir, memory.OllamaEmbedding(cfg.EmbedModel, port))
	if err != nil {
		return err
	}

	conv, err := conversation.NewService(cfg.DataDir).Start(host.Profile.Name, true, guest.Profile.Name, true)
	if err != nil {
		return err
	}

	fmt.Println(styleHeader.Render(host.Profile.Name + " welcomes " + guest.Profile.Name))
	fmt.Println(kvLine("port", stylePort.Render(strconv.Itoa(port))))
	fmt.Println(styleDim.Render("interrupt (Ctrl-C) to end the exchange"))

	duo := &chat.Duo{
		Host:   host,
		Guest:  guest,
		Engine: prompt.NewEngine(store, cfg.RetrievalTopN),
		Client: ollama.NewClient(ollama.LocalURL(port), cfg.HTTPTimeout()),
		Store:  store,
		Log:    conv,
		Out:    os.Stdout,
	}

	return duo.Run(ctx)
}
