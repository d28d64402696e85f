package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"parlor/internal/agent"
	"parlor/internal/memory"
)

func newAgentsCmd() *cobra.Command {
	agentsCmd := &cobra.Command{
		Use:   "agents",
		Short: "Manage agent profiles",
	}

	agentsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known agents",
		RunE:  runAgentsListCmd,
	})

	agentsCmd.AddCommand(&cobra.Command{
		Use:   "show <agent>",
		Short: "Show an agent's profile and parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  runAgentsShowCmd,
	})

	agentsCmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a new agent from the defaults",
		Args:  cobra.ExactArgs(1),
		RunE:  runAgentsCreateCmd,
	})

	agentsCmd.AddCommand(&cobra.Command{
		Use:   "update <agent>",
		Short: "Update an agent's profile field by field",
		Args:  cobra.ExactArgs(1),
		RunE:  runAgentsUpdateCmd,
	})

	return agentsCmd
}

func runAgentsListCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	entries, err := agent.NewRegistry(cfg.DataDir).List()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println(styleDim.Render("No agents yet."))
		fmt.Println("Create one with " + styleAgentName.Render("parlor agents create <name>"))
		return nil
	}

	fmt.Println(styleHeader.Render("NAME") + "\t" + styleHeader.Render("MODEL") + "\t" + styleHeader.Render("DESCRIPTION"))
	for _, e := range entries {
		fmt.Printf("%s\t%s\t%s\n", styleAgentName.Render(e.Name), e.Model, styleDim.Render(e.Description))
	}

	return nil
}

func runAgentsShowCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := agent.NewRegistry(cfg.DataDir)

	profile, err := registry.LoadProfile(args[0])
	if err != nil {
		return err
	}

	params, err := registry.LoadParams(args[0])
	if err != nil {
		return err
	}

	fmt.Println(styleHeader.Render("Profile"))
	for _, field := range agent.ProfileFields(profile) {
		fmt.Println(kvLine(field.Name, field.Value))
	}

	fmt.Println(styleHeader.Render("Parameters"))
	for _, field := range agent.ParamsFields(params) {
		fmt.Println(kvLine(field.Name, field.Value))
	}

	return nil
}

func runAgentsCreateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := agent.NewRegistry(cfg.DataDir)

	profile := agent.DefaultProfile()
	profile.Name = args[0]
	params := agent.DefaultParams()

	reader := bufio.NewScanner(os.Stdin)

	fmt.Println(styleHeader.Render("New agent: " + agent.Normalize(args[0])))
	fmt.Println(styleDim.Render("Press enter to keep a value, or type a replacement."))

	overrides := collectOverrides(reader, agent.ProfileFields(profile), "name")
	if profile, err = agent.ApplyProfileOverrides(profile, overrides); err != nil {
		return err
	}

	fmt.Println(styleHeader.Render("Generation parameters"))
	paramOverrides := collectOverrides(reader, agent.ParamsFields(params), "")
	if params, err = agent.ApplyParamsOverrides(params, paramOverrides); err != nil {
		return err
	}

	// Collection creation only records the embedding configuration; no
	// inference server is needed until the first query.
	store, err := memory.NewChromemStore(cfg.DataDir, memory.OllamaEmbedding(cfg.EmbedModel, cfg.PortRangeStart))
	if err != nil {
		return err
	}

	templatesDir := filepath.Join(cfg.DataDir, "agent-templates")
	if err := registry.Scaffold(profile, params, templatesDir, store, operatorName()); err != nil {
		return err
	}

	fmt.Println(styleSuccess.Render(agent.Normalize(profile.Name) + " is now online."))

	return nil
}

func runAgentsUpdateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	registry := agent.NewRegistry(cfg.DataDir)

	profile, err := registry.LoadProfile(args[0])
	if err != nil {
		return err
	}

	params, err := registry.LoadParams(args[0])
	if err != nil {
		return err
	}

	reader := bufio.NewScanner(os.Stdin)

	fmt.Println(styleHeader.Render("Update " + agent.Normalize(args[0])))
	fmt.Println(styleDim.Render("Press enter to keep a value, or type a replacement."))

	overrides := collectOverrides(reader, agent.ProfileFields(profile), "name")
	updated, err := agent.ApplyProfileOverrides(profile, overrides)
	if err != nil {
		return err
	}

	fmt.Println(styleHeader.Render("Generation parameters"))
	paramOverrides := collectOverrides(reader, agent.ParamsFields(params), "")
	updatedParams, err := agent.ApplyParamsOverrides(params, paramOverrides)
	if err != nil {
		return err
	}

	// full-record rewrite, never a partial merge
	if err := registry.SaveProfile(updated); err != nil {
		return err
	}

	if err := registry.SaveParams(updated.Name, updatedParams); err != nil {
		return err
	}

	if err := registry.PutEntry(agent.Entry{
		Name:        updated.Name,
		Description: updated.Description,
		Model:       updated.Model,
	}); err != nil {
		return err
	}

	fmt.Println(styleSuccess.Render("Saved."))

	return nil
}

// collectOverrides walks the record's fields and gathers replacements typed
// by the operator. skip names a field that must not be edited.
func collectOverrides(reader *bufio.Scanner, fields []agent.Field, skip string) map[string]string {
	overrides := make(map[string]string)

	for _, field := range fields {
		if field.Name == skip {
			continue
		}

		fmt.Printf("%s (%s): ", styleLabel.Render(field.Name), field.Value)

		if !reader.Scan() {
			break
		}

		if value := strings.TrimSpace(reader.Text()); value != "" {
			overrides[field.Name] = value
		}
	}

	return overrides
}
