package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/calgrid/internal/google"
	"github.com/teemow/calgrid/internal/server"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all MCP tools, write operations
included. The tools are introspected from the registered definitions, so
the output always matches what "calgrid mcp --yolo" serves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := listTools(cmd.Context())
			if err != nil {
				return err
			}
			markdown := generateToolsMarkdown(tools)

			if outputFile == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), markdown)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// listTools returns every tool definition. No credentials are needed.
func listTools(ctx context.Context) ([]mcp.Tool, error) {
	sc, err := newServerContext(ctx, server.WithTokenProvider(google.NewStaticTokenProvider(nil)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = sc.Shutdown() }()

	mcpSrv, err := newMCPServer(sc, false)
	if err != nil {
		return nil, err
	}

	serverTools := mcpSrv.ListTools()
	tools := make([]mcp.Tool, 0, len(serverTools))
	for _, serverTool := range serverTools {
		tools = append(tools, serverTool.Tool)
	}
	return tools, nil
}

func generateToolsMarkdown(tools []mcp.Tool) string {
	var sb strings.Builder

	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document lists the tools available when running `calgrid mcp`.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	toolsByCategory := groupToolsByCategory(tools)
	categories := make([]string, 0, len(toolsByCategory))
	for category := range toolsByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	sb.WriteString("## Table of Contents\n\n")
	for _, category := range categories {
		anchor := strings.ToLower(strings.ReplaceAll(category, " ", "-"))
		fmt.Fprintf(&sb, "- [%s](#%s)\n", category, anchor)
	}
	sb.WriteString("\n")

	sb.WriteString("## Multi-Account Support\n\n")
	sb.WriteString("The event tools take an optional `account` parameter naming the Google account to use:\n\n")
	sb.WriteString("- **Default behavior:** If `account` is not specified, the `default` account is used\n")
	sb.WriteString("- **Signing in:** Run `calgrid login --account <name>` once per account\n\n")

	sb.WriteString("## Safety Mode\n\n")
	sb.WriteString("Tools marked *write* are only registered with `calgrid mcp --yolo`.\n\n")

	for _, category := range categories {
		categoryTools := toolsByCategory[category]
		sort.Slice(categoryTools, func(i, j int) bool {
			return categoryTools[i].Name < categoryTools[j].Name
		})

		fmt.Fprintf(&sb, "## %s\n\n", category)
		for _, tool := range categoryTools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func groupToolsByCategory(tools []mcp.Tool) map[string][]mcp.Tool {
	categories := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		category := categoryFromToolName(tool.Name)
		categories[category] = append(categories[category], tool)
	}
	return categories
}

func categoryFromToolName(name string) string {
	prefix, _, _ := strings.Cut(name, "_")
	switch prefix {
	case "grid":
		return "Grid Tools"
	case "theme":
		return "Theme Tools"
	case "calendar":
		return "Google Calendar Tools"
	default:
		return "Other"
	}
}

func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s", tool.Name)
	if ro := tool.Annotations.ReadOnlyHint; ro != nil && !*ro {
		sb.WriteString(" (*write*)")
	}
	sb.WriteString("\n\n")

	if tool.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", tool.Description)
	}

	if len(tool.InputSchema.Properties) == 0 {
		return sb.String()
	}

	sb.WriteString("**Arguments:**\n")
	propNames := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		propNames = append(propNames, name)
	}
	sort.Strings(propNames)

	for _, name := range propNames {
		propMap, ok := tool.InputSchema.Properties[name].(map[string]any)
		if !ok {
			continue
		}

		requiredStr := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			requiredStr = "required"
		}
		fmt.Fprintf(&sb, "- `%s` (%s, %s): ", name, propertyType(propMap), requiredStr)

		if desc, ok := propMap["description"].(string); ok {
			sb.WriteString(desc)
		}
		if enum := propertyEnum(propMap); len(enum) > 0 {
			fmt.Fprintf(&sb, " One of: %s.", strings.Join(enum, ", "))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func propertyType(prop map[string]any) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}

func propertyEnum(prop map[string]any) []string {
	var out []string
	switch enum := prop["enum"].(type) {
	case []string:
		for _, v := range enum {
			out = append(out, "`"+v+"`")
		}
	case []any:
		for _, v := range enum {
			out = append(out, fmt.Sprintf("`%v`", v))
		}
	}
	return out
}
