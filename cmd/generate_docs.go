package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/azure-devops-mcp/internal/tools"
	"github.com/teemow/azure-devops-mcp/internal/tools/common"
)

func newGenerateDocsCmd() *cobra.Command {
	var (
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command renders the tool registry the server is built from, so the
documentation always matches the actual tool arguments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(outputFile string) error {
	markdown := generateToolsMarkdown(tools.Groups())

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	} else {
		fmt.Print(markdown)
	}

	return nil
}

func generateToolsMarkdown(groups []tools.Group) string {
	var sb strings.Builder

	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running azure-devops-mcp as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	sb.WriteString("## Table of Contents\n\n")
	for _, group := range groups {
		anchor := strings.ToLower(strings.ReplaceAll(group.Name, " ", "-"))
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", group.Name, anchor))
	}
	sb.WriteString("\n")

	sb.WriteString("## Default Project\n\n")
	sb.WriteString("Tools taking a `projectId` fall back to the project configured with `--default-project` ")
	sb.WriteString("(or `AZURE_DEVOPS_DEFAULT_PROJECT`) when the argument is omitted.\n\n")

	for _, group := range groups {
		sb.WriteString(fmt.Sprintf("## %s\n\n", group.Name))
		for _, desc := range group.Tools {
			sb.WriteString(generateToolMarkdown(desc))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func generateToolMarkdown(desc common.Descriptor) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("### %s\n\n", desc.Name))

	if desc.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", desc.Description))
	}
	if !desc.ReadOnly {
		sb.WriteString("*Modifies Azure DevOps. Not available in read-only mode.*\n\n")
	}

	if len(desc.Schema.Fields) > 0 {
		sb.WriteString("**Arguments:**\n")
		for _, f := range desc.Schema.Fields {
			sb.WriteString(generateFieldMarkdown(f))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func generateFieldMarkdown(f common.Field) string {
	requiredStr := "optional"
	if f.Required {
		requiredStr = "required"
	}

	line := fmt.Sprintf("- `%s` (%s, %s)", f.Name, f.Type, requiredStr)
	if f.Description != "" {
		line += ": " + f.Description
	}
	if len(f.Enum) > 0 {
		line += fmt.Sprintf(" One of: `%s`.", strings.Join(f.Enum, "`, `"))
	}
	if f.Minimum != nil {
		line += fmt.Sprintf(" Minimum: %d.", *f.Minimum)
	}
	return line + "\n"
}
