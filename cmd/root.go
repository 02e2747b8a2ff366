package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the azure-devops-mcp application
var rootCmd = &cobra.Command{
	Use:   "azure-devops-mcp",
	Short: "MCP server for Azure DevOps",
	Long: `azure-devops-mcp exposes an Azure DevOps organization to AI assistants
through the Model Context Protocol (MCP): projects, work items, repositories,
pull requests and pipelines.

Without a subcommand the MCP server is started on stdio.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "azure-devops-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
