package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/azure-devops-mcp/internal/azuredevops"
	"github.com/teemow/azure-devops-mcp/internal/config"
	"github.com/teemow/azure-devops-mcp/internal/connection"
	"github.com/teemow/azure-devops-mcp/internal/logging"
)

const defaultCheckTimeout = 30 * time.Second

func newCheckCmd() *cobra.Command {
	var (
		debugMode bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the Azure DevOps connection",
		Long: `Resolve the configured credentials, connect to the organization and list
the resource areas it exposes. Uses the same flags and environment variables
as serve. Exits non-zero when the connection cannot be established.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			logger := newLogger(os.Stderr, transportStdio, debugMode)
			conn := newConnectionManager(cfg, logger, nil)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runCheck(ctx, cmd.OutOrStdout(), conn, logger)
		},
	}

	config.AddFlags(cmd.Flags())
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultCheckTimeout, "Maximum time to wait for the connection")

	return cmd
}

func runCheck(ctx context.Context, out io.Writer, conn *connection.Manager, logger *slog.Logger) error {
	fmt.Fprintf(out, "Organization: %s\n", logging.RedactURL(conn.OrganizationURL()))

	if !conn.IsAuthenticated(ctx) {
		fmt.Fprintln(out, "Authenticated: no")
		if err := conn.LastError(); err != nil {
			fmt.Fprintln(out, azuredevops.Format(err))
		} else if ctx.Err() != nil {
			fmt.Fprintln(out, "Timed out waiting for the connection")
		}
		return fmt.Errorf("connection check failed")
	}
	fmt.Fprintln(out, "Authenticated: yes")

	c, err := conn.GetConnection(ctx)
	if err != nil {
		return err
	}
	areas := c.ResourceAreas()
	logger.Debug("resource areas reported by the connection", slog.Int("count", len(areas)))

	names := make([]string, 0, len(areas))
	for _, a := range areas {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	fmt.Fprintf(out, "Resource areas (%d): %s\n", len(names), strings.Join(names, ", "))
	return nil
}
