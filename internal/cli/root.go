package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolegraph-dev/rolegraph/internal/output"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rolegraph",
		Short: "Reconstruct dependency graphs from declarative role repositories",
		Long: `Rolegraph statically analyzes a repository of role directories
(metadata plus task files) and reconstructs the dependency relationships
between roles without executing anything: ordering hints, declared
dependencies and the four static/dynamic inclusion kinds, each walkable
in both directions.

Snapshots are written as one tree.json per role and feed documentation
generation, impact analysis and deployment ordering.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			configureLogging(verbose)
		},
	}
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().String("roles-dir", "", "Root directory containing all role directories (default: ./roles, or roles/ next to the binary)")

	graphCmd := &cobra.Command{
		Use:   "graph <role>",
		Short: "Generate the 12-variant dependency graph bundle for one role",
		Args:  cobra.ExactArgs(1),
		RunE:  RunGraph,
	}
	addSnapshotFlags(graphCmd)

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate and persist graph bundles for every role",
		Args:  cobra.NoArgs,
		RunE:  RunBatch,
	}
	addSnapshotFlags(batchCmd)
	batchCmd.Flags().Int("workers", 0, "Worker pool size (default: number of CPUs)")
	batchCmd.Flags().Bool("json", false, "Print machine-readable run report")

	resolveCmd := &cobra.Command{
		Use:   "resolve <role>...",
		Short: "Resolve the transitive dependency closure of one or more roles",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunResolve,
	}
	resolveCmd.Flags().String("kinds", "declared-dependency,ordering-hint", "Comma-separated dependency kinds to follow")
	resolveCmd.Flags().Int("depth", 0, "Max traversal depth; <= 0 means unbounded")
	resolveCmd.Flags().Bool("json", false, "Print machine-readable closure output")

	rolesCmd := &cobra.Command{
		Use:   "roles",
		Short: "List discovered roles",
		Args:  cobra.NoArgs,
		RunE:  RunRoles,
	}
	rolesCmd.Flags().Bool("json", false, "Print machine-readable role list")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rolegraph %s\n", version)
		},
	}

	rootCmd.AddCommand(
		graphCmd,
		batchCmd,
		resolveCmd,
		rolesCmd,
		versionCmd,
	)

	return rootCmd
}

func addSnapshotFlags(cmd *cobra.Command) {
	cmd.Flags().Int("depth", 0, "Max traversal depth; <= 0 means unbounded except for the cycle guard")
	cmd.Flags().String("output", string(output.FormatJSON), "Output format: yaml|json|console")
	cmd.Flags().String("shadow-folder", "", "Write snapshots under this alternate root, preserving the role layout")
	cmd.Flags().Bool("preview", false, "Run all computations but only print, never write")
	cmd.Flags().String("docs-base", "", "Base for computed documentation links (default: sibling-relative)")
}
