package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolegraph-dev/rolegraph/internal/depindex"
	"github.com/rolegraph-dev/rolegraph/internal/fileutil"
	"github.com/rolegraph-dev/rolegraph/internal/graph"
	"github.com/rolegraph-dev/rolegraph/internal/role"
)

// RunResolve prints the transitive closure of the given seed roles across
// the selected kinds: everything that must be present before the seeds can
// run, seeds included.
func RunResolve(cmd *cobra.Command, args []string) error {
	rolesDir, err := ResolveRolesDir(cmd)
	if err != nil {
		return err
	}
	kinds, err := ParseKinds(cmd)
	if err != nil {
		return err
	}
	maxDepth, err := cmd.Flags().GetInt("depth")
	if err != nil {
		return fmt.Errorf("failed to read --depth flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	roles, err := role.Discover(rolesDir)
	if err != nil {
		return err
	}

	ix := depindex.Build(roles)
	closure := graph.Resolve(ix, args, kinds, maxDepth)

	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), closure)
	}
	for _, name := range closure {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
