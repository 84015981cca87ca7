package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolegraph-dev/rolegraph/internal/fileutil"
	"github.com/rolegraph-dev/rolegraph/internal/role"
)

// RunRoles lists the role directories discovered under the roles root.
func RunRoles(cmd *cobra.Command, args []string) error {
	rolesDir, err := ResolveRolesDir(cmd)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	roles, err := role.Discover(rolesDir)
	if err != nil {
		return err
	}

	if asJSON {
		names := make([]string, 0, len(roles))
		for _, r := range roles {
			names = append(names, r.Name)
		}
		return fileutil.PrintJSON(cmd.OutOrStdout(), names)
	}
	for _, r := range roles {
		fmt.Fprintln(cmd.OutOrStdout(), r.Name)
	}
	return nil
}
