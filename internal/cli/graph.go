package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolegraph-dev/rolegraph/internal/depindex"
	"github.com/rolegraph-dev/rolegraph/internal/graph"
	"github.com/rolegraph-dev/rolegraph/internal/output"
	"github.com/rolegraph-dev/rolegraph/internal/role"
)

// RunGraph generates the snapshot bundle for a single role. Unlike batch
// mode there is only one unit of work, so errors surface directly.
func RunGraph(cmd *cobra.Command, args []string) error {
	opts, err := ParseSnapshotOptions(cmd)
	if err != nil {
		return err
	}
	startRole := args[0]

	roles, err := role.Discover(opts.RolesDir)
	if err != nil {
		return err
	}
	if !containsRole(roles, startRole) {
		return fmt.Errorf("role %q not found under %q", startRole, opts.RolesDir)
	}

	ix := depindex.Build(roles)
	bundle := graph.BuildBundle(ix, startRole, opts.MaxDepth)

	writer := &output.Writer{
		RolesDir:  opts.RolesDir,
		ShadowDir: opts.ShadowDir,
		Format:    opts.Format,
		Preview:   opts.Preview,
		DocsBase:  opts.DocsBase,
		Stdout:    cmd.OutOrStdout(),
	}
	path, err := writer.Write(startRole, bundle)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}

func containsRole(roles []role.Role, name string) bool {
	for _, r := range roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
