package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rolegraph-dev/rolegraph/internal/batch"
	"github.com/rolegraph-dev/rolegraph/internal/output"
	"github.com/rolegraph-dev/rolegraph/internal/scanner"
)

// ResolveRolesDir returns the roles root: the --roles-dir flag when set,
// otherwise ./roles, otherwise a roles directory next to the binary.
func ResolveRolesDir(cmd *cobra.Command) (string, error) {
	flagValue, err := cmd.Flags().GetString("roles-dir")
	if err != nil {
		return "", fmt.Errorf("failed to read --roles-dir flag: %w", err)
	}
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}

	if info, err := os.Stat("roles"); err == nil && info.IsDir() {
		return filepath.Abs("roles")
	}

	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "roles")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}

	return filepath.Abs("roles")
}

// ParseSnapshotOptions reads the flags shared by graph and batch commands.
func ParseSnapshotOptions(cmd *cobra.Command) (batch.Options, error) {
	var opts batch.Options

	rolesDir, err := ResolveRolesDir(cmd)
	if err != nil {
		return opts, err
	}
	opts.RolesDir = rolesDir

	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return opts, fmt.Errorf("failed to read --output flag: %w", err)
	}
	opts.Format, err = output.ParseFormat(formatValue)
	if err != nil {
		return opts, err
	}

	opts.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return opts, fmt.Errorf("failed to read --depth flag: %w", err)
	}
	opts.ShadowDir, err = cmd.Flags().GetString("shadow-folder")
	if err != nil {
		return opts, fmt.Errorf("failed to read --shadow-folder flag: %w", err)
	}
	if opts.ShadowDir != "" {
		if opts.ShadowDir, err = filepath.Abs(opts.ShadowDir); err != nil {
			return opts, err
		}
	}
	opts.Preview, err = cmd.Flags().GetBool("preview")
	if err != nil {
		return opts, fmt.Errorf("failed to read --preview flag: %w", err)
	}
	opts.DocsBase, err = cmd.Flags().GetString("docs-base")
	if err != nil {
		return opts, fmt.Errorf("failed to read --docs-base flag: %w", err)
	}

	return opts, nil
}

// ParseKinds resolves the --kinds comma list into dependency kinds.
func ParseKinds(cmd *cobra.Command) ([]scanner.Kind, error) {
	raw, err := cmd.Flags().GetString("kinds")
	if err != nil {
		return nil, fmt.Errorf("failed to read --kinds flag: %w", err)
	}

	kinds := make([]scanner.Kind, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kind, err := scanner.ParseKind(part)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("no dependency kinds selected")
	}
	return kinds, nil
}
