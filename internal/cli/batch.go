package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolegraph-dev/rolegraph/internal/batch"
	"github.com/rolegraph-dev/rolegraph/internal/fileutil"
)

// BatchSummary is the machine-readable report of one batch run.
type BatchSummary struct {
	RolesDir   string   `json:"roles_dir"`
	Roles      int      `json:"roles"`
	Succeeded  int      `json:"succeeded"`
	Failed     []string `json:"failed,omitempty"`
	DurationMS int64    `json:"duration_ms"`
}

// RunBatch generates snapshots for every role. Individual role failures are
// reported per line and never abort the run; only a missing or empty roles
// root is fatal.
func RunBatch(cmd *cobra.Command, args []string) error {
	opts, err := ParseSnapshotOptions(cmd)
	if err != nil {
		return err
	}
	opts.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return fmt.Errorf("failed to read --workers flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	report, err := batch.RunAll(cmd.Context(), opts)
	if err != nil {
		return err
	}

	failed := report.Failed()
	for _, result := range failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: role %s: %v\n", result.Role, result.Err)
	}

	summary := BatchSummary{
		RolesDir:   opts.RolesDir,
		Roles:      len(report.Results),
		Succeeded:  len(report.Results) - len(failed),
		DurationMS: report.Duration.Milliseconds(),
	}
	for _, result := range failed {
		summary.Failed = append(summary.Failed, result.Role)
	}

	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), summary)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "processed %d roles (%d failed) in %dms\n",
		summary.Roles, len(failed), summary.DurationMS)
	return nil
}
