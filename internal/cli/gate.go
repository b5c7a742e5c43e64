package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dalemusser/postdesk/internal/app/system/gates"
	"github.com/dalemusser/postdesk/internal/domain/models"
	"github.com/spf13/cobra"
)

// GateReport is the JSON printed by the gate command.
type GateReport struct {
	Linked     bool               `json:"linked"`
	SyncErrors []models.SyncError `json:"sync_errors"`
	Enabled    bool               `json:"enabled"`
	Reason     string             `json:"reason"`
	Message    string             `json:"message"`
}

func newGateReport(linked bool, syncErrors []models.SyncError) GateReport {
	g := gates.CreatePost(gates.LinkingOf(linked), syncErrors)
	if syncErrors == nil {
		syncErrors = []models.SyncError{}
	}
	return GateReport{
		Linked:     linked,
		SyncErrors: syncErrors,
		Enabled:    g.Enabled,
		Reason:     g.Reason(),
		Message:    g.Message,
	}
}

func newGateCommand(opts *options) *cobra.Command {
	var (
		linked     bool
		syncErrors []string
	)

	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Evaluate the create-post gate for a linking and sync state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			errs, err := parseSyncErrors(syncErrors)
			if err != nil {
				return err
			}
			return writeJSON(opts, newGateReport(linked, errs))
		},
	}
	cmd.Flags().BoolVar(&linked, "linked", false, "Business has at least one linked social account")
	cmd.Flags().StringArrayVar(&syncErrors, "sync-error", nil, "Sync failure as platform:reason (repeatable)")
	return cmd
}

// parseSyncErrors reads "platform:reason" pairs. The reason may itself
// contain colons.
func parseSyncErrors(raw []string) ([]models.SyncError, error) {
	var out []models.SyncError
	for _, s := range raw {
		platform, reason, ok := strings.Cut(s, ":")
		platform = strings.TrimSpace(platform)
		reason = strings.TrimSpace(reason)
		if !ok || platform == "" || reason == "" {
			return nil, fmt.Errorf("invalid --sync-error %q: want platform:reason", s)
		}
		out = append(out, models.SyncError{Platform: strings.ToLower(platform), Error: reason})
	}
	return out, nil
}

func writeJSON(opts *options, v any) error {
	enc := json.NewEncoder(opts.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
