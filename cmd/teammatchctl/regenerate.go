package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/domain"
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate <event-id>",
	Short: "Regenerate match candidates for every participant of an event",
	Long: `Recomputes each participant's candidate list from the current profiles.
Rows whose content is unchanged are left as they are.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"store": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		e := envFrom(cmd)
		eventID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id: %w", err)
		}

		services := e.backend.Services(domain.NopNotifier{}, e.logger)
		profiles, err := services.Profiles.ListParticipants(cmd.Context(), eventID)
		if err != nil {
			return err
		}

		total := 0
		for _, p := range profiles {
			matches, err := services.Matches.GenerateMatches(cmd.Context(), eventID, p.UserID)
			if err != nil {
				return fmt.Errorf("generate for %s: %w", p.UserID, err)
			}
			total += len(matches)
			e.logger.Debug("regenerated", zap.String("user_id", p.UserID.String()), zap.Int("matches", len(matches)))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Regenerated %d candidates for %d participants\n", total, len(profiles))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regenerateCmd)
}
