package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/teammatch/backend/internal/domain"
	"github.com/teammatch/backend/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo event with sample participants and matches",
	Example: `  teammatchctl seed
  teammatchctl seed --host 6f1c... --name "HackMIT 2025"`,
	Annotations: map[string]string{"store": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		e := envFrom(cmd)

		hostID := uuid.New()
		if raw, _ := cmd.Flags().GetString("host"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("invalid --host: %w", err)
			}
			hostID = id
		}
		name, _ := cmd.Flags().GetString("name")

		services := e.backend.Services(domain.NopNotifier{}, e.logger)
		result, err := seed.Run(cmd.Context(), seed.Services{
			Events:   services.Events,
			Profiles: services.Profiles,
			Matches:  services.Matches,
		}, hostID, name)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Event %q created with code %s (id %s)\n", result.Event.Name, result.Event.Code, result.Event.ID)
		fmt.Fprintf(out, "  host: %s\n", hostID)
		for _, u := range result.Users {
			fmt.Fprintf(out, "  %-16s %s  %d matches\n", u.Name, u.UserID, u.Matches)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().String("host", "", "host user id (random when empty)")
	seedCmd.Flags().String("name", "HackMIT 2025", "event name")
	rootCmd.AddCommand(seedCmd)
}
