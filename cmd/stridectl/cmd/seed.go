package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/stridelog/stridelog/internal/config"
	"github.com/stridelog/stridelog/internal/db"
	"github.com/stridelog/stridelog/internal/format"
	"github.com/stridelog/stridelog/internal/model"
	"github.com/stridelog/stridelog/internal/repository"
	"github.com/stridelog/stridelog/internal/usecase"
)

func SeedCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert a demo weight loss goal with a week of progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(database *sqlx.DB, cfg *config.Config) error {
				err := db.RunMigrations(database.DB, cfg.DBDriver)
				if err != nil {
					return err
				}

				goal, err := Seed(cmd.Context(), database, cfg.DBTimeout, userID, time.Now())
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "seeded %s (%s) for %s\n", format.Goal(goal), goal.ID, userID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "demo-user", "user id that owns the seeded goal")
	return cmd
}

// Seed creates a weight loss goal due in 30 days and logs one entry per day
// for the past week.
func Seed(ctx context.Context, database *sqlx.DB, timeout time.Duration, userID string, now time.Time) (*model.Goal, error) {
	goalRepository := repository.NewGoalRepository(database, timeout)
	progressEntryRepository := repository.NewProgressEntryRepository(database, timeout)
	goals := usecase.NewGoals(goalRepository, progressEntryRepository, nil)
	progress := usecase.NewProgress(goalRepository, progressEntryRepository, nil)

	goal, err := goals.Create(ctx, usecase.NewGoal{
		UserID:      userID,
		Type:        model.GoalTypeWeightLoss,
		TargetValue: 10,
		Deadline:    now.AddDate(0, 0, 30),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed goal: %w", err)
	}

	for day := 7; day >= 1; day-- {
		_, err = progress.Log(ctx, userID, usecase.LogProgress{
			GoalID: goal.ID,
			Value:  0.5,
			Date:   now.AddDate(0, 0, -day),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed progress: %w", err)
		}
	}

	return goal, nil
}
