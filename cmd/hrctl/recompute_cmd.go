package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/repository"
	"github.com/hr-admin-api/internal/service"
	"github.com/spf13/cobra"
)

type recomputeOptions struct {
	OrganizationID int64
	CandidateID    int64
}

func newRecomputeCmd() *cobra.Command {
	var opts recomputeOptions

	cmd := &cobra.Command{
		Use:   "recompute --org <id> [--candidate <id>]",
		Short: "Recompute candidate statuses from their applications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.OrganizationID <= 0 {
				return errors.New("--org is required")
			}

			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			logger := newLogger(cfg)
			candRepo := repository.NewCandidateRepository(db)
			sync := service.NewStatusSyncService(
				repository.NewTransactor(db),
				repository.NewApplicationRepository(db),
				candRepo,
				repository.NewInterviewRepository(db),
				service.NewStatusLogService(repository.NewStatusLogRepository(db)),
				cfg.Sync.SystemUserID,
				logger,
			)

			ids := []int64{opts.CandidateID}
			if opts.CandidateID == 0 {
				ids, err = candRepo.ListIDs(cmd.Context(), opts.OrganizationID)
				if err != nil {
					return err
				}
			}

			// Пустой UserID: изменения записываются от системного пользователя
			actor := domain.Actor{OrganizationID: opts.OrganizationID}

			var failed int
			for _, id := range ids {
				cand, err := sync.RecomputeCandidate(cmd.Context(), actor, opts.OrganizationID, id)
				if err != nil {
					failed++
					logger.Error("recompute failed", slog.Int64("candidate_id", id), slog.Any("error", err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", cand.ID, cand.Status)
			}

			if failed > 0 {
				return fmt.Errorf("recompute failed for %d of %d candidates", failed, len(ids))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&opts.OrganizationID, "org", 0, "organization id")
	cmd.Flags().Int64Var(&opts.CandidateID, "candidate", 0, "single candidate id (default: all candidates of the organization)")

	return cmd
}
