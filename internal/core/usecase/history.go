package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/pick-my-fit/internal/core/domain"
	"github.com/kirillkom/pick-my-fit/internal/core/ports"
)

// TrimHistoryUseCase runs in the worker for every generated-outfit event and
// keeps each user's history at the cap.
type TrimHistoryUseCase struct {
	outfits ports.OutfitRepository
	keep    int
	logger  *slog.Logger
}

func NewTrimHistoryUseCase(outfits ports.OutfitRepository, keep int, logger *slog.Logger) *TrimHistoryUseCase {
	if keep <= 0 {
		keep = DefaultHistoryCap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrimHistoryUseCase{outfits: outfits, keep: keep, logger: logger}
}

// HandleOutfitGenerated returns the number of history rows removed.
func (uc *TrimHistoryUseCase) HandleOutfitGenerated(ctx context.Context, event domain.OutfitGeneratedEvent) (int64, error) {
	userID, err := requireUser(event.UserID)
	if err != nil {
		return 0, err
	}
	removed, err := uc.outfits.TrimHistory(ctx, userID, uc.keep)
	if err != nil {
		return 0, fmt.Errorf("trim history for %s: %w", userID, err)
	}
	if removed > 0 {
		uc.logger.Info("outfit_history_trimmed", "user_id", userID, "removed", removed, "keep", uc.keep)
	}
	return removed, nil
}
