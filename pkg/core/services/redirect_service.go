package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
	"github.com/wadjakorntonsri/tinylink/pkg/ports"
)

type RedirectService struct {
	repo   ports.LinkRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewRedirectService(repo ports.LinkRepository, logger *slog.Logger) *RedirectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedirectService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Resolve returns the target URL for code and records the click.
// A failed click update is logged and does not fail the resolution.
func (s *RedirectService) Resolve(ctx context.Context, code string) (string, error) {
	if validateCode(code) != nil {
		return "", domain.ErrNotFound
	}

	link, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}

	// The click is recorded even if the client has already gone away.
	if err := s.repo.RecordClick(context.WithoutCancel(ctx), code, s.now()); err != nil {
		s.logger.Warn("failed to record click", "code", code, "error", err)
	}

	return link.TargetURL, nil
}
