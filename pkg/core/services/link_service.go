package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
	"github.com/wadjakorntonsri/tinylink/pkg/ports"
)

// MaxGenerateAttempts bounds how many generated candidates Create tries before giving up.
const MaxGenerateAttempts = 5

type LinkService struct {
	repo   ports.LinkRepository
	codes  ports.CodeGenerator
	logger *slog.Logger
	now    func() time.Time
}

func NewLinkService(repo ports.LinkRepository, codes ports.CodeGenerator, logger *slog.Logger) *LinkService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkService{
		repo:   repo,
		codes:  codes,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create registers targetURL under customCode, or under a generated code when customCode is empty.
func (s *LinkService) Create(ctx context.Context, targetURL, customCode string) (*domain.Link, error) {
	if err := validateTargetURL(targetURL); err != nil {
		return nil, err
	}

	if customCode != "" {
		return s.createWithCode(ctx, targetURL, customCode)
	}

	for attempt := 1; attempt <= MaxGenerateAttempts; attempt++ {
		code := s.codes.Generate()
		if isReserved(code) {
			s.logger.Debug("generated code is reserved", "attempt", attempt)
			continue
		}

		taken, err := s.repo.Exists(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken {
			s.logger.Debug("generated code collided", "attempt", attempt)
			continue
		}

		link, err := s.insert(ctx, targetURL, code)
		if errors.Is(err, domain.ErrConflict) {
			// Lost a race against a concurrent insert of the same candidate.
			s.logger.Debug("generated code taken at insert", "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		return link, nil
	}

	s.logger.Error("code generation exhausted", "attempts", MaxGenerateAttempts)
	return nil, domain.ErrGenerationExhausted
}

func (s *LinkService) createWithCode(ctx context.Context, targetURL, code string) (*domain.Link, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if isReserved(code) {
		return nil, fmt.Errorf("%w: %s is reserved", domain.ErrConflict, code)
	}

	taken, err := s.repo.Exists(ctx, code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", domain.ErrConflict, code)
	}

	// The pre-check is advisory; the unique constraint decides.
	return s.insert(ctx, targetURL, code)
}

func (s *LinkService) insert(ctx context.Context, targetURL, code string) (*domain.Link, error) {
	link := &domain.Link{
		Code:      code,
		TargetURL: targetURL,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, link); err != nil {
		return nil, err
	}
	s.logger.Info("link created", "code", code)
	return link, nil
}

func (s *LinkService) Get(ctx context.Context, code string) (*domain.Link, error) {
	if validateCode(code) != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByCode(ctx, code)
}

// List returns every live link, newest first.
func (s *LinkService) List(ctx context.Context) ([]domain.Link, error) {
	links, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []domain.Link{}
	}
	return links, nil
}

// Delete removes the link with the given code. Deleting an unknown code is not an error.
func (s *LinkService) Delete(ctx context.Context, code string) error {
	if validateCode(code) != nil {
		return nil
	}
	if err := s.repo.Delete(ctx, code); err != nil {
		return err
	}
	s.logger.Info("link deleted", "code", code)
	return nil
}
