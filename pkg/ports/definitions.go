package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
)

// LinkRepository defines storage operations for links
type LinkRepository interface {
	Create(ctx context.Context, link *domain.Link) error
	GetByCode(ctx context.Context, code string) (*domain.Link, error)
	Exists(ctx context.Context, code string) (bool, error) // Includes deleted links
	List(ctx context.Context) ([]domain.Link, error)
	Delete(ctx context.Context, code string) error // Soft delete
	RecordClick(ctx context.Context, code string, at time.Time) error

	// Migration
	Dump(ctx context.Context) ([]domain.Link, error)
	Restore(ctx context.Context, link *domain.Link) error
}

// CodeGenerator produces candidate codes
type CodeGenerator interface {
	Generate() string
}

// LinkService defines the link registry operations
type LinkService interface {
	Create(ctx context.Context, targetURL, customCode string) (*domain.Link, error)
	Get(ctx context.Context, code string) (*domain.Link, error)
	List(ctx context.Context) ([]domain.Link, error)
	Delete(ctx context.Context, code string) error
}

// RedirectService resolves codes for the redirect endpoint
type RedirectService interface {
	Resolve(ctx context.Context, code string) (string, error)
}
