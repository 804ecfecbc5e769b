package cases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aria/video-analyzer/internal/db"
)

type CaseService interface {
	ListSummaries(ctx context.Context) ([]Summary, error)
	GetCase(ctx context.Context, id string) (*Case, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListSummaries(ctx context.Context) ([]Summary, error) {
	list, err := s.repo.ListCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	out := make([]Summary, 0, len(list))
	for _, c := range list {
		out = append(out, c.Summary())
	}
	return out, nil
}

// GetCase returns the stored record for id. Unknown ids get a copy of the
// placeholder record with the id and subject rewritten, so every id resolves.
func (s *Service) GetCase(ctx context.Context, id string) (*Case, error) {
	c, err := s.repo.GetCase(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get case %s: %w", id, err)
	}
	if c != nil {
		return c, nil
	}

	p, err := s.repo.GetPlaceholder(ctx)
	if err != nil {
		return nil, fmt.Errorf("get placeholder case: %w", err)
	}
	if p == nil {
		// The store refuses to open without one; this is a store edited underneath us.
		return nil, fmt.Errorf("get case %s: %w", id, db.ErrNoPlaceholder)
	}

	if s.logger != nil {
		s.logger.Debug("serving placeholder case", "case_id", id, "placeholder_id", p.ID)
	}
	echoed := *p
	echoed.ID = id
	echoed.Subject = "Subject " + id
	return &echoed, nil
}
