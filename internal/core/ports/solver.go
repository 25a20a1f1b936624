package ports

import (
	"context"

	"go.trai.ch/rpmd/internal/core/domain"
)

//go:generate mockgen -source=solver.go -destination=mocks/mock_solver.go -package=mocks

// Solver turns goal jobs into an ordered list of package changes.
type Solver interface {
	// Solve resolves req. It either returns a complete, ordered result or an error.
	Solve(ctx context.Context, req domain.SolveRequest) ([]domain.TransactionItem, error)
}
