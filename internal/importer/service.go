package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/importer/cgd"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=categorizer_mock.go -package=importer

// Categorizer rewrites a parsed row's description and category.
type Categorizer interface {
	Categorize(ctx context.Context, p transaction.CreateParams) (transaction.CreateParams, error)
}

// Plan is the outcome of reading a statement against what the ledger already
// holds. New rows are safe to add; Conflicts need a decision.
type Plan struct {
	New       []transaction.CreateParams
	Conflicts []transaction.Conflict
}

type Service struct {
	importers   map[Bank]Importer
	categorizer Categorizer
}

func NewService(categorizer Categorizer) *Service {
	return &Service{
		importers: map[Bank]Importer{
			BankCGD: cgd.NewParser(),
		},
		categorizer: categorizer,
	}
}

// Banks lists the banks with a registered parser, sorted by code.
func (s *Service) Banks() []Bank {
	banks := slices.Collect(maps.Keys(s.importers))
	slices.Sort(banks)

	return banks
}

func (s *Service) Import(bank Bank, r io.Reader) ([]transaction.CreateParams, error) {
	importer, ok := s.importers[bank]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, bank)
	}

	return importer.Parse(r)
}

// Prepare parses a statement for accountID, categorizes every row and splits
// out rows that already exist in existing.
func (s *Service) Prepare(ctx context.Context, bank Bank, r io.Reader, accountID uuid.UUID, existing []transaction.Transaction) (Plan, error) {
	params, err := s.Import(bank, r)
	if err != nil {
		return Plan{}, err
	}

	for i := range params {
		params[i].AccountID = accountID

		if s.categorizer == nil {
			continue
		}

		categorized, err := s.categorizer.Categorize(ctx, params[i])
		if err != nil {
			slog.Warn("failed to categorize imported transaction", "description", params[i].Description, "error", err)
			continue
		}

		params[i] = categorized
	}

	fresh, conflicts := transaction.SplitDuplicates(existing, params)

	return Plan{New: fresh, Conflicts: conflicts}, nil
}
