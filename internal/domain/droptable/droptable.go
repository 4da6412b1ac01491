// Package droptable implements the weighted prize selection. It is pure: no
// I/O, no side effects, and the random source is injectable so callers can
// pin outcomes in tests.
package droptable

import (
	"errors"
	"math"
	"math/rand"

	"github.com/caseclub-lab/backend/internal/entity"
)

var (
	ErrEmptyPool         = errors.New("prize pool is empty")
	ErrNonPositiveWeight = errors.New("prize pool contains a non-positive weight")
)

// Source yields uniform values in [0, 1). math/rand satisfies it; fairness,
// not unpredictability, is the requirement here.
type Source interface {
	Float64() float64
}

type mathSource struct{}

func (mathSource) Float64() float64 { return rand.Float64() }

// DefaultSource is the production random source.
func DefaultSource() Source { return mathSource{} }

// Draw selects one entry of the pool proportionally to the weights. Each
// entry occupies the half-open interval [cumulative_before, cumulative_before
// + weight): a draw landing exactly on a boundary selects the next entry, so
// intervals have no gaps and no overlaps.
//
// The returned errors indicate a broken case definition, not a user mistake.
func Draw(pool []entity.CaseItem, src Source) (entity.CaseItem, error) {
	total, err := totalWeight(pool)
	if err != nil {
		return entity.CaseItem{}, err
	}

	r := src.Float64() * total

	cumulative := 0.0
	for _, entry := range pool {
		cumulative += entry.Weight
		if cumulative > r {
			return entry, nil
		}
	}

	// Floating point accumulation can leave r marginally above the final
	// cumulative sum; the last entry owns that edge.
	return pool[len(pool)-1], nil
}

// ValidatePool checks the admin-time invariant that effective drop
// percentages of a case sum to 100.
func ValidatePool(pool []entity.CaseItem) error {
	total, err := totalWeight(pool)
	if err != nil {
		return err
	}

	if math.Abs(total-100) > 1e-6 {
		return errors.New("prize pool weights must sum to 100")
	}

	return nil
}

func totalWeight(pool []entity.CaseItem) (float64, error) {
	if len(pool) == 0 {
		return 0, ErrEmptyPool
	}

	total := 0.0
	for _, entry := range pool {
		if entry.Weight <= 0 {
			return 0, ErrNonPositiveWeight
		}
		total += entry.Weight
	}

	return total, nil
}
