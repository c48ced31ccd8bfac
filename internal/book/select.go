package book

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
)

// Page count bounds of a KDP paperback interior.
const (
	MinPages = 30
	MaxPages = 120
)

// ValidateCount checks MinPages <= count <= MaxPages.
func ValidateCount(count int) error {
	if count < MinPages || count > MaxPages {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidCount, count, MinPages, MaxPages)
	}
	return nil
}

// Select picks count names from the sorted pool.
//
// Without shuffle it returns the first count names in order. With shuffle it
// permutes the whole pool with a PCG generator seeded by seed and takes the
// first count; seed 0 draws a fresh random seed. The seed actually used is
// returned (0 when not shuffling).
func Select(names []string, count int, shuffle bool, seed uint64) ([]string, uint64, error) {
	if len(names) == 0 {
		return nil, 0, fmt.Errorf("%w: %w", ErrInsufficientPages, ErrEmptyPool)
	}
	if count > len(names) {
		return nil, 0, fmt.Errorf("%w: requested %d, pool has %d", ErrInsufficientPages, count, len(names))
	}

	if !shuffle {
		return slices.Clone(names[:count]), 0, nil
	}

	if seed == 0 {
		var err error
		if seed, err = randomSeed(); err != nil {
			return nil, 0, err
		}
	}

	order := slices.Clone(names)
	r := rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // reproducible page order, not security
	r.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order[:count], seed, nil
}

func randomSeed() (uint64, error) {
	var b [8]byte
	for {
		if _, err := crand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("failed to draw shuffle seed: %w", err)
		}
		if seed := binary.LittleEndian.Uint64(b[:]); seed != 0 {
			return seed, nil
		}
	}
}
