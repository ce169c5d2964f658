package coordinator

import (
	"context"
	"fmt"
	"strings"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

// categoryAbbreviation returns the first three letters of category,
// uppercased, per spec §4.1's "uppercase UC-<CAT>-<NNN>" id rule.
func categoryAbbreviation(category string) (string, error) {
	if len(category) < 3 {
		return "", apperr.Validation("category %q must be at least 3 characters to derive an id abbreviation", category)
	}
	return strings.ToUpper(category[:3]), nil
}

// nextSequence inspects existing use cases in memory and, for backends that
// support it (the file backend scanning on-disk filenames), also scans the
// category directory, taking the maximum NNN across both sources (spec
// §4.10).
func nextSequence(ctx context.Context, repo domain.UseCaseRepository, category string) (int, error) {
	existing, err := repo.FindByCategory(ctx, category)
	if err != nil {
		return 0, err
	}

	max := 0
	for _, uc := range existing {
		if n, ok := sequenceOf(uc.ID); ok && n > max {
			max = n
		}
	}

	if scanner, ok := repo.(domain.CategoryFilenameScanner); ok {
		onDisk, err := scanner.ScanCategoryMaxSeq(ctx, category)
		if err != nil {
			return 0, err
		}
		if onDisk > max {
			max = onDisk
		}
	}

	return max + 1, nil
}

func sequenceOf(id string) (int, bool) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(parts[2], "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}

// assignID computes the next UC-<CAT>-<NNN> id for a new use case in
// category.
func assignID(ctx context.Context, repo domain.UseCaseRepository, category string) (string, error) {
	abbrev, err := categoryAbbreviation(category)
	if err != nil {
		return "", err
	}
	seq, err := nextSequence(ctx, repo, category)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("UC-%s-%03d", abbrev, seq), nil
}
