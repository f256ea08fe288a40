package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/life-bridge/internal/domain"
	apperrors "github.com/spec-kit/life-bridge/pkg/util/errorutil"
)

func invalidBloodGroup() error {
	return apperrors.NewValidationError("Invalid blood group",
		map[string]any{"validGroups": domain.BloodGroupStrings()})
}

func parseBloodGroup(raw string) (domain.BloodGroup, error) {
	group, ok := domain.ParseBloodGroup(raw)
	if !ok {
		return "", invalidBloodGroup()
	}
	return group, nil
}

// parseUnits accepts any numeric text with an integral value in [1, max].
// A max of zero means no upper bound.
func parseUnits(raw string, max int) (int, error) {
	detail := "Units must be a positive integer"
	if max > 0 {
		detail = "Units must be a positive integer between 1 and " + strconv.Itoa(max)
	}
	invalid := apperrors.NewValidationError("Invalid units value", map[string]any{"details": detail})

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f <= 0 {
		return 0, invalid
	}
	if max > 0 && f > float64(max) {
		return 0, invalid
	}
	if f > math.MaxInt32 {
		return 0, invalid
	}
	return int(f), nil
}

// blankZeroUnits reports a zero quantity as absent, so it is listed with the
// other missing fields instead of failing the range check.
func blankZeroUnits(raw string) string {
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && f == 0 {
		return ""
	}
	return raw
}

// validID reports whether id has the shape of a stored identifier. Malformed
// ids are reported as missing entities rather than store errors.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
