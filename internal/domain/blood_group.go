package domain

import "strings"

// BloodGroup is one of the eight ABO/Rh combinations.
type BloodGroup string

const (
	BloodGroupAPos  BloodGroup = "A+"
	BloodGroupANeg  BloodGroup = "A-"
	BloodGroupBPos  BloodGroup = "B+"
	BloodGroupBNeg  BloodGroup = "B-"
	BloodGroupABPos BloodGroup = "AB+"
	BloodGroupABNeg BloodGroup = "AB-"
	BloodGroupOPos  BloodGroup = "O+"
	BloodGroupONeg  BloodGroup = "O-"
)

// BloodGroups lists the canonical values in display order.
var BloodGroups = []BloodGroup{
	BloodGroupAPos, BloodGroupANeg,
	BloodGroupBPos, BloodGroupBNeg,
	BloodGroupABPos, BloodGroupABNeg,
	BloodGroupOPos, BloodGroupONeg,
}

// Valid reports whether g is a canonical blood group.
func (g BloodGroup) Valid() bool {
	for _, candidate := range BloodGroups {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseBloodGroup accepts surrounding whitespace but is otherwise exact.
func ParseBloodGroup(raw string) (BloodGroup, bool) {
	g := BloodGroup(strings.TrimSpace(raw))
	return g, g.Valid()
}

// BloodGroupStrings returns the canonical values as strings.
func BloodGroupStrings() []string {
	out := make([]string, 0, len(BloodGroups))
	for _, g := range BloodGroups {
		out = append(out, string(g))
	}
	return out
}
