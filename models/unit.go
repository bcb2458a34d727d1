package models

import (
	"fmt"
	"strings"
)

// Unit is the measurement unit of a recipe line
type Unit string

const (
	UnitGram Unit = "Gram"
	UnitKilo Unit = "Kilo"
)

// ParseUnit converts a unit name (case-insensitive) into a Unit
func ParseUnit(s string) (Unit, error) {
	switch {
	case strings.EqualFold(s, string(UnitGram)):
		return UnitGram, nil
	case strings.EqualFold(s, string(UnitKilo)):
		return UnitKilo, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}
