package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Level es el nivel discreto de burnout derivado del score continuo.
type Level int

const (
	LevelLow Level = iota + 1
	LevelModerate
	LevelHigh
)

// Umbrales de bucketing: LOW < 0.33 <= MODERATE < 0.67 <= HIGH.
const (
	LowUpperBound      = 0.33
	ModerateUpperBound = 0.67
)

// LevelFromScore clasifica un score en [0,1].
func LevelFromScore(score float64) Level {
	switch {
	case score < LowUpperBound:
		return LevelLow
	case score < ModerateUpperBound:
		return LevelModerate
	default:
		return LevelHigh
	}
}

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "LOW"
	case LevelModerate:
		return "MODERATE"
	case LevelHigh:
		return "HIGH"
	default:
		return ""
	}
}

// Valid indica si el nivel es uno de los tres conocidos.
func (l Level) Valid() bool {
	return l == LevelLow || l == LevelModerate || l == LevelHigh
}

// ParseLevel acepta LOW, MODERATE o HIGH sin importar mayusculas.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return LevelLow, nil
	case "MODERATE":
		return LevelModerate, nil
	case "HIGH":
		return LevelHigh, nil
	default:
		return 0, fmt.Errorf("unknown burnout level %q", s)
	}
}

func (l Level) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
