package domain

import (
	"fmt"
	"strings"
)

// ExperienceLevel is a position on the three-tier ordinal scale
// beginner < intermediate < advanced.
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelAdvanced     ExperienceLevel = "advanced"

	// LevelAny is only valid as a match request target.
	LevelAny ExperienceLevel = "any"
)

var levelRank = map[ExperienceLevel]int{
	LevelBeginner:     0,
	LevelIntermediate: 1,
	LevelAdvanced:     2,
}

// ParseExperienceLevel normalizes s and returns the matching user level.
// "any" is rejected; use ParseTargetLevel for match request targets.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	level := ExperienceLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levelRank[level]; !ok {
		return "", fmt.Errorf("%w: unknown experience level %q", ErrInvalidInput, s)
	}
	return level, nil
}

// ParseTargetLevel is like ParseExperienceLevel but also accepts "any".
func ParseTargetLevel(s string) (ExperienceLevel, error) {
	if ExperienceLevel(strings.ToLower(strings.TrimSpace(s))) == LevelAny {
		return LevelAny, nil
	}
	return ParseExperienceLevel(s)
}

// Valid reports whether l is one of the three user levels.
func (l ExperienceLevel) Valid() bool {
	_, ok := levelRank[l]
	return ok
}

// Distance returns the number of steps between two levels on the scale.
// ok is false when either level is not on the scale.
func (l ExperienceLevel) Distance(other ExperienceLevel) (d int, ok bool) {
	a, okA := levelRank[l]
	b, okB := levelRank[other]
	if !okA || !okB {
		return 0, false
	}
	if a > b {
		return a - b, true
	}
	return b - a, true
}

// NormalizeSkills trims every tag, drops empty ones and removes
// case-insensitive duplicates, keeping the first spelling and the input order.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// SkillSet returns the lower-cased set of skills for membership checks.
func SkillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}
