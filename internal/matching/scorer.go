// Package matching ranks candidate peers for a viewer by experience-level
// proximity and skill overlap.
package matching

import (
	"slices"

	"github.com/msomdec/mockmatch/internal/domain"
)

const (
	ExperienceWeight = 0.4
	SkillWeight      = 0.6

	// DefaultTopN is how many candidates BestMatches returns.
	DefaultTopN = 5
)

// Candidate is a scored peer.
type Candidate struct {
	User            domain.User
	ExperienceScore float64
	SkillScore      float64
	Score           float64
}

// ExperienceScore is 1 for equal levels, 0.5 for adjacent levels and 0
// otherwise.
func ExperienceScore(viewer, candidate domain.ExperienceLevel) float64 {
	d, ok := viewer.Distance(candidate)
	if !ok {
		return 0
	}
	switch d {
	case 0:
		return 1.0
	case 1:
		return 0.5
	default:
		return 0
	}
}

// SkillScore is the fraction of the viewer's skills that the candidate has.
func SkillScore(viewerSkills, candidateSkills []string) float64 {
	viewer := domain.SkillSet(viewerSkills)
	if len(viewer) == 0 {
		return 0
	}
	candidate := domain.SkillSet(candidateSkills)
	overlap := 0
	for skill := range candidate {
		if _, ok := viewer[skill]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(viewer))
}

// Score computes the weighted match of candidate against viewer.
func Score(viewer, candidate *domain.User) Candidate {
	exp := ExperienceScore(viewer.ExperienceLevel, candidate.ExperienceLevel)
	skill := SkillScore(viewer.Skills, candidate.Skills)
	return Candidate{
		User:            *candidate,
		ExperienceScore: exp,
		SkillScore:      skill,
		Score:           ExperienceWeight*exp + SkillWeight*skill,
	}
}

// Rank scores every candidate except the viewer and returns them sorted by
// descending score. Ties keep their input order. A limit <= 0 returns all.
func Rank(viewer *domain.User, candidates []domain.User, limit int) []Candidate {
	scored := make([]Candidate, 0, len(candidates))
	for i := range candidates {
		if candidates[i].ID == viewer.ID {
			continue
		}
		scored = append(scored, Score(viewer, &candidates[i]))
	}

	slices.SortStableFunc(scored, func(a, b Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// BestMatches returns the DefaultTopN highest-scoring candidates.
func BestMatches(viewer *domain.User, candidates []domain.User) []Candidate {
	return Rank(viewer, candidates, DefaultTopN)
}
