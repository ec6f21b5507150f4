package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/mockmatch/internal/domain"
	"github.com/msomdec/mockmatch/internal/matching"
)

func user(id int64, level domain.ExperienceLevel, skills ...string) domain.User {
	return domain.User{ID: id, Username: "u", ExperienceLevel: level, Skills: skills}
}

func TestExperienceScore(t *testing.T) {
	assert.Equal(t, 1.0, matching.ExperienceScore(domain.LevelIntermediate, domain.LevelIntermediate))
	assert.Equal(t, 0.5, matching.ExperienceScore(domain.LevelBeginner, domain.LevelIntermediate))
	assert.Equal(t, 0.5, matching.ExperienceScore(domain.LevelAdvanced, domain.LevelIntermediate))
	assert.Equal(t, 0.0, matching.ExperienceScore(domain.LevelBeginner, domain.LevelAdvanced))
	assert.Equal(t, 0.0, matching.ExperienceScore(domain.LevelBeginner, "unknown"))
}

func TestSkillScore(t *testing.T) {
	assert.Equal(t, 0.0, matching.SkillScore(nil, []string{"Go"}), "viewer without skills scores zero")
	assert.Equal(t, 0.5, matching.SkillScore([]string{"Go", "React"}, []string{"go", "Java"}))
	assert.Equal(t, 1.0, matching.SkillScore([]string{"Go"}, []string{"Go", "Rust", "AWS"}))
	assert.Equal(t, 0.5, matching.SkillScore([]string{"Go", "Go", "React"}, []string{"Go"}), "duplicates count once")
}

func TestScore_AliceVersusCharlie(t *testing.T) {
	alice := user(1, domain.LevelBeginner, "JavaScript", "React")
	charlie := user(3, domain.LevelAdvanced, "Java", "AWS")

	c := matching.Score(&alice, &charlie)
	assert.Equal(t, 0.0, c.ExperienceScore)
	assert.Equal(t, 0.0, c.SkillScore)
	assert.Equal(t, 0.0, c.Score)
}

func TestScore_DisjointNonAdjacentIsZero(t *testing.T) {
	levels := [][2]domain.ExperienceLevel{
		{domain.LevelBeginner, domain.LevelAdvanced},
		{domain.LevelAdvanced, domain.LevelBeginner},
	}
	for _, pair := range levels {
		a := user(1, pair[0], "Go", "SQL")
		b := user(2, pair[1], "Python", "Django")
		assert.Equal(t, 0.0, matching.Score(&a, &b).Score)
	}
}

func TestScore_Weights(t *testing.T) {
	viewer := user(1, domain.LevelIntermediate, "Go", "SQL")
	candidate := user(2, domain.LevelAdvanced, "Go")

	c := matching.Score(&viewer, &candidate)
	assert.InDelta(t, 0.4*0.5+0.6*0.5, c.Score, 1e-9)
}

func TestRank_ExcludesViewerAndSortsDescending(t *testing.T) {
	viewer := user(1, domain.LevelIntermediate, "Go", "React")
	candidates := []domain.User{
		viewer,
		user(2, domain.LevelBeginner),                     // 0.2
		user(3, domain.LevelIntermediate, "Go", "React"), // 1.0
		user(4, domain.LevelAdvanced, "Go"),              // 0.5
	}

	got := matching.Rank(&viewer, candidates, 0)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{3, 4, 2}, ids(got))
	for _, c := range got {
		assert.NotEqual(t, viewer.ID, c.User.ID)
	}
}

func TestRank_StableOnTies(t *testing.T) {
	viewer := user(1, domain.LevelBeginner, "Go")
	candidates := []domain.User{
		user(5, domain.LevelBeginner, "Go"),
		user(2, domain.LevelBeginner, "Go"),
		user(9, domain.LevelBeginner, "Go"),
	}

	got := matching.Rank(&viewer, candidates, 0)
	assert.Equal(t, []int64{5, 2, 9}, ids(got))
}

func TestBestMatches_TruncatesToTopFive(t *testing.T) {
	viewer := user(1, domain.LevelBeginner, "Go")
	var candidates []domain.User
	for i := int64(2); i <= 10; i++ {
		candidates = append(candidates, user(i, domain.LevelAdvanced))
	}
	candidates = append(candidates, user(11, domain.LevelBeginner, "Go"))

	got := matching.BestMatches(&viewer, candidates)
	require.Len(t, got, matching.DefaultTopN)
	assert.Equal(t, int64(11), got[0].User.ID)
}

func TestBestMatches_OnlyViewer(t *testing.T) {
	viewer := user(1, domain.LevelBeginner, "Go")
	assert.Empty(t, matching.BestMatches(&viewer, []domain.User{viewer}))
}

func ids(cs []matching.Candidate) []int64 {
	out := make([]int64, len(cs))
	for i, c := range cs {
		out[i] = c.User.ID
	}
	return out
}
