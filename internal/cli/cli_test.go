package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/mockmatch/internal/cli"
	"github.com/msomdec/mockmatch/internal/domain"
	"github.com/msomdec/mockmatch/internal/repository/sqlite"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func sqliteEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("DATABASE_PATH", path)
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func TestMigrate(t *testing.T) {
	sqliteEnv(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied (sqlite)")

	_, err = run(t, "migrate")
	require.NoError(t, err, "migrate must be idempotent")
}

func TestMigrate_InvalidDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := run(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestSweep(t *testing.T) {
	path := sqliteEnv(t)
	_, err := run(t, "migrate")
	require.NoError(t, err)

	ctx := context.Background()
	db, err := sqlite.New(path)
	require.NoError(t, err)

	users := db.Users()
	interviewer := &domain.User{Username: "x", PasswordHash: "h", FullName: "X", Email: "x@example.com", ExperienceLevel: domain.LevelAdvanced}
	interviewee := &domain.User{Username: "y", PasswordHash: "h", FullName: "Y", Email: "y@example.com", ExperienceLevel: domain.LevelBeginner}
	require.NoError(t, users.Create(ctx, interviewer))
	require.NoError(t, users.Create(ctx, interviewee))

	start := time.Now().UTC().Add(-3 * time.Hour).Truncate(time.Second)
	ended := &domain.InterviewSlot{
		InterviewerID: interviewer.ID,
		IntervieweeID: &interviewee.ID,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        domain.SlotStatusBooked,
		MeetingType:   domain.MeetingTypeZoom,
	}
	require.NoError(t, db.Slots().Create(ctx, ended))
	require.NoError(t, db.Close())

	out, err := run(t, "sweep")
	require.NoError(t, err)
	assert.Contains(t, out, "completed 1 interview(s)")

	out, err = run(t, "sweep")
	require.NoError(t, err)
	assert.Contains(t, out, "completed 0 interview(s)")
}

func TestServe_RequiresJWTSecret(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := run(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
