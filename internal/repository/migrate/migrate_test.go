package migrate_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/msomdec/mockmatch/internal/repository/migrate"
)

type fakeStore struct {
	applied map[string]bool
	order   []string
	failOn  string
	ensured int
}

func newFakeStore() *fakeStore { return &fakeStore{applied: map[string]bool{}} }

func (s *fakeStore) EnsureTable(ctx context.Context) error {
	s.ensured++
	return nil
}

func (s *fakeStore) Applied(ctx context.Context) (map[string]bool, error) {
	out := make(map[string]bool, len(s.applied))
	for k, v := range s.applied {
		out[k] = v
	}
	return out, nil
}

func (s *fakeStore) Apply(ctx context.Context, filename, content string) error {
	if filename == s.failOn {
		return errors.New("boom")
	}
	s.applied[filename] = true
	s.order = append(s.order, filename)
	return nil
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"002_b.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"001_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"README.md": {Data: []byte("not a migration")},
		"sub/x.sql": {Data: []byte("ignored")},
	}
}

func TestFiles_SortedSQLOnly(t *testing.T) {
	files, err := migrate.Files(testFS())
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []string{"001_a.sql", "002_b.sql"}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("expected %v, got %v", want, files)
	}
}

func TestRun_AppliesInOrderAndIsIdempotent(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	if err := migrate.Run(ctx, testFS(), store); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := migrate.Run(ctx, testFS(), store); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	want := []string{"001_a.sql", "002_b.sql"}
	if !reflect.DeepEqual(store.order, want) {
		t.Fatalf("expected apply order %v, got %v", want, store.order)
	}
	if store.ensured != 2 {
		t.Fatalf("expected EnsureTable twice, got %d", store.ensured)
	}
}

func TestRun_StopsOnFailure(t *testing.T) {
	store := newFakeStore()
	store.failOn = "001_a.sql"

	err := migrate.Run(context.Background(), testFS(), store)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(store.order) != 0 {
		t.Fatalf("expected nothing applied after failure, got %v", store.order)
	}
}
