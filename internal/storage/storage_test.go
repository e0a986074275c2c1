//nolint:testpackage // Tests require internal access for thorough testing
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	todoerrors "github.com/kuryletso/todo-cli/internal/errors"
	"github.com/kuryletso/todo-cli/internal/task"
)

func fixedClock() func() time.Time {
	now := time.Date(2026, 2, 20, 9, 30, 15, 123456789, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func openTemp(t *testing.T, name string) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), name), WithClock(fixedClock()))
	require.NoError(t, err)
	return store
}

func date(t *testing.T, s string) task.Date {
	t.Helper()
	d, err := task.ParseDate(s)
	require.NoError(t, err)
	return d
}

func assertSameTask(t *testing.T, want, got task.Task) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.TaskDate, got.TaskDate)
	assert.Equal(t, want.Status, got.Status)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	store := openTemp(t, "tasks.json")

	first, err := store.Add("Test Task", date(t, "2026-02-22"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "Test Task", first.Title)
	assert.Equal(t, task.StatusActive, first.Status)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := store.Add("Second", date(t, "2026-02-23"), "with description")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "with description", second.Description)
}

func TestAddUsesMaxPlusOne(t *testing.T) {
	store := openTemp(t, "tasks.json")
	d := date(t, "2026-02-22")

	for range 3 {
		_, err := store.Add("task", d, "")
		require.NoError(t, err)
	}

	// Removing a middle task leaves a gap that is not reused.
	removed, err := store.Delete(2)
	require.NoError(t, err)
	require.True(t, removed)

	next, err := store.Add("after gap", d, "")
	require.NoError(t, err)
	assert.Equal(t, 4, next.ID)

	// Removing the highest id lets it be assigned again.
	_, err = store.Delete(4)
	require.NoError(t, err)
	again, err := store.Add("reuse top", d, "")
	require.NoError(t, err)
	assert.Equal(t, 4, again.ID)
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	store := openTemp(t, "tasks.json")

	_, err := store.Add("   ", date(t, "2026-02-22"), "")
	var titleErr todoerrors.EmptyTitleError
	require.ErrorAs(t, err, &titleErr)
	assert.Equal(t, 0, store.Len())

	_, statErr := os.Stat(store.Path())
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "no file should be written")
}

func TestOpenMissingFileDoesNotCreateIt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.json")

	store, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, store.List(Filter{}))
	require.NoError(t, store.LoadError())

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenEmptyFile(t *testing.T) {
	for _, content := range []string{"", "   \n\t\n"} {
		path := filepath.Join(t.TempDir(), "tasks.json")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		store, err := Open(path)
		require.NoError(t, err)
		assert.Empty(t, store.List(Filter{}))
		assert.NoError(t, store.LoadError())
	}
}

func TestOpenMalformedFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `[{"id": 1, "title": `},
		{"wrong shape", `{"id": 1}`},
		{"unknown status", `[{"id": 1, "title": "x", "created_at": "2026-02-20T10:00:00Z", "task_date": "2026-02-22", "status": "paused"}]`},
		{"bad date", `[{"id": 1, "title": "x", "created_at": "2026-02-20T10:00:00Z", "task_date": "22/02/2026", "status": "done"}]`},
		{"duplicate id", `[
			{"id": 1, "title": "a", "created_at": "2026-02-20T10:00:00Z", "task_date": "2026-02-22", "status": "done"},
			{"id": 1, "title": "b", "created_at": "2026-02-20T10:00:00Z", "task_date": "2026-02-22", "status": "done"}]`},
		{"zero id", `[{"id": 0, "title": "x", "created_at": "2026-02-20T10:00:00Z", "task_date": "2026-02-22"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			store, err := Open(path)
			require.NoError(t, err)
			assert.Empty(t, store.List(Filter{}))

			var corrupt *CorruptFileError
			require.ErrorAs(t, store.LoadError(), &corrupt)
			assert.Equal(t, path, corrupt.Path)
		})
	}
}

func TestLoadAcceptsLegacyTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	content := `[
  {
    "id": 3,
    "title": "Written by an older version",
    "description": null,
    "created_at": "2026-02-20T10:11:12.345678",
    "task_date": "2026-02-22T00:00:00",
    "status": "done"
  },
  {
    "id": 5,
    "title": "No status",
    "created_at": "2026-02-21T08:00:00+02:00",
    "task_date": "2026-02-21"
  }
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.LoadError())

	got, ok := store.Get(3)
	require.True(t, ok)
	assert.Equal(t, date(t, "2026-02-22"), got.TaskDate)
	assert.Equal(t, task.StatusDone, got.Status)
	assert.Equal(t, 345678000, got.CreatedAt.Nanosecond())

	noStatus, ok := store.Get(5)
	require.True(t, ok)
	assert.Equal(t, task.StatusActive, noStatus.Status)

	added, err := store.Add("next", date(t, "2026-02-23"), "")
	require.NoError(t, err)
	assert.Equal(t, 6, added.ID)
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{"tasks.json", "tasks.yaml", "tasks.yml"} {
		t.Run(name, func(t *testing.T) {
			store := openTemp(t, name)

			_, err := store.Add("Persistent", date(t, "2026-02-22"), "")
			require.NoError(t, err)
			_, err = store.Add("Described", date(t, "2026-02-20"), "line one\nline two")
			require.NoError(t, err)
			_, err = store.Add("2026-01-01", date(t, "2026-03-01"), "true")
			require.NoError(t, err)
			done := task.StatusCanceled
			_, _, err = store.Update(2, Patch{Status: &done})
			require.NoError(t, err)

			reopened, err := Open(store.Path())
			require.NoError(t, err)
			require.NoError(t, reopened.LoadError())

			want := store.List(Filter{})
			got := reopened.List(Filter{})
			require.Len(t, got, len(want))
			for i := range want {
				assertSameTask(t, want[i], got[i])
			}
		})
	}
}

func TestRoundTripKeepsStoredOrder(t *testing.T) {
	store := openTemp(t, "tasks.json")
	for _, d := range []string{"2026-02-25", "2026-02-21", "2026-02-23"} {
		_, err := store.Add("task "+d, date(t, d), "")
		require.NoError(t, err)
	}

	reopened, err := Open(store.Path())
	require.NoError(t, err)

	for id := 1; id <= 3; id++ {
		want, _ := store.Get(id)
		got, ok := reopened.Get(id)
		require.True(t, ok)
		assertSameTask(t, want, got)
	}
	assert.Equal(t, store.tasks, reopened.tasks)
}

func TestGetMissing(t *testing.T) {
	store := openTemp(t, "tasks.json")
	_, ok := store.Get(99)
	assert.False(t, ok)
}

func TestUpdateStatus(t *testing.T) {
	store := openTemp(t, "tasks.json")
	created, err := store.Add("Test Task", date(t, "2026-02-22"), "keep me")
	require.NoError(t, err)

	done := task.StatusDone
	updated, ok, err := store.Update(created.ID, Patch{Status: &done})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, task.StatusDone, updated.Status)

	got, ok := store.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, task.StatusDone, got.Status)

	// Everything except the status is untouched.
	created.Status = task.StatusDone
	assert.Equal(t, created, got)
}

func TestUpdateDistinguishesUnsetFromEmpty(t *testing.T) {
	store := openTemp(t, "tasks.json")
	created, err := store.Add("Title", date(t, "2026-02-22"), "description")
	require.NoError(t, err)

	newTitle := "Renamed"
	updated, _, err := store.Update(created.ID, Patch{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "description", updated.Description)

	empty := ""
	updated, _, err = store.Update(created.ID, Patch{Description: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Description)
	assert.Equal(t, "Renamed", updated.Title)

	newDate := date(t, "2026-03-01")
	updated, _, err = store.Update(created.ID, Patch{TaskDate: &newDate})
	require.NoError(t, err)
	assert.Equal(t, newDate, updated.TaskDate)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
}

func TestUpdateRejectsInvalidFields(t *testing.T) {
	store := openTemp(t, "tasks.json")
	created, err := store.Add("Title", date(t, "2026-02-22"), "")
	require.NoError(t, err)

	blank := " "
	_, _, err = store.Update(created.ID, Patch{Title: &blank})
	require.ErrorAs(t, err, new(todoerrors.EmptyTitleError))

	bogus := task.Status("paused")
	_, _, err = store.Update(created.ID, Patch{Status: &bogus})
	require.ErrorAs(t, err, new(todoerrors.InvalidStatusError))

	got, _ := store.Get(created.ID)
	assert.Equal(t, created, got)
}

func TestUpdateMissing(t *testing.T) {
	store := openTemp(t, "tasks.json")
	done := task.StatusDone
	_, ok, err := store.Update(7, Patch{Status: &done})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReturnedTasksAreCopies(t *testing.T) {
	store := openTemp(t, "tasks.json")
	created, err := store.Add("Original", date(t, "2026-02-22"), "")
	require.NoError(t, err)

	created.Title = "mutated by caller"
	listed := store.List(Filter{})
	listed[0].Title = "also mutated"

	got, _ := store.Get(created.ID)
	assert.Equal(t, "Original", got.Title)
}

func TestDelete(t *testing.T) {
	store := openTemp(t, "tasks.json")
	created, err := store.Add("Test Task", date(t, "2026-02-22"), "")
	require.NoError(t, err)
	_, err = store.Add("Other", date(t, "2026-02-23"), "")
	require.NoError(t, err)

	removed, err := store.Delete(created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok := store.Get(created.ID)
	assert.False(t, ok)

	before := store.List(Filter{})
	removed, err = store.Delete(created.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, before, store.List(Filter{}))

	reopened, err := Open(store.Path())
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len())
}

func TestListSortsStableByDate(t *testing.T) {
	store := openTemp(t, "tasks.json")
	inputs := []struct {
		title string
		date  string
	}{
		{"late", "2026-02-25"},
		{"same day first", "2026-02-22"},
		{"early", "2026-02-20"},
		{"same day second", "2026-02-22"},
	}
	for _, in := range inputs {
		_, err := store.Add(in.title, date(t, in.date), "")
		require.NoError(t, err)
	}

	var titles []string
	for _, tk := range store.List(Filter{}) {
		titles = append(titles, tk.Title)
	}
	assert.Equal(t, []string{"early", "same day first", "same day second", "late"}, titles)
}

func TestListFilters(t *testing.T) {
	store := openTemp(t, "tasks.json")
	day := date(t, "2026-02-22")
	a, _ := store.Add("a", day, "")
	_, _ = store.Add("b", day, "")
	_, _ = store.Add("c", date(t, "2026-02-23"), "")

	done := task.StatusDone
	_, _, err := store.Update(a.ID, Patch{Status: &done})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"no filter", Filter{}, []int{1, 2, 3}},
		{"status", Filter{Status: task.StatusActive}, []int{2, 3}},
		{"date", Filter{Date: day}, []int{1, 2}},
		{"status and date", Filter{Status: task.StatusDone, Date: day}, []int{1}},
		{"nothing matches", Filter{Status: task.StatusCanceled}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []int
			for _, tk := range store.List(tt.filter) {
				ids = append(ids, tk.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSaveRecoversCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := Open(path)
	require.NoError(t, err)
	require.Error(t, store.LoadError())

	_, err = store.Add("fresh start", date(t, "2026-02-22"), "")
	require.NoError(t, err)
	assert.NoError(t, store.LoadError())

	reopened, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, reopened.LoadError())
	assert.Equal(t, 1, reopened.Len())
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	store := openTemp(t, "tasks.json")
	_, err := store.Add("one", date(t, "2026-02-22"), "")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tasks.json", entries[0].Name())
}

func TestFailedSaveKeepsMemoryInSync(t *testing.T) {
	store := openTemp(t, "tasks.json")
	first, err := store.Add("first", date(t, "2026-02-22"), "")
	require.NoError(t, err)

	// A directory in place of the file makes the final rename fail.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(store.Path(), "keep"), nil, 0o644))

	_, err = store.Add("second", date(t, "2026-02-23"), "")
	require.Error(t, err)
	assert.Equal(t, 1, store.Len())

	title := "renamed"
	_, found, err := store.Update(first.ID, Patch{Title: &title})
	require.Error(t, err)
	assert.True(t, found)
	got, ok := store.Get(first.ID)
	require.True(t, ok)
	assertSameTask(t, first, got)

	removed, err := store.Delete(first.ID)
	require.Error(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, store.Len())

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")
}
