package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/database/catalog"
	"github.com/mrlokans/library/internal/entities"
)

type fakeCleaner struct {
	removed int64
	err     error
	calls   int
}

func (f *fakeCleaner) DeleteOrphanAuthors(ctx context.Context) (int64, error) {
	f.calls++
	return f.removed, f.err
}

type fakeRecorder struct {
	removed []int64
	errs    []error
}

func (f *fakeRecorder) LogReconcile(removed int64, err error) {
	f.removed = append(f.removed, removed)
	f.errs = append(f.errs, err)
}

func TestReconcileOrphanAuthorsTaskConfig(t *testing.T) {
	cfg := ReconcileOrphanAuthorsTask{}.Config()

	assert.Equal(t, "reconcile_orphan_authors", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.NotNil(t, cfg.Retention)
}

func TestReconcileOrphanAuthorsProcessor(t *testing.T) {
	t.Run("records the count", func(t *testing.T) {
		cleaner := &fakeCleaner{removed: 2}
		recorder := &fakeRecorder{}

		err := ReconcileOrphanAuthorsProcessor(cleaner, recorder)(context.Background(), ReconcileOrphanAuthorsTask{Trigger: "schedule"})

		require.NoError(t, err)
		assert.Equal(t, 1, cleaner.calls)
		assert.Equal(t, []int64{2}, recorder.removed)
		assert.Nil(t, recorder.errs[0])
	})

	t.Run("propagates store errors", func(t *testing.T) {
		cleaner := &fakeCleaner{err: errors.New("database is locked")}
		recorder := &fakeRecorder{}

		err := ReconcileOrphanAuthorsProcessor(cleaner, recorder)(context.Background(), ReconcileOrphanAuthorsTask{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "database is locked")
		require.Len(t, recorder.errs, 1)
		assert.Error(t, recorder.errs[0])
	})

	t.Run("nil cleaner", func(t *testing.T) {
		err := ReconcileOrphanAuthorsProcessor(nil, nil)(context.Background(), ReconcileOrphanAuthorsTask{})

		assert.Error(t, err)
	})
}

func TestReconcileOrphanAuthors_RemovesOnlyAuthorsWithoutBooks(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "library.db")+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Author{}, &entities.Book{}))
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	repo := catalog.NewRepository(db)
	ctx := context.Background()
	born := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

	withBook := &entities.Author{Name: "Has Book", BirthDate: born}
	newcomer := &entities.Author{Name: "Newcomer", BirthDate: born}
	orphan := &entities.Author{Name: "Orphan", BirthDate: born}
	require.NoError(t, repo.CreateAuthor(ctx, withBook))
	require.NoError(t, repo.CreateAuthor(ctx, newcomer))
	require.NoError(t, repo.CreateAuthor(ctx, orphan))
	require.NoError(t, repo.CreateBook(ctx, &entities.Book{Title: "Kept", ISBN: 1, PublicationYear: 2000, AuthorID: withBook.ID}))

	first := &entities.Book{Title: "First", ISBN: 2, PublicationYear: 2000, AuthorID: orphan.ID}
	second := &entities.Book{Title: "Second", ISBN: 3, PublicationYear: 2000, AuthorID: orphan.ID}
	require.NoError(t, repo.CreateBook(ctx, first))
	require.NoError(t, repo.CreateBook(ctx, second))
	_, err = repo.DeleteBookCascade(ctx, first.ID)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&entities.Book{}, second.ID).Error)

	removed, err := ReconcileOrphanAuthors(ctx, repo, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	authors, err := repo.ListAuthors(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Has Book", authors[0].Name)
	assert.Equal(t, "Newcomer", authors[1].Name)
}

type fakeAuditCleaner struct {
	retention time.Duration
}

func (f *fakeAuditCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.retention = retention
	return 3, nil
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	cleaner := &fakeAuditCleaner{}

	err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{})
	require.NoError(t, err)
	assert.Equal(t, DefaultAuditRetentionDays*24*time.Hour, cleaner.retention)

	err = CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{RetentionDays: 7})
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cleaner.retention)

	assert.Error(t, CleanupAuditEventsProcessor(nil)(context.Background(), CleanupAuditEventsTask{}))
}
