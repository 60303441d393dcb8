package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/windoa/openoa_go_server/internal/model"
	"github.com/windoa/openoa_go_server/internal/testutil"
)

func TestDatasetCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewDatasetRepository(db)

	expiresAt := time.Now().Add(24 * time.Hour)
	dataset := &model.Dataset{
		ID:            "abc123",
		Filename:      "scada.csv",
		FileType:      "csv",
		RowCount:      24,
		Columns:       model.StringArray{"time", "power", "wind_speed"},
		ExtraColumns:  model.StringArray{"Custom_col"},
		FileSizeBytes: 2048,
		ExpiresAt:     &expiresAt,
	}
	require.NoError(t, repo.Create(dataset))

	got, err := repo.GetByID("abc123")
	require.NoError(t, err)
	assert.Equal(t, "scada.csv", got.Filename)
	assert.Equal(t, model.StringArray{"time", "power", "wind_speed"}, got.Columns)
	assert.Equal(t, 24, got.RowCount)
}

func TestDatasetGetNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewDatasetRepository(db)

	_, err := repo.GetByID("nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDatasetUpsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewDatasetRepository(db)

	first := &model.Dataset{ID: model.DefaultDatasetID, Filename: "v1.csv", IsDefault: true, RowCount: 10}
	require.NoError(t, repo.Upsert(first))

	// 重启场景：同一主键再次写入覆盖旧记录
	second := &model.Dataset{ID: model.DefaultDatasetID, Filename: "v2.csv", IsDefault: true, RowCount: 24}
	require.NoError(t, repo.Upsert(second))

	got, err := repo.GetByID(model.DefaultDatasetID)
	require.NoError(t, err)
	assert.Equal(t, "v2.csv", got.Filename)
	assert.Equal(t, 24, got.RowCount)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDatasetListIDsDefaultFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewDatasetRepository(db)

	testutil.TestDataset(t, db, testutil.WithID("upload-1"))
	testutil.TestDataset(t, db, testutil.AsDefault())
	testutil.TestDataset(t, db, testutil.WithID("upload-2"))

	ids, err := repo.ListIDs()
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, model.DefaultDatasetID, ids[0])
}

func TestDatasetListExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewDatasetRepository(db)

	testutil.TestDataset(t, db, testutil.WithID("fresh"), testutil.WithExpiry(time.Now().Add(time.Hour)))
	testutil.TestDataset(t, db, testutil.WithID("stale"), testutil.WithExpiry(time.Now().Add(-time.Hour)))
	// 默认数据集无过期时间，永不进入清理
	testutil.TestDataset(t, db, testutil.AsDefault())

	expired, err := repo.ListExpired(time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "stale", expired[0].ID)
}

func TestDatasetDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewDatasetRepository(db)

	testutil.TestDataset(t, db, testutil.WithID("doomed"))
	require.NoError(t, repo.Delete("doomed"))

	_, err := repo.GetByID("doomed")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDatasetListStoredPaths(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewDatasetRepository(db)

	ds := testutil.TestDataset(t, db, testutil.WithID("with-path"))
	db.Model(ds).Update("stored_path", "uploads/with-path.csv")
	testutil.TestDataset(t, db, testutil.WithID("without-path"))

	paths, err := repo.ListStoredPaths()
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/with-path.csv"}, paths)
}
