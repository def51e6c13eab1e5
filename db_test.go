package main

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockPrefStore(t *testing.T) (*gormPrefStore, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: conn, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return &gormPrefStore{db: db}, mock
}

func TestGormPrefStoreLoad(t *testing.T) {
	store, mock := newMockPrefStore(t)
	rows := sqlmock.NewRows([]string{"client_id", "pref_key", "value", "updated_at"}).
		AddRow("cid", managerIDPrefKey, []byte("42"), testNow)
	mock.ExpectQuery("SELECT \\* FROM `dashboard_preference` WHERE").WillReturnRows(rows)

	var id int
	found, err := store.loadPref(context.Background(), "cid", managerIDPrefKey, &id)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPrefStoreLoadMissing(t *testing.T) {
	store, mock := newMockPrefStore(t)
	mock.ExpectQuery("SELECT \\* FROM `dashboard_preference` WHERE").
		WillReturnRows(sqlmock.NewRows([]string{"client_id", "pref_key", "value", "updated_at"}))

	var id int
	found, err := store.loadPref(context.Background(), "cid", managerIDPrefKey, &id)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPrefStoreLoadError(t *testing.T) {
	store, mock := newMockPrefStore(t)
	mock.ExpectQuery("SELECT \\* FROM `dashboard_preference` WHERE").WillReturnError(errors.New("connection reset"))

	var id int
	found, err := store.loadPref(context.Background(), "cid", managerIDPrefKey, &id)
	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), "load preference MANAGER_ID")
}

func TestGormPrefStoreSaveUpserts(t *testing.T) {
	store, mock := newMockPrefStore(t)
	mock.ExpectExec("INSERT INTO `dashboard_preference` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.savePref(context.Background(), "cid", managerIDPrefKey, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemPrefStore(t *testing.T) {
	store := newMemPrefStore()
	ctx := context.Background()

	var v int
	found, err := store.loadPref(ctx, "a", "k", &v)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.savePref(ctx, "a", "k", 5))
	found, err = store.loadPref(ctx, "a", "k", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 5, v)

	found, _ = store.loadPref(ctx, "b", "k", &v)
	assert.False(t, found)
}

func TestResolveManagerID(t *testing.T) {
	ctx := context.Background()
	log := quietLogger()

	cases := []struct {
		name       string
		configured int
		attr       string
		cached     int
		want       int
	}{
		{"configured wins", 3, "8", 9, 3},
		{"attribute next", 0, " 8 ", 9, 8},
		{"cache next", 0, "", 9, 9},
		{"non numeric attribute", 0, "abc", 9, 9},
		{"fallback", 0, "", 0, 4},
		{"negative ignored", -1, "-2", 0, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemPrefStore()
			if tc.cached > 0 {
				require.NoError(t, store.savePref(ctx, "cid", managerIDPrefKey, tc.cached))
			}
			assert.Equal(t, tc.want, resolveManagerID(ctx, store, "cid", tc.configured, tc.attr, 4, log))
		})
	}
}

func TestResolveManagerIDCachesFirstFound(t *testing.T) {
	ctx := context.Background()
	store := newMemPrefStore()

	assert.Equal(t, 8, resolveManagerID(ctx, store, "cid", 0, "8", 4, quietLogger()))
	assert.Equal(t, 8, resolveManagerID(ctx, store, "cid", 0, "", 4, quietLogger()))

	var cached int
	found, err := store.loadPref(ctx, "cid", managerIDPrefKey, &cached)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 8, cached)

	// The fallback is never cached.
	assert.Equal(t, 4, resolveManagerID(ctx, store, "other", 0, "", 4, quietLogger()))
	found, _ = store.loadPref(ctx, "other", managerIDPrefKey, &cached)
	assert.False(t, found)
}

func TestResolveManagerIDWithoutStore(t *testing.T) {
	assert.Equal(t, 6, resolveManagerID(context.Background(), nil, "", 0, "6", 4, quietLogger()))
}
