package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type mysqlConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	User   string `yaml:"user"`
	Pass   string `yaml:"pass"`
	DBName string `yaml:"dbname"`
}

// DashboardPreference is one cached value for a browser, the server-side
// stand-in for the page's local storage.
type DashboardPreference struct {
	ClientID  string         `gorm:"type:char(36);not null;primaryKey;comment:browser client id (UUID)"`
	Key       string         `gorm:"column:pref_key;size:64;not null;primaryKey;comment:preference name, e.g. MANAGER_ID"`
	Value     datatypes.JSON `gorm:"type:json;not null;comment:preference value"`
	UpdatedAt time.Time      `gorm:"type:datetime(3);autoUpdateTime:milli"`
}

func (DashboardPreference) TableName() string {
	return "dashboard_preference"
}

func openDB(cfg mysqlConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Pass,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping mysql")
	}

	if err := db.AutoMigrate(&DashboardPreference{}); err != nil {
		return nil, errors.Wrap(err, "migrate dashboard_preference")
	}
	return db, nil
}

type prefStore interface {
	loadPref(ctx context.Context, clientID, key string, out interface{}) (bool, error)
	savePref(ctx context.Context, clientID, key string, value interface{}) error
}

type gormPrefStore struct {
	db *gorm.DB
}

func (s *gormPrefStore) loadPref(ctx context.Context, clientID, key string, out interface{}) (bool, error) {
	var pref DashboardPreference
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND pref_key = ?", clientID, key).
		First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "load preference %s", key)
	}
	if err := json.Unmarshal(pref.Value, out); err != nil {
		return false, errors.Wrapf(err, "decode preference %s", key)
	}
	return true, nil
}

func (s *gormPrefStore) savePref(ctx context.Context, clientID, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode preference %s", key)
	}
	pref := DashboardPreference{ClientID: clientID, Key: key, Value: datatypes.JSON(raw)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}, {Name: "pref_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
	return errors.Wrapf(err, "save preference %s", key)
}

// memPrefStore keeps preferences for the life of the process. Used when no
// MySQL host is configured.
type memPrefStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemPrefStore() *memPrefStore {
	return &memPrefStore{data: make(map[string][]byte)}
}

func (s *memPrefStore) loadPref(_ context.Context, clientID, key string, out interface{}) (bool, error) {
	s.mu.Lock()
	raw, ok := s.data[clientID+"/"+key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (s *memPrefStore) savePref(_ context.Context, clientID, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[clientID+"/"+key] = raw
	s.mu.Unlock()
	return nil
}
