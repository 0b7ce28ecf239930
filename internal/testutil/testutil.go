// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"anoa.com/skillnest/internal/bootstrap"
	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB opens a fresh migrated SQLite database private to the test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(tb, err, "open sqlite")

	sqlDB, err := db.DB()
	require.NoError(tb, err)
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(tb, bootstrap.Migrate(db), "migrate")
	return db
}

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	l, err := logger.New("test")
	require.NoError(tb, err)
	return l
}

func SeedUser(tb testing.TB, db *gorm.DB, username, role string) *entity.User {
	tb.Helper()
	u := &entity.User{
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(tb, db.Create(u).Error, "seed user")

	p := &entity.Profile{
		UserID:   u.ID,
		Username: username,
		FullName: "Test " + username,
	}
	require.NoError(tb, db.Create(p).Error, "seed profile")
	u.Profile = p
	return u
}

func SeedCategory(tb testing.TB, db *gorm.DB, name string) *entity.Category {
	tb.Helper()
	c := &entity.Category{Name: name, Slug: uuid.NewString()[:8]}
	require.NoError(tb, db.Create(c).Error, "seed category")
	return c
}

func SeedSkill(tb testing.TB, db *gorm.DB, categoryID *uuid.UUID, name, slug, status string) *entity.Skill {
	tb.Helper()
	s := &entity.Skill{CategoryID: categoryID, Name: name, Slug: slug, Status: status}
	require.NoError(tb, db.Create(s).Error, "seed skill")
	return s
}

func SeedResource(tb testing.TB, db *gorm.DB, skillID, userID uuid.UUID, title, status string) *entity.Resource {
	tb.Helper()
	r := &entity.Resource{
		SkillID: skillID,
		UserID:  userID,
		Title:   title,
		URL:     "https://example.com/" + uuid.NewString()[:8],
		Type:    "article",
		Level:   "beginner",
		Status:  status,
	}
	require.NoError(tb, db.WithContext(context.Background()).Create(r).Error, "seed resource")
	return r
}
