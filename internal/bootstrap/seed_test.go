package bootstrap_test

import (
	"testing"

	"anoa.com/skillnest/internal/bootstrap"
	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedCategoriesIsIdempotent(t *testing.T) {
	db := testutil.DB(t)

	require.NoError(t, bootstrap.SeedCategories(db))
	require.NoError(t, bootstrap.SeedCategories(db))

	var count int64
	require.NoError(t, db.Model(&entity.Category{}).Count(&count).Error)
	assert.EqualValues(t, 5, count)

	var devops entity.Category
	require.NoError(t, db.Where("slug = ?", "devops").First(&devops).Error)
	assert.Equal(t, "DevOps", devops.Name)
}

func TestSeedAdminUser(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)

	require.NoError(t, bootstrap.SeedAdminUser(db, "", "", log))
	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, bootstrap.SeedAdminUser(db, "Root@Example.com", "supersecret", log))
	require.NoError(t, bootstrap.SeedAdminUser(db, "root@example.com", "supersecret", log))

	var admin entity.User
	require.NoError(t, db.Preload("Profile").Where("email = ?", "root@example.com").First(&admin).Error)
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	require.NotNil(t, admin.Profile)
	assert.Equal(t, "admin", admin.Profile.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("supersecret")))
}

func TestSeedAdminUserPromotesExisting(t *testing.T) {
	db := testutil.DB(t)
	u := testutil.SeedUser(t, db, "alice", entity.RoleUser)

	require.NoError(t, bootstrap.SeedAdminUser(db, u.Email, "whatever1", testutil.Logger(t)))

	var reloaded entity.User
	require.NoError(t, db.First(&reloaded, "id = ?", u.ID).Error)
	assert.Equal(t, entity.RoleAdmin, reloaded.Role)
}
