package service

import (
	"context"
	"testing"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/internal/modules/category/dto"
	"anoa.com/skillnest/internal/modules/category/repository"
	"anoa.com/skillnest/internal/testutil"
	"anoa.com/skillnest/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndListCategories(t *testing.T) {
	db := testutil.DB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db))
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Web Dev", Description: "browsers"})
	require.NoError(t, err)
	assert.Equal(t, "web-dev", created.Slug)

	_, err = svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Data Science"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "web dev"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest, "duplicate slug")

	_, err = svc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "!!!"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	all, err := svc.GetAllCategories(ctx, dto.CategoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Data Science", all[0].Name)
	assert.Equal(t, "Web Dev", all[1].Name)

	filtered, err := svc.GetAllCategories(ctx, dto.CategoryFilter{Search: "WEB"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "web-dev", filtered[0].Slug)
}

func TestDeleteCategoryDetachesSkills(t *testing.T) {
	db := testutil.DB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db))
	ctx := context.Background()

	cat := testutil.SeedCategory(t, db, "Mobile")
	sk := testutil.SeedSkill(t, db, &cat.ID, "Flutter", "flutter", entity.SkillStatusApproved)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))

	var reloaded entity.Skill
	require.NoError(t, db.First(&reloaded, "id = ?", sk.ID).Error)
	assert.Nil(t, reloaded.CategoryID)

	err := svc.DeleteCategory(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
