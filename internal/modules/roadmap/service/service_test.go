package service

import (
	"context"
	"testing"

	"anoa.com/skillnest/internal/entity"
	resourceRepo "anoa.com/skillnest/internal/modules/resource/repository"
	"anoa.com/skillnest/internal/modules/roadmap/dto"
	"anoa.com/skillnest/internal/modules/roadmap/repository"
	skillRepo "anoa.com/skillnest/internal/modules/skill/repository"
	"anoa.com/skillnest/internal/testutil"
	"anoa.com/skillnest/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (RoadmapService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	svc := NewRoadmapService(
		repository.NewRoadmapRepository(db),
		skillRepo.NewSkillRepository(db),
		resourceRepo.NewResourceRepository(db),
	)
	return svc, db
}

func stepTitles(t *testing.T, svc RoadmapService, slug string) ([]string, []int) {
	t.Helper()
	full, err := svc.GetFullRoadmap(context.Background(), slug)
	require.NoError(t, err)
	require.NotNil(t, full.Roadmap)

	var titles []string
	var indexes []int
	for _, s := range full.Roadmap.Steps {
		titles = append(titles, s.Title)
		indexes = append(indexes, s.OrderIndex)
	}
	return titles, indexes
}

func TestStepOrderingStaysContiguous(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	sk := testutil.SeedSkill(t, db, nil, "Kubernetes", "kubernetes", entity.SkillStatusApproved)

	rm, err := svc.CreateRoadmap(ctx, dto.CreateRoadmapRequest{SkillID: sk.ID.String(), Title: "K8s"})
	require.NoError(t, err)

	var stepIDs []uuid.UUID
	for i, title := range []string{"Pods", "Services", "Ingress", "Helm"} {
		step, err := svc.AddStep(ctx, rm.ID, dto.AddStepRequest{Title: title})
		require.NoError(t, err)
		assert.Equal(t, i, step.OrderIndex)
		stepIDs = append(stepIDs, step.ID)
	}

	require.NoError(t, svc.MoveStep(ctx, stepIDs[2], "up"))
	titles, indexes := stepTitles(t, svc, "kubernetes")
	assert.Equal(t, []string{"Pods", "Ingress", "Services", "Helm"}, titles)
	assert.Equal(t, []int{0, 1, 2, 3}, indexes)

	require.NoError(t, svc.MoveStep(ctx, stepIDs[0], "up"), "top step stays put")
	require.NoError(t, svc.MoveStep(ctx, stepIDs[3], "down"), "bottom step stays put")
	titles, _ = stepTitles(t, svc, "kubernetes")
	assert.Equal(t, []string{"Pods", "Ingress", "Services", "Helm"}, titles)

	_, err = svc.AddItem(ctx, stepIDs[2], dto.AddItemRequest{Title: "Docs", URL: strPtr("https://kubernetes.io/docs")})
	require.NoError(t, err)

	// stepIDs[2] is Ingress, now second in line.
	require.NoError(t, svc.DeleteStep(ctx, stepIDs[2]))
	titles, indexes = stepTitles(t, svc, "kubernetes")
	assert.Equal(t, []string{"Pods", "Services", "Helm"}, titles)
	assert.Equal(t, []int{0, 1, 2}, indexes)

	var items int64
	require.NoError(t, db.Model(&entity.RoadmapItem{}).Count(&items).Error)
	assert.Zero(t, items)

	assert.ErrorIs(t, svc.MoveStep(ctx, stepIDs[0], "sideways"), apperror.ErrBadRequest)
	assert.ErrorIs(t, svc.DeleteStep(ctx, uuid.New()), apperror.ErrNotFound)
}

func TestOneRoadmapPerSkill(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	sk := testutil.SeedSkill(t, db, nil, "Go", "go", entity.SkillStatusApproved)

	_, err := svc.CreateRoadmap(ctx, dto.CreateRoadmapRequest{SkillID: sk.ID.String(), Title: "Go"})
	require.NoError(t, err)

	_, err = svc.CreateRoadmap(ctx, dto.CreateRoadmapRequest{SkillID: sk.ID.String(), Title: "Go again"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = svc.CreateRoadmap(ctx, dto.CreateRoadmapRequest{SkillID: uuid.NewString(), Title: "Ghost"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPublishedRoadmapVisibility(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "writer", entity.RoleUser)
	sk := testutil.SeedSkill(t, db, nil, "SQL", "sql", entity.SkillStatusApproved)
	res := testutil.SeedResource(t, db, sk.ID, user.ID, "Joins explained", entity.ResourceStatusPublished)

	_, err := svc.GetPublishedRoadmap(ctx, "sql")
	assert.ErrorIs(t, err, apperror.ErrNotFound, "no roadmap yet")

	rm, err := svc.CreateRoadmap(ctx, dto.CreateRoadmapRequest{SkillID: sk.ID.String(), Title: "SQL path"})
	require.NoError(t, err)
	step, err := svc.AddStep(ctx, rm.ID, dto.AddStepRequest{Title: "Basics"})
	require.NoError(t, err)
	resourceID := res.ID.String()
	item, err := svc.AddItem(ctx, step.ID, dto.AddItemRequest{ResourceID: &resourceID})
	require.NoError(t, err)
	assert.Equal(t, "Joins explained", item.Title)

	_, err = svc.GetPublishedRoadmap(ctx, "sql")
	assert.ErrorIs(t, err, apperror.ErrNotFound, "draft is hidden")

	published := entity.RoadmapStatusPublished
	require.NoError(t, svc.UpdateRoadmap(ctx, rm.ID, dto.UpdateRoadmapRequest{Status: &published}))

	public, err := svc.GetPublishedRoadmap(ctx, "sql")
	require.NoError(t, err)
	assert.Equal(t, "sql", public.Skill.Slug)
	require.Len(t, public.Roadmap.Steps, 1)
	require.Len(t, public.Roadmap.Steps[0].Items, 1)
	assert.Equal(t, "article", public.Roadmap.Steps[0].Items[0].Type)

	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	assert.ErrorIs(t, svc.DeleteItem(ctx, item.ID), apperror.ErrNotFound)
}

func TestAddItemValidation(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	sk := testutil.SeedSkill(t, db, nil, "CSS", "css", entity.SkillStatusApproved)
	rm, err := svc.CreateRoadmap(ctx, dto.CreateRoadmapRequest{SkillID: sk.ID.String(), Title: "CSS"})
	require.NoError(t, err)
	step, err := svc.AddStep(ctx, rm.ID, dto.AddStepRequest{Title: "Layout"})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, step.ID, dto.AddItemRequest{Title: "No link"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = svc.AddItem(ctx, step.ID, dto.AddItemRequest{Title: "FTP", URL: strPtr("ftp://example.com")})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	missing := uuid.NewString()
	_, err = svc.AddItem(ctx, step.ID, dto.AddItemRequest{ResourceID: &missing})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListRoadmapsCoversEverySkill(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	b := testutil.SeedSkill(t, db, nil, "Bash", "bash", entity.SkillStatusApproved)
	testutil.SeedSkill(t, db, nil, "Awk", "awk", entity.SkillStatusApproved)

	_, err := svc.CreateRoadmap(ctx, dto.CreateRoadmapRequest{SkillID: b.ID.String(), Title: "Shell"})
	require.NoError(t, err)

	list, err := svc.ListRoadmaps(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Awk", list[0].Skill.Name)
	assert.Nil(t, list[0].Roadmap)
	require.NotNil(t, list[1].Roadmap)
	assert.Equal(t, entity.RoadmapStatusDraft, list[1].Roadmap.Status)
}

func strPtr(s string) *string { return &s }
