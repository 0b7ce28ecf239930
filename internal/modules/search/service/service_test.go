package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/internal/modules/search/repository"
	"anoa.com/skillnest/internal/testutil"
	"anoa.com/skillnest/pkg/apperror"
	"anoa.com/skillnest/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndexer struct {
	skills    []SkillDoc
	resources []ResourceDoc
	err       error
	indexed   []string
}

func (f *fakeIndexer) IndexSkill(skill *entity.Skill) error {
	f.indexed = append(f.indexed, "skill:"+skill.Slug)
	return nil
}
func (f *fakeIndexer) DeleteSkill(string) error { return nil }
func (f *fakeIndexer) IndexResource(resource *entity.Resource) error {
	f.indexed = append(f.indexed, "resource:"+resource.Title)
	return nil
}
func (f *fakeIndexer) DeleteResource(string) error    { return nil }
func (f *fakeIndexer) DeleteResources([]string) error { return nil }
func (f *fakeIndexer) Clear() error {
	f.indexed = append(f.indexed, "clear")
	return nil
}
func (f *fakeIndexer) GenerateSearchToken() (string, error) { return "tok", nil }
func (f *fakeIndexer) SearchSkills(string, int) ([]SkillDoc, error) {
	return f.skills, f.err
}
func (f *fakeIndexer) SearchResources(string, int) ([]ResourceDoc, error) {
	return f.resources, f.err
}

func TestSearchFallsBackToDatabase(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "owner", entity.RoleUser)
	cat := testutil.SeedCategory(t, db, "Web Dev")

	react := testutil.SeedSkill(t, db, &cat.ID, "React", "react", entity.SkillStatusApproved)
	testutil.SeedSkill(t, db, &cat.ID, "Reactive Pending", "reactive-pending", entity.SkillStatusPending)
	testutil.SeedResource(t, db, react.ID, owner.ID, "React Hooks Deep Dive", entity.ResourceStatusPublished)
	testutil.SeedResource(t, db, react.ID, owner.ID, "Hidden react notes", entity.ResourceStatusHidden)

	svc := NewSearchService(repository.NewSearchRepository(db), nil, logger.Nop())

	res, err := svc.Search(ctx, "REACT", 0)
	require.NoError(t, err)
	assert.Equal(t, "database", res.Source)
	require.Len(t, res.Skills, 1)
	assert.Equal(t, "react", res.Skills[0].Slug)
	assert.Equal(t, "Web Dev", res.Skills[0].CategoryName)
	require.Len(t, res.Resources, 1)
	assert.Equal(t, "React Hooks Deep Dive", res.Resources[0].Title)
	assert.Equal(t, "react", res.Resources[0].SkillSlug)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := NewSearchService(nil, nil, logger.Nop())

	_, err := svc.Search(context.Background(), "   ", 10)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestSuggestReturnsAtMostFive(t *testing.T) {
	db := testutil.DB(t)
	for i := 0; i < 8; i++ {
		testutil.SeedSkill(t, db, nil, fmt.Sprintf("Go %d", i), fmt.Sprintf("go-%d", i), entity.SkillStatusApproved)
	}

	svc := NewSearchService(repository.NewSearchRepository(db), nil, logger.Nop())

	hits, err := svc.Suggest(context.Background(), "go")
	require.NoError(t, err)
	assert.Len(t, hits, 5)
	assert.Equal(t, "Go 0", hits[0].Name)
}

func TestSearchUsesIndexerWhenAvailable(t *testing.T) {
	idx := &fakeIndexer{
		skills:    []SkillDoc{{ID: "1", Name: "Docker", Slug: "docker"}},
		resources: []ResourceDoc{{ID: "2", Title: "Compose in practice", SkillSlug: "docker"}},
	}
	svc := NewSearchService(nil, idx, logger.Nop())

	res, err := svc.Search(context.Background(), "docker", 5)
	require.NoError(t, err)
	assert.Equal(t, "meilisearch", res.Source)
	assert.Equal(t, "docker", res.Skills[0].Slug)
	assert.Equal(t, "Compose in practice", res.Resources[0].Title)
}

func TestSearchIndexerFailureFallsBack(t *testing.T) {
	db := testutil.DB(t)
	testutil.SeedSkill(t, db, nil, "Kubernetes", "kubernetes", entity.SkillStatusApproved)

	idx := &fakeIndexer{err: errors.New("connection refused")}
	svc := NewSearchService(repository.NewSearchRepository(db), idx, logger.Nop())

	res, err := svc.Search(context.Background(), "kube", 5)
	require.NoError(t, err)
	assert.Equal(t, "database", res.Source)
	assert.Len(t, res.Skills, 1)
}

func TestReindex(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner", entity.RoleUser)
	sk := testutil.SeedSkill(t, db, nil, "Rust", "rust", entity.SkillStatusApproved)
	zig := testutil.SeedSkill(t, db, nil, "Zig", "zig", entity.SkillStatusRejected)
	testutil.SeedResource(t, db, sk.ID, owner.ID, "The Book", entity.ResourceStatusPublished)
	testutil.SeedResource(t, db, zig.ID, owner.ID, "Ziglings", entity.ResourceStatusPublished)

	idx := &fakeIndexer{}
	svc := NewSearchService(repository.NewSearchRepository(db), idx, logger.Nop())

	n, err := svc.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NotEmpty(t, idx.indexed)
	assert.Equal(t, "clear", idx.indexed[0], "indexes are emptied before the rebuild")
	assert.ElementsMatch(t, []string{"skill:rust", "resource:The Book"}, idx.indexed[1:])

	noIndex := NewSearchService(repository.NewSearchRepository(db), nil, logger.Nop())
	n, err = noIndex.Reindex(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner", entity.RoleUser)
	sharp := testutil.SeedSkill(t, db, nil, "C_Sharp", "c-sharp-underscore", entity.SkillStatusApproved)
	testutil.SeedSkill(t, db, nil, "CSharp", "csharp", entity.SkillStatusApproved)
	testutil.SeedResource(t, db, sharp.ID, owner.ID, "100% coverage in practice", entity.ResourceStatusPublished)
	testutil.SeedResource(t, db, sharp.ID, owner.ID, "1000 tips", entity.ResourceStatusPublished)

	svc := NewSearchService(repository.NewSearchRepository(db), nil, logger.Nop())

	res, err := svc.Search(context.Background(), "c_sharp", 10)
	require.NoError(t, err)
	require.Len(t, res.Skills, 1)
	assert.Equal(t, "C_Sharp", res.Skills[0].Name)

	res, err = svc.Search(context.Background(), "100%", 10)
	require.NoError(t, err)
	require.Len(t, res.Resources, 1)
	assert.Equal(t, "100% coverage in practice", res.Resources[0].Title)
}

func TestSearchHidesResourcesOfRejectedSkills(t *testing.T) {
	db := testutil.DB(t)
	owner := testutil.SeedUser(t, db, "owner", entity.RoleUser)
	rejected := testutil.SeedSkill(t, db, nil, "Fortran", "fortran", entity.SkillStatusRejected)
	testutil.SeedResource(t, db, rejected.ID, owner.ID, "Fortran for scientists", entity.ResourceStatusPublished)

	svc := NewSearchService(repository.NewSearchRepository(db), nil, logger.Nop())

	res, err := svc.Search(context.Background(), "fortran", 10)
	require.NoError(t, err)
	assert.Empty(t, res.Skills)
	assert.Empty(t, res.Resources)
}
