package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"anoa.com/skillnest/internal/entity"
	engagementRepo "anoa.com/skillnest/internal/modules/engagement/repository"
	engagement "anoa.com/skillnest/internal/modules/engagement/service"
	"anoa.com/skillnest/internal/modules/resource/dto"
	"anoa.com/skillnest/internal/modules/resource/repository"
	skillRepo "anoa.com/skillnest/internal/modules/skill/repository"
	skill "anoa.com/skillnest/internal/modules/skill/service"
	view "anoa.com/skillnest/internal/modules/view/service"
	"anoa.com/skillnest/internal/testutil"
	"anoa.com/skillnest/pkg/apperror"
	commonDto "anoa.com/skillnest/pkg/dto"
	"anoa.com/skillnest/pkg/logger"
	"anoa.com/skillnest/pkg/scraper"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubScraper struct {
	meta *scraper.Metadata
	err  error
}

func (s stubScraper) Fetch(context.Context, string) (*scraper.Metadata, error) {
	return s.meta, s.err
}

type memoryStorage struct {
	uploaded  []string
	deleted   []string
	uploadErr error
}

func (m *memoryStorage) UploadImage(_ context.Context, r io.Reader, folder, fileName string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	u := "https://res.cloudinary.com/demo/image/upload/v1/" + folder + "/" + fileName
	m.uploaded = append(m.uploaded, u)
	return u, nil
}

func (m *memoryStorage) DeleteImage(_ context.Context, fileURL string) error {
	m.deleted = append(m.deleted, fileURL)
	return nil
}

type failingCreateRepo struct {
	repository.ResourceRepository
}

func (failingCreateRepo) Create(context.Context, *entity.Resource) error {
	return errors.New("disk full")
}

type env struct {
	db      *gorm.DB
	svc     ResourceService
	storage *memoryStorage
	author  *entity.User
	other   *entity.User
	admin   *entity.User
	skill   *entity.Skill
}

func newEnv(t *testing.T, rdb *redis.Client, fetcher scraper.MetadataFetcher) *env {
	t.Helper()
	db := testutil.DB(t)
	log := logger.Nop()

	repo := repository.NewResourceRepository(db)
	skills := skillRepo.NewSkillRepository(db)
	store := &memoryStorage{}

	svc := NewResourceService(Deps{
		Repo:          repo,
		Skills:        skills,
		Suggester:     skill.NewSkillService(skills, nil, log),
		Engagement:    engagement.NewEngagementService(engagementRepo.NewEngagementRepository(db), repo, nil, nil, 0, log),
		Views:         view.NewViewService(rdb, repo, log),
		ImageStorage:  store,
		Scraper:       fetcher,
		Redis:         rdb,
		ResourceLimit: time.Minute,
		Log:           log,
	})

	cat := testutil.SeedCategory(t, db, "Web Dev")
	return &env{
		db:      db,
		svc:     svc,
		storage: store,
		author:  testutil.SeedUser(t, db, "author", entity.RoleUser),
		other:   testutil.SeedUser(t, db, "other", entity.RoleUser),
		admin:   testutil.SeedUser(t, db, "boss", entity.RoleAdmin),
		skill:   testutil.SeedSkill(t, db, &cat.ID, "React", "react", entity.SkillStatusApproved),
	}
}

func (e *env) request(title string) dto.CreateResourceRequest {
	skillID := e.skill.ID.String()
	return dto.CreateResourceRequest{
		Title:          title,
		URL:            "https://react.dev/learn",
		Type:           "documentation",
		Level:          "beginner",
		Description:    "<p>Official docs</p><script>x()</script>",
		Content:        "## Hooks",
		LearningPoints: []string{" state ", "", "effects"},
		SkillID:        &skillID,
	}
}

func TestCreateResourceValidation(t *testing.T) {
	e := newEnv(t, nil, nil)
	ctx := context.Background()

	cases := map[string]func(r *dto.CreateResourceRequest){
		"empty title":   func(r *dto.CreateResourceRequest) { r.Title = "   " },
		"bad scheme":    func(r *dto.CreateResourceRequest) { r.URL = "javascript:alert(1)" },
		"relative url":  func(r *dto.CreateResourceRequest) { r.URL = "/docs" },
		"unknown type":  func(r *dto.CreateResourceRequest) { r.Type = "podcast" },
		"unknown level": func(r *dto.CreateResourceRequest) { r.Level = "expert" },
		"no skill":      func(r *dto.CreateResourceRequest) { r.SkillID = nil },
		"missing skill": func(r *dto.CreateResourceRequest) { id := uuid.NewString(); r.SkillID = &id },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := e.request("React docs")
			mutate(&req)
			_, err := e.svc.CreateResource(ctx, e.author.ID, req, nil)
			assert.ErrorIs(t, err, apperror.ErrBadRequest)
		})
	}

	var count int64
	require.NoError(t, e.db.Model(&entity.Resource{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateResourcePublishesAndSanitizes(t *testing.T) {
	e := newEnv(t, nil, nil)
	ctx := context.Background()

	res, err := e.svc.CreateResource(ctx, e.author.ID, e.request("  React docs  "), &commonDto.UploadFile{
		Reader:   strings.NewReader("png"),
		FileName: "cover.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "React docs", res.Title)
	assert.Equal(t, entity.ResourceStatusPublished, res.Status)
	assert.Equal(t, "<p>Official docs</p>", res.Description)
	require.NotNil(t, res.ThumbnailURL)
	assert.Len(t, e.storage.uploaded, 1)
	require.NotNil(t, res.Skill)
	assert.Equal(t, "Web Dev", res.Skill.CategoryName)
	assert.Equal(t, "Test author", res.Author.FullName)

	detail, err := e.svc.GetResource(ctx, res.ID, dto.Viewer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"state", "effects"}, detail.LearningPoints)
	assert.Equal(t, "## Hooks", detail.Content)

	list, err := e.svc.ListBySkill(ctx, "react")
	require.NoError(t, err)
	require.Len(t, list.Resources, 1)
	assert.Equal(t, "react", list.Skill.Slug)
}

func TestCreateResourceKeepsPlainTextPunctuation(t *testing.T) {
	e := newEnv(t, nil, nil)
	ctx := context.Background()

	req := e.request("Tips & Tricks: Don't use <b>index</b> keys when a < b")
	req.LearningPoints = []string{"props & state", "don't mutate"}

	res, err := e.svc.CreateResource(ctx, e.author.ID, req, nil)
	require.NoError(t, err)
	assert.Equal(t, "Tips & Tricks: Don't use index keys when a < b", res.Title)

	detail, err := e.svc.GetResource(ctx, res.ID, dto.Viewer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"props & state", "don't mutate"}, detail.LearningPoints)
}

func TestCreateResourceWithSuggestedSkill(t *testing.T) {
	e := newEnv(t, nil, nil)
	ctx := context.Background()

	req := e.request("Solid primer")
	req.SkillID = nil
	req.NewSkill = &dto.NewSkillInput{Name: "SolidJS"}

	res, err := e.svc.CreateResource(ctx, e.author.ID, req, nil)
	require.NoError(t, err)

	var sk entity.Skill
	require.NoError(t, e.db.First(&sk, "slug = ?", "solidjs").Error)
	assert.Equal(t, entity.SkillStatusPending, sk.Status)
	assert.Equal(t, sk.ID, res.Skill.ID)

	_, err = e.svc.ListBySkill(ctx, "solidjs")
	assert.ErrorIs(t, err, apperror.ErrNotFound, "pending skills are not listed")
}

func TestCreateResourceFailedUploadSuggestsNothing(t *testing.T) {
	e := newEnv(t, nil, nil)
	ctx := context.Background()
	e.storage.uploadErr = errors.New("cloudinary down")

	req := e.request("Qwik primer")
	req.SkillID = nil
	req.NewSkill = &dto.NewSkillInput{Name: "Qwik"}

	_, err := e.svc.CreateResource(ctx, e.author.ID, req, &commonDto.UploadFile{Reader: strings.NewReader("png"), FileName: "q.png"})
	require.Error(t, err)

	var skills int64
	require.NoError(t, e.db.Model(&entity.Skill{}).Where("slug = ?", "qwik").Count(&skills).Error)
	assert.Zero(t, skills)
}

func TestCreateResourceFailedInsertRollsBackDraft(t *testing.T) {
	e := newEnv(t, nil, nil)
	ctx := context.Background()
	log := logger.Nop()
	skills := skillRepo.NewSkillRepository(e.db)

	svc := NewResourceService(Deps{
		Repo:          failingCreateRepo{repository.NewResourceRepository(e.db)},
		Skills:        skills,
		Suggester:     skill.NewSkillService(skills, nil, log),
		ImageStorage:  e.storage,
		ResourceLimit: time.Minute,
		Log:           log,
	})

	req := e.request("Astro primer")
	req.SkillID = nil
	req.NewSkill = &dto.NewSkillInput{Name: "Astro"}

	_, err := svc.CreateResource(ctx, e.author.ID, req, &commonDto.UploadFile{Reader: strings.NewReader("png"), FileName: "a.png"})
	require.Error(t, err)

	var count int64
	require.NoError(t, e.db.Model(&entity.Skill{}).Where("slug = ?", "astro").Count(&count).Error)
	assert.Zero(t, count, "suggested skill is removed with the failed resource")
	require.Len(t, e.storage.uploaded, 1)
	assert.Equal(t, e.storage.uploaded, e.storage.deleted)
}

func TestCreateResourceRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := newEnv(t, rdb, nil)
	ctx := context.Background()

	bad := e.request("")
	_, err := e.svc.CreateResource(ctx, e.author.ID, bad, nil)
	require.ErrorIs(t, err, apperror.ErrBadRequest)

	_, err = e.svc.CreateResource(ctx, e.author.ID, e.request("first"), nil)
	require.NoError(t, err, "validation failures do not start the cooldown")

	_, err = e.svc.CreateResource(ctx, e.author.ID, e.request("second"), nil)
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)

	mr.FastForward(2 * time.Minute)
	_, err = e.svc.CreateResource(ctx, e.author.ID, e.request("third"), nil)
	assert.NoError(t, err)
}

func TestGetResourceVisibilityAndFlags(t *testing.T) {
	e := newEnv(t, nil, nil)
	ctx := context.Background()
	hidden := testutil.SeedResource(t, e.db, e.skill.ID, e.author.ID, "Draft notes", entity.ResourceStatusHidden)
	public := testutil.SeedResource(t, e.db, e.skill.ID, e.author.ID, "Public notes", entity.ResourceStatusPublished)

	_, err := e.svc.GetResource(ctx, hidden.ID, dto.Viewer{UserID: &e.other.ID, Key: "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = e.svc.GetResource(ctx, hidden.ID, dto.Viewer{UserID: &e.author.ID})
	assert.NoError(t, err, "owner sees own hidden resource")

	_, err = e.svc.GetResource(ctx, hidden.ID, dto.Viewer{UserID: &e.admin.ID, IsAdmin: true})
	assert.NoError(t, err)

	require.NoError(t, e.db.Create(&entity.Like{ResourceID: public.ID, UserID: e.other.ID}).Error)
	require.NoError(t, e.db.Create(&entity.Comment{ResourceID: public.ID, UserID: e.author.ID, Content: "hi"}).Error)

	detail, err := e.svc.GetResource(ctx, public.ID, dto.Viewer{UserID: &e.other.ID, Key: e.other.ID.String()})
	require.NoError(t, err)
	assert.True(t, detail.Liked)
	assert.False(t, detail.Bookmarked)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "author", detail.Comments[0].Author.Username)

	var reloaded entity.Resource
	require.NoError(t, e.db.First(&reloaded, "id = ?", public.ID).Error)
	assert.Equal(t, 1, reloaded.Views, "view written through without redis")

	_, err = e.svc.GetResource(ctx, uuid.New(), dto.Viewer{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteResourceOwnership(t *testing.T) {
	e := newEnv(t, nil, nil)
	ctx := context.Background()
	thumb := "https://res.cloudinary.com/demo/image/upload/v1/thumbnails/a.webp"
	mine := testutil.SeedResource(t, e.db, e.skill.ID, e.author.ID, "Mine", entity.ResourceStatusPublished)
	require.NoError(t, e.db.Model(mine).Update("thumbnail_url", thumb).Error)
	require.NoError(t, e.db.Create(&entity.Bookmark{ResourceID: mine.ID, UserID: e.other.ID}).Error)

	err := e.svc.DeleteResource(ctx, e.other.ID, false, mine.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, e.svc.DeleteResource(ctx, e.author.ID, false, mine.ID))
	assert.Equal(t, []string{thumb}, e.storage.deleted)

	var bookmarks int64
	require.NoError(t, e.db.Model(&entity.Bookmark{}).Count(&bookmarks).Error)
	assert.Zero(t, bookmarks)

	theirs := testutil.SeedResource(t, e.db, e.skill.ID, e.other.ID, "Theirs", entity.ResourceStatusPublished)
	require.NoError(t, e.svc.DeleteResource(ctx, e.admin.ID, true, theirs.ID))

	assert.ErrorIs(t, e.svc.DeleteResource(ctx, e.admin.ID, true, theirs.ID), apperror.ErrNotFound)
}

func TestDashboardAndAdminStatus(t *testing.T) {
	e := newEnv(t, nil, nil)
	ctx := context.Background()
	a := testutil.SeedResource(t, e.db, e.skill.ID, e.author.ID, "Alpha", entity.ResourceStatusPublished)
	testutil.SeedResource(t, e.db, e.skill.ID, e.author.ID, "Beta", entity.ResourceStatusPublished)
	require.NoError(t, e.db.Model(a).Updates(map[string]interface{}{"views": 7, "like_count": 2}).Error)
	require.NoError(t, e.db.Create(&entity.Bookmark{ResourceID: a.ID, UserID: e.author.ID}).Error)

	stats, err := e.svc.DashboardStats(ctx, e.author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Posts)
	assert.Equal(t, int64(7), stats.TotalViews)
	assert.Equal(t, int64(2), stats.LikesReceived)
	assert.Equal(t, int64(1), stats.BookmarksSaved)

	require.NoError(t, e.svc.UpdateStatus(ctx, a.ID, entity.ResourceStatusHidden))
	assert.ErrorIs(t, e.svc.UpdateStatus(ctx, a.ID, "archived"), apperror.ErrBadRequest)
	assert.ErrorIs(t, e.svc.UpdateStatus(ctx, uuid.New(), entity.ResourceStatusHidden), apperror.ErrNotFound)

	hidden, err := e.svc.ListAll(ctx, dto.AdminResourceFilter{Status: entity.ResourceStatusHidden})
	require.NoError(t, err)
	require.Len(t, hidden, 1)
	assert.Equal(t, "Alpha", hidden[0].Title)

	found, err := e.svc.ListAll(ctx, dto.AdminResourceFilter{Search: "bet"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	mine, err := e.svc.ListMine(ctx, e.author.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2, "dashboard shows every status")

	list, err := e.svc.ListBySkill(ctx, "react")
	require.NoError(t, err)
	assert.Len(t, list.Resources, 1)
}

func TestFetchMetadata(t *testing.T) {
	e := newEnv(t, nil, stubScraper{meta: &scraper.Metadata{Title: "React"}})
	meta, err := e.svc.FetchMetadata(context.Background(), "https://react.dev")
	require.NoError(t, err)
	assert.Equal(t, "React", meta.Title)

	_, err = e.svc.FetchMetadata(context.Background(), "ftp://react.dev")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	failing := newEnv(t, nil, stubScraper{err: errors.New("timeout")})
	_, err = failing.svc.FetchMetadata(context.Background(), "https://react.dev")
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}
