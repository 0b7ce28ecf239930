package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/internal/modules/profile/dto"
	userRepo "anoa.com/skillnest/internal/modules/user/repository"
	"anoa.com/skillnest/internal/testutil"
	"anoa.com/skillnest/pkg/apperror"
	commonDto "anoa.com/skillnest/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeStorage struct {
	uploaded []string
}

func (f *fakeStorage) UploadImage(_ context.Context, r io.Reader, folder, fileName string) (string, error) {
	_, _ = io.ReadAll(r)
	f.uploaded = append(f.uploaded, folder+"/"+fileName)
	return "https://img.test/" + folder + "/" + fileName, nil
}

func (f *fakeStorage) DeleteImage(context.Context, string) error { return nil }

type fixedCounter int64

func (c fixedCounter) CountPublishedByUser(context.Context, uuid.UUID) (int64, error) {
	return int64(c), nil
}

func strPtr(s string) *string { return &s }

func TestGetProfileByUsername(t *testing.T) {
	db := testutil.DB(t)
	u := testutil.SeedUser(t, db, "alice", entity.RoleAdmin)
	svc := NewProfileService(userRepo.NewUserRepository(db), nil, fixedCounter(3))

	res, err := svc.GetProfileByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.UserID)
	assert.Equal(t, "Test alice", res.FullName)
	assert.Equal(t, entity.RoleAdmin, res.Role)
	assert.EqualValues(t, 3, res.ResourceCount)

	_, err = svc.GetProfileByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.DB(t)
	u := testutil.SeedUser(t, db, "bob", entity.RoleUser)
	store := &fakeStorage{}
	svc := NewProfileService(userRepo.NewUserRepository(db), store, nil)
	ctx := context.Background()

	res, err := svc.UpdateProfile(ctx, u.ID, dto.UpdateProfileInput{
		Username:   strPtr("bob the builder"),
		FullName:   strPtr(" Bob Builder "),
		Bio:        strPtr("   "),
		Profession: strPtr("Engineer"),
		SkillLevel: strPtr("advanced"),
		Password:   strPtr("new-password"),
	}, &commonDto.UploadFile{Reader: strings.NewReader("png"), FileName: "me.png"})
	require.NoError(t, err)

	assert.Equal(t, "bob_the_builder", res.Profile.Username)
	assert.Equal(t, "Bob Builder", res.Profile.FullName)
	assert.Nil(t, res.Profile.Bio)
	assert.Equal(t, "Engineer", *res.Profile.Profession)
	assert.Equal(t, "advanced", *res.Profile.SkillLevel)
	require.NotNil(t, res.Profile.AvatarURL)
	assert.Equal(t, "https://img.test/avatars/me.png", *res.Profile.AvatarURL)
	assert.Equal(t, []string{"avatars/me.png"}, store.uploaded)

	var stored entity.User
	require.NoError(t, db.First(&stored, "id = ?", u.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")))
}

func TestUpdateProfileValidation(t *testing.T) {
	db := testutil.DB(t)
	u := testutil.SeedUser(t, db, "carol", entity.RoleUser)
	testutil.SeedUser(t, db, "dave", entity.RoleUser)
	svc := NewProfileService(userRepo.NewUserRepository(db), nil, nil)
	ctx := context.Background()

	cases := map[string]dto.UpdateProfileInput{
		"username too short": {Username: strPtr("ab")},
		"username taken":     {Username: strPtr("dave")},
		"password too short": {Password: strPtr("short")},
		"empty full name":    {FullName: strPtr("  ")},
		"bad skill level":    {SkillLevel: strPtr("wizard")},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.UpdateProfile(ctx, u.ID, input, nil)
			assert.ErrorIs(t, err, apperror.ErrBadRequest)
		})
	}

	_, err := svc.UpdateProfile(ctx, u.ID, dto.UpdateProfileInput{}, &commonDto.UploadFile{Reader: strings.NewReader("x"), FileName: "a.png"})
	assert.ErrorIs(t, err, apperror.ErrBadRequest, "uploads need storage")

	res, err := svc.UpdateProfile(ctx, u.ID, dto.UpdateProfileInput{Username: strPtr("carol")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "carol", res.Profile.Username, "keeping own username is allowed")
}
