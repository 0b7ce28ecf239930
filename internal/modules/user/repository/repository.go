package repository

import (
	"context"

	"anoa.com/skillnest/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User, profile *entity.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	FindByGithubID(ctx context.Context, githubID string) (*entity.User, error)
	FindRole(ctx context.Context, id uuid.UUID) (string, error)
	UsernameExists(ctx context.Context, username string, exceptUserID *uuid.UUID) (bool, error)
	Update(ctx context.Context, user *entity.User, profile *entity.Profile) error
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	FindAll(ctx context.Context) ([]*entity.User, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User, profile *entity.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return err
		}

		if profile != nil {
			profile.UserID = user.ID
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
			user.Profile = profile
		}

		return nil
	})
}

func (r *userRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Where(query, args...).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return r.findOne(ctx, "google_id = ?", googleID)
}

func (r *userRepository) FindByGithubID(ctx context.Context, githubID string) (*entity.User, error) {
	return r.findOne(ctx, "github_id = ?", githubID)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var profile entity.Profile
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, profile.UserID)
}

func (r *userRepository) FindRole(ctx context.Context, id uuid.UUID) (string, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Select("id", "role").Where("id = ?", id).First(&user).Error; err != nil {
		return "", err
	}
	return user.Role, nil
}

func (r *userRepository) UsernameExists(ctx context.Context, username string, exceptUserID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&entity.Profile{}).Where("username = ?", username)
	if exceptUserID != nil {
		query = query.Where("user_id <> ?", *exceptUserID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User, profile *entity.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Save(user).Error; err != nil {
			return err
		}

		if profile != nil {
			if err := tx.Save(profile).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
