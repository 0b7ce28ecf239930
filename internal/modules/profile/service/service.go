package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/internal/modules/profile/dto"
	userRepo "anoa.com/skillnest/internal/modules/user/repository"
	"anoa.com/skillnest/pkg/apperror"
	commonDto "anoa.com/skillnest/pkg/dto"
	"anoa.com/skillnest/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ResourceCounter counts the published resources a user has shared.
type ResourceCounter interface {
	CountPublishedByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ProfileService interface {
	GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	GetProfileByUsername(ctx context.Context, username string) (*dto.PublicProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput, avatar *commonDto.UploadFile) (*dto.ProfileResponse, error)
}

type profileService struct {
	repo         userRepo.UserRepository
	imageStorage storage.ImageStorage
	resources    ResourceCounter
}

func NewProfileService(repo userRepo.UserRepository, imageStorage storage.ImageStorage, resources ResourceCounter) ProfileService {
	return &profileService{
		repo:         repo,
		imageStorage: imageStorage,
		resources:    resources,
	}
}

func (s *profileService) loadUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if user.Profile == nil {
		return nil, fmt.Errorf("profile not found: %w", apperror.ErrNotFound)
	}
	return user, nil
}

func (s *profileService) GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{User: user, Profile: user.Profile}, nil
}

func (s *profileService) GetProfileByUsername(ctx context.Context, username string) (*dto.PublicProfileResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	res := &dto.PublicProfileResponse{
		UserID:     user.ID,
		Username:   user.Profile.Username,
		FullName:   user.Profile.FullName,
		AvatarURL:  user.Profile.AvatarURL,
		Bio:        user.Profile.Bio,
		Profession: user.Profile.Profession,
		Role:       user.Role,
		JoinedAt:   user.CreatedAt,
	}

	if s.resources != nil {
		count, err := s.resources.CountPublishedByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		res.ResourceCount = count
	}

	return res, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput, avatar *commonDto.UploadFile) (*dto.ProfileResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile

	if input.Username != nil && strings.TrimSpace(*input.Username) != "" {
		sanitizedUsername := strings.ReplaceAll(strings.TrimSpace(*input.Username), " ", "_")
		if len(sanitizedUsername) < 3 {
			return nil, fmt.Errorf("username must be at least 3 characters: %w", apperror.ErrBadRequest)
		}
		if len(sanitizedUsername) > 50 {
			return nil, fmt.Errorf("username must be at most 50 characters: %w", apperror.ErrBadRequest)
		}
		if sanitizedUsername != profile.Username {
			taken, err := s.repo.UsernameExists(ctx, sanitizedUsername, &user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("username already taken: %w", apperror.ErrBadRequest)
			}
			profile.Username = sanitizedUsername
		}
	}

	if input.FullName != nil {
		fullName := strings.TrimSpace(*input.FullName)
		if fullName == "" {
			return nil, fmt.Errorf("full name cannot be empty: %w", apperror.ErrBadRequest)
		}
		profile.FullName = fullName
	}

	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < 8 {
			return nil, fmt.Errorf("password must be at least 8 characters: %w", apperror.ErrBadRequest)
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if input.SkillLevel != nil {
		level := normalizeOptional(input.SkillLevel)
		if level != nil && !validLevel(*level) {
			return nil, fmt.Errorf("invalid skill level: %w", apperror.ErrBadRequest)
		}
		profile.SkillLevel = level
	}
	if input.Bio != nil {
		profile.Bio = normalizeOptional(input.Bio)
	}
	if input.Profession != nil {
		profile.Profession = normalizeOptional(input.Profession)
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = normalizeOptional(input.AvatarURL)
	}

	if avatar != nil && avatar.Reader != nil {
		if s.imageStorage == nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrNotConfigured, apperror.ErrBadRequest)
		}
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}
		profile.AvatarURL = &url
	}

	if err := s.repo.Update(ctx, user, profile); err != nil {
		return nil, err
	}

	return s.GetCurrentProfile(ctx, userID)
}

func validLevel(level string) bool {
	for _, l := range entity.ResourceLevels {
		if l == level {
			return true
		}
	}
	return false
}

// normalizeOptional turns blank strings into NULL.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
