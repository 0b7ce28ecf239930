package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/internal/modules/admin/dto"
	"anoa.com/skillnest/internal/modules/admin/repository"
	userRepo "anoa.com/skillnest/internal/modules/user/repository"
	"anoa.com/skillnest/pkg/apperror"
	"anoa.com/skillnest/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminService interface {
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
	GetAllUsers(ctx context.Context) ([]dto.AdminUserResponse, error)
	UpdateUserRole(ctx context.Context, actorID, userID uuid.UUID, role string) error
}

type adminService struct {
	stats repository.StatsRepository
	users userRepo.UserRepository
	log   *logger.Logger
}

func NewAdminService(stats repository.StatsRepository, users userRepo.UserRepository, log *logger.Logger) AdminService {
	return &adminService{
		stats: stats,
		users: users,
		log:   log,
	}
}

func (s *adminService) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	var (
		res dto.StatsResponse
		err error
	)

	if res.UserCount, err = s.stats.CountUsers(ctx); err != nil {
		return nil, err
	}
	if res.PendingSkills, err = s.stats.CountSkills(ctx, entity.SkillStatusPending); err != nil {
		return nil, err
	}
	if res.TotalPosts, err = s.stats.CountResources(ctx); err != nil {
		return nil, err
	}
	if res.TotalSkills, err = s.stats.CountSkills(ctx, ""); err != nil {
		return nil, err
	}
	if res.TotalRoadmaps, err = s.stats.CountRoadmaps(ctx); err != nil {
		return nil, err
	}

	return &res, nil
}

func (s *adminService) GetAllUsers(ctx context.Context) ([]dto.AdminUserResponse, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.AdminUserResponse, 0, len(users))
	for _, u := range users {
		item := dto.AdminUserResponse{
			ID:        u.ID,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		}
		if u.Profile != nil {
			item.Username = u.Profile.Username
			item.FullName = u.Profile.FullName
			item.AvatarURL = u.Profile.AvatarURL
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, actorID, userID uuid.UUID, role string) error {
	if role != entity.RoleUser && role != entity.RoleAdmin {
		return fmt.Errorf("role must be user or admin: %w", apperror.ErrBadRequest)
	}
	if actorID == userID && role != entity.RoleAdmin {
		return fmt.Errorf("you cannot remove your own admin role: %w", apperror.ErrForbidden)
	}

	if err := s.users.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return err
	}

	s.log.Info("user role updated", "user_id", userID, "role", role, "by", actorID)
	return nil
}
