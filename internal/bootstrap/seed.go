package bootstrap

import (
	"errors"
	"strings"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/pkg/logger"
	"anoa.com/skillnest/pkg/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Profile{},
		&entity.Category{},
		&entity.Skill{},
		&entity.Resource{},
		&entity.Roadmap{},
		&entity.RoadmapStep{},
		&entity.RoadmapItem{},
		&entity.Like{},
		&entity.Bookmark{},
		&entity.Comment{},
		&entity.Notification{},
	)
}

var defaultCategories = []entity.Category{
	{Name: "Web Dev", Description: "Frontend, backend and everything in the browser"},
	{Name: "Mobile", Description: "Native and cross-platform mobile apps"},
	{Name: "Data Science", Description: "Data analysis, machine learning and statistics"},
	{Name: "Design", Description: "UI, UX and visual design"},
	{Name: "DevOps", Description: "Infrastructure, CI/CD and cloud operations"},
}

func SeedCategories(db *gorm.DB) error {
	for _, category := range defaultCategories {
		category.Slug = slug.Make(category.Name)

		var count int64
		if err := db.Model(&entity.Category{}).
			Where("slug = ?", category.Slug).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&category).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminUser creates the first administrator when ADMIN_EMAIL and ADMIN_PASSWORD are set.
func SeedAdminUser(db *gorm.DB, email, password string, log *logger.Logger) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	var existing entity.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Role != entity.RoleAdmin {
			return db.Model(&existing).Update("role", entity.RoleAdmin).Error
		}
		log.Debug("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		adminUser := entity.User{
			Email:        email,
			PasswordHash: string(hashedPasswordBytes),
			Role:         entity.RoleAdmin,
		}
		if err := tx.Create(&adminUser).Error; err != nil {
			return err
		}

		adminProfile := entity.Profile{
			UserID:   adminUser.ID,
			Username: "admin",
			FullName: "Administrator",
		}
		if err := tx.Create(&adminProfile).Error; err != nil {
			return err
		}

		log.Info("admin user seeded", "user_id", adminUser.ID)
		return nil
	})
}
