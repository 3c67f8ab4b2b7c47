package bootstrap

import (
	"context"
	"errors"
	"log"
	"strings"

	"anoa.com/unimanage/internal/entity"
	userRepo "anoa.com/unimanage/internal/modules/user/repository"
	"anoa.com/unimanage/pkg/apperror"
	"anoa.com/unimanage/pkg/password"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Student{},
		&entity.Course{},
		&entity.Enrollment{},
		&entity.Notice{},
		&entity.Material{},
		&entity.InternalMark{},
		&entity.ResultPDF{},
	)
}

// EnsureAdmin creates an approved admin with the given credentials, or
// promotes and re-approves the existing identity with that email. The
// password of an existing identity is replaced only when one is given.
func EnsureAdmin(ctx context.Context, users userRepo.UserRepository, email, name, plainPassword string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" {
		return nil, apperror.Validation("Admin email is required")
	}
	if name == "" {
		name = "Administrator"
	}

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		existing.Role = entity.RoleAdmin
		existing.Status = entity.StatusApproved
		existing.RejectionReason = ""
		if plainPassword != "" {
			hash, err := password.Hash(plainPassword)
			if err != nil {
				return nil, err
			}
			existing.PasswordHash = hash
		}
		if err := users.Update(ctx, existing); err != nil {
			return nil, err
		}
		log.Printf("✅ Admin %s ensured", email)
		return existing, nil
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, err
	}

	if plainPassword == "" {
		return nil, apperror.Validation("Admin password is required")
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, err
	}

	admin := &entity.User{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Role:          entity.RoleAdmin,
		RequestedRole: entity.RoleAdmin,
		Status:        entity.StatusApproved,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, err
	}

	log.Printf("✅ Admin %s seeded successfully", email)
	return admin, nil
}
