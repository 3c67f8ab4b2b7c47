package repository

import (
	"context"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgUserNotFound = "User not found"
	msgEmailTaken   = "Email already registered"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// FindAll returns users newest first; an empty status matches every user.
	FindAll(ctx context.Context, status string) ([]*entity.User, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	return database.TranslateError(err, msgUserNotFound, msgEmailTaken)
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", user.ID).
		Select("name", "email", "password_hash", "role", "institutional_id", "requested_role", "status", "rejection_reason").
		Updates(user)
	if res.Error != nil {
		return database.TranslateError(res.Error, msgUserNotFound, msgEmailTaken)
	}
	if res.RowsAffected == 0 {
		return database.TranslateError(gorm.ErrRecordNotFound, msgUserNotFound, msgEmailTaken)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, database.TranslateError(err, msgUserNotFound, msgEmailTaken)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, database.TranslateError(err, msgUserNotFound, msgEmailTaken)
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context, status string) ([]*entity.User, error) {
	var users []*entity.User
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{
		entity.StatusPending:  0,
		entity.StatusApproved: 0,
		entity.StatusRejected: 0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
