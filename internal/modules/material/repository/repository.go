package repository

import (
	"context"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const msgMaterialNotFound = "Material not found"

type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Material, error)
	FindByCourse(ctx context.Context, courseID uuid.UUID) ([]*entity.Material, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type materialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *entity.Material) error {
	return database.TranslateError(r.db.WithContext(ctx).Omit("Course").Create(material).Error, msgMaterialNotFound, "")
}

func (r *materialRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Material, error) {
	var material entity.Material
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		return nil, database.TranslateError(err, msgMaterialNotFound, "")
	}
	return &material, nil
}

func (r *materialRepository) FindByCourse(ctx context.Context, courseID uuid.UUID) ([]*entity.Material, error) {
	var materials []*entity.Material
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&materials).Error
	if err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *materialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Material{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.TranslateError(gorm.ErrRecordNotFound, msgMaterialNotFound, "")
	}
	return nil
}
