package repository

import (
	"context"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgCourseNotFound = "Course not found"
	msgCodeTaken      = "Course code already exists"
)

type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	Update(ctx context.Context, course *entity.Course) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error)
	FindAll(ctx context.Context, department string) ([]*entity.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func translate(err error) error {
	return database.TranslateError(err, msgCourseNotFound, msgCodeTaken)
}

func (r *courseRepository) Create(ctx context.Context, course *entity.Course) error {
	return translate(r.db.WithContext(ctx).Create(course).Error)
}

func (r *courseRepository) Update(ctx context.Context, course *entity.Course) error {
	res := r.db.WithContext(ctx).Model(&entity.Course{}).
		Where("id = ?", course.ID).
		Select("code", "title", "credits", "department").
		Updates(course)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *courseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	var course entity.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *courseRepository) FindAll(ctx context.Context, department string) ([]*entity.Course, error) {
	var courses []*entity.Course
	query := r.db.WithContext(ctx).Order("code ASC")
	if department != "" {
		query = query.Where("department = ?", department)
	}
	if err := query.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Course{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
