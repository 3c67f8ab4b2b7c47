package repository

import (
	"context"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgEnrollmentNotFound = "Enrollment not found"
	msgAlreadyEnrolled    = "Student already enrolled in this course"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *entity.Enrollment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Enrollment, error)
	// FindAll returns enrollments newest first; a nil studentID matches all.
	FindAll(ctx context.Context, studentID *uuid.UUID) ([]*entity.Enrollment, error)
	UpdateGrade(ctx context.Context, id uuid.UUID, grade string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func translate(err error) error {
	return database.TranslateError(err, msgEnrollmentNotFound, msgAlreadyEnrolled)
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *entity.Enrollment) error {
	return translate(r.db.WithContext(ctx).Omit("Student", "Course").Create(enrollment).Error)
}

func (r *enrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Enrollment, error) {
	var enrollment entity.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		First(&enrollment, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) FindAll(ctx context.Context, studentID *uuid.UUID) ([]*entity.Enrollment, error) {
	var enrollments []*entity.Enrollment
	query := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Order("created_at DESC")
	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}
	if err := query.Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) UpdateGrade(ctx context.Context, id uuid.UUID, grade string) error {
	res := r.db.WithContext(ctx).Model(&entity.Enrollment{}).
		Where("id = ?", id).
		Update("grade", grade)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Enrollment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
