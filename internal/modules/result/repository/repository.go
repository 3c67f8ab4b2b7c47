package repository

import (
	"context"
	"time"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgResultNotFound = "Result not found"
	msgResultExists   = "Result for this semester already uploaded"
	msgMarkNotFound   = "Internal mark not found"
)

type ResultRepository interface {
	CreatePDF(ctx context.Context, pdf *entity.ResultPDF) error
	FindPDF(ctx context.Context, studentID uuid.UUID, semester int) (*entity.ResultPDF, error)
	FindPDFsByStudent(ctx context.Context, studentID uuid.UUID) ([]*entity.ResultPDF, error)
	// UpsertMark inserts the mark or overwrites the existing one for the same
	// course and student, then returns the stored row with its course.
	UpsertMark(ctx context.Context, mark *entity.InternalMark) (*entity.InternalMark, error)
	FindMarksByStudent(ctx context.Context, studentID uuid.UUID) ([]*entity.InternalMark, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) CreatePDF(ctx context.Context, pdf *entity.ResultPDF) error {
	err := r.db.WithContext(ctx).Omit("Student").Create(pdf).Error
	return database.TranslateError(err, msgResultNotFound, msgResultExists)
}

func (r *resultRepository) FindPDF(ctx context.Context, studentID uuid.UUID, semester int) (*entity.ResultPDF, error) {
	var pdf entity.ResultPDF
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND semester = ?", studentID, semester).
		First(&pdf).Error
	if err != nil {
		return nil, database.TranslateError(err, msgResultNotFound, "")
	}
	return &pdf, nil
}

func (r *resultRepository) FindPDFsByStudent(ctx context.Context, studentID uuid.UUID) ([]*entity.ResultPDF, error) {
	var pdfs []*entity.ResultPDF
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&pdfs).Error
	if err != nil {
		return nil, err
	}
	return pdfs, nil
}

func (r *resultRepository) UpsertMark(ctx context.Context, mark *entity.InternalMark) (*entity.InternalMark, error) {
	mark.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).
		Omit("Course", "Student").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"marks", "updated_at"}),
		}).
		Create(mark).Error
	if err != nil {
		return nil, database.TranslateError(err, msgMarkNotFound, "")
	}

	var stored entity.InternalMark
	err = r.db.WithContext(ctx).
		Preload("Course").
		Where("course_id = ? AND student_id = ?", mark.CourseID, mark.StudentID).
		First(&stored).Error
	if err != nil {
		return nil, database.TranslateError(err, msgMarkNotFound, "")
	}
	return &stored, nil
}

func (r *resultRepository) FindMarksByStudent(ctx context.Context, studentID uuid.UUID) ([]*entity.InternalMark, error) {
	var marks []*entity.InternalMark
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&marks).Error
	if err != nil {
		return nil, err
	}
	return marks, nil
}
