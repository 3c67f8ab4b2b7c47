package repository

import (
	"context"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/pkg/apperror"
	"anoa.com/unimanage/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	msgStudentNotFound = "Student not found"
	msgStudentExists   = "A student with this registration number, email or account already exists"
	msgLinkedElsewhere = "Student profile is linked to another account"
)

type Filter struct {
	Department string
	Semester   int
}

type StudentRepository interface {
	Create(ctx context.Context, student *entity.Student) error
	Update(ctx context.Context, student *entity.Student) error
	// SaveLink persists student only while the stored row is unlinked or
	// already linked to student.UserID. Otherwise it returns a conflict.
	SaveLink(ctx context.Context, student *entity.Student) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Student, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Student, error)
	FindByEmail(ctx context.Context, email string) (*entity.Student, error)
	FindByRegNo(ctx context.Context, regNo string) (*entity.Student, error)
	FindAll(ctx context.Context, filter Filter) ([]*entity.Student, error)
	FindAllWithEmail(ctx context.Context) ([]*entity.Student, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func translate(err error) error {
	return database.TranslateError(err, msgStudentNotFound, msgStudentExists)
}

func (r *studentRepository) Create(ctx context.Context, student *entity.Student) error {
	return translate(r.db.WithContext(ctx).Create(student).Error)
}

var updatableColumns = []string{"user_id", "reg_no", "name", "email", "department", "semester"}

func (r *studentRepository) Update(ctx context.Context, student *entity.Student) error {
	res := r.db.WithContext(ctx).Model(&entity.Student{}).
		Where("id = ?", student.ID).
		Select(updatableColumns).
		Updates(student)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *studentRepository) SaveLink(ctx context.Context, student *entity.Student) error {
	if student.UserID == nil {
		return r.Update(ctx, student)
	}

	res := r.db.WithContext(ctx).Model(&entity.Student{}).
		Where("id = ? AND (user_id IS NULL OR user_id = ?)", student.ID, *student.UserID).
		Select(updatableColumns).
		Updates(student)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.Conflict(msgLinkedElsewhere)
	}
	return nil
}

func (r *studentRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Student, error) {
	var student entity.Student
	if err := r.db.WithContext(ctx).Where(query, args...).First(&student).Error; err != nil {
		return nil, translate(err)
	}
	return &student, nil
}

func (r *studentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Student, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *studentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Student, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *studentRepository) FindByEmail(ctx context.Context, email string) (*entity.Student, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *studentRepository) FindByRegNo(ctx context.Context, regNo string) (*entity.Student, error) {
	return r.findOne(ctx, "reg_no = ?", regNo)
}

func (r *studentRepository) FindAll(ctx context.Context, filter Filter) ([]*entity.Student, error) {
	var students []*entity.Student
	query := r.db.WithContext(ctx).Order("name ASC")
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Semester != 0 {
		query = query.Where("semester = ?", filter.Semester)
	}
	if err := query.Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) FindAllWithEmail(ctx context.Context) ([]*entity.Student, error) {
	var students []*entity.Student
	err := r.db.WithContext(ctx).
		Where("email IS NOT NULL AND email <> ''").
		Order("created_at ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Student{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Student{}).Count(&total).Error
	return total, err
}
