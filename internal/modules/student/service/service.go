package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/internal/modules/student/dto"
	"anoa.com/unimanage/internal/modules/student/repository"
	"anoa.com/unimanage/pkg/apperror"
	"github.com/google/uuid"
)

// ProfileLinker attaches an approved student identity to its academic profile.
type ProfileLinker interface {
	LinkOrCreate(ctx context.Context, user *entity.User, input dto.LinkInput) (*entity.Student, error)
}

type StudentService interface {
	ProfileLinker
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*entity.Student, error)
	GetStudents(ctx context.Context, filter dto.StudentFilter) ([]*entity.Student, error)
	GetStudent(ctx context.Context, id uuid.UUID) (*entity.Student, error)
	// GetStudentForUser finds the profile linked to user, falling back to an
	// unlinked profile carrying the same email.
	GetStudentForUser(ctx context.Context, userID uuid.UUID, email string) (*entity.Student, error)
	UpdateStudent(ctx context.Context, id uuid.UUID, req dto.UpdateStudentRequest) (*entity.Student, error)
	DeleteStudent(ctx context.Context, id uuid.UUID) error
}

type studentService struct {
	repo repository.StudentRepository
}

func NewStudentService(repo repository.StudentRepository) StudentService {
	return &studentService{repo: repo}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *studentService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*entity.Student, error) {
	student := &entity.Student{
		Name:       strings.TrimSpace(req.Name),
		RegNo:      entity.StringPtr(strings.TrimSpace(req.RegNo)),
		Email:      entity.StringPtr(normalizeEmail(req.Email)),
		Department: strings.TrimSpace(req.Department),
		Semester:   req.Semester,
	}
	if student.Name == "" {
		return nil, apperror.Validation("Name is required")
	}
	if student.Semester == 0 {
		student.Semester = entity.MinSemester
	}
	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			return nil, apperror.Validation("user must be a valid id")
		}
		student.UserID = &userID
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *studentService) GetStudents(ctx context.Context, filter dto.StudentFilter) ([]*entity.Student, error) {
	return s.repo.FindAll(ctx, repository.Filter{
		Department: filter.Department,
		Semester:   filter.Semester,
	})
}

func (s *studentService) GetStudent(ctx context.Context, id uuid.UUID) (*entity.Student, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *studentService) GetStudentForUser(ctx context.Context, userID uuid.UUID, email string) (*entity.Student, error) {
	student, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	if email = normalizeEmail(email); email != "" {
		student, err = s.repo.FindByEmail(ctx, email)
		if err == nil && student.UserID == nil {
			return student, nil
		}
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
	}
	return nil, apperror.NotFound("Student profile not found")
}

func (s *studentService) UpdateStudent(ctx context.Context, id uuid.UUID, req dto.UpdateStudentRequest) (*entity.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("Name is required")
		}
		student.Name = name
	}
	if req.RegNo != nil {
		student.RegNo = entity.StringPtr(strings.TrimSpace(*req.RegNo))
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				return nil, apperror.Validation("Email must be a valid email")
			}
		}
		student.Email = entity.StringPtr(email)
	}
	if req.Department != nil {
		student.Department = strings.TrimSpace(*req.Department)
	}
	if req.Semester != nil {
		student.Semester = *req.Semester
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *studentService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
