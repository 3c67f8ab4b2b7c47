package service

import (
	"context"
	"strings"

	"anoa.com/unimanage/internal/entity"
	courseRepo "anoa.com/unimanage/internal/modules/course/repository"
	"anoa.com/unimanage/internal/modules/enrollment/dto"
	"anoa.com/unimanage/internal/modules/enrollment/repository"
	studentRepo "anoa.com/unimanage/internal/modules/student/repository"
	studentService "anoa.com/unimanage/internal/modules/student/service"
	"anoa.com/unimanage/pkg/apperror"
	"github.com/google/uuid"
)

type EnrollmentService interface {
	// GetEnrollments lists everything for staff and only the caller's own
	// enrollments for students.
	GetEnrollments(ctx context.Context, userID uuid.UUID, role string) ([]*entity.Enrollment, error)
	CreateEnrollment(ctx context.Context, req dto.CreateEnrollmentRequest) (*entity.Enrollment, error)
	UpdateEnrollment(ctx context.Context, id uuid.UUID, req dto.UpdateEnrollmentRequest) (*entity.Enrollment, error)
	DeleteEnrollment(ctx context.Context, id uuid.UUID) error
}

type enrollmentService struct {
	repo     repository.EnrollmentRepository
	students studentRepo.StudentRepository
	courses  courseRepo.CourseRepository
	profiles studentService.CallerProfiles
}

func NewEnrollmentService(
	repo repository.EnrollmentRepository,
	students studentRepo.StudentRepository,
	courses courseRepo.CourseRepository,
	profiles studentService.CallerProfiles,
) EnrollmentService {
	return &enrollmentService{
		repo:     repo,
		students: students,
		courses:  courses,
		profiles: profiles,
	}
}

func (s *enrollmentService) GetEnrollments(ctx context.Context, userID uuid.UUID, role string) ([]*entity.Enrollment, error) {
	if role == entity.RoleAdmin || role == entity.RoleTeacher {
		return s.repo.FindAll(ctx, nil)
	}

	student, err := s.profiles.ProfileOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx, &student.ID)
}

func (s *enrollmentService) CreateEnrollment(ctx context.Context, req dto.CreateEnrollmentRequest) (*entity.Enrollment, error) {
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return nil, apperror.Validation("student must be a valid id")
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return nil, apperror.Validation("course must be a valid id")
	}

	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, err
	}

	enrollment := &entity.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, enrollment.ID)
}

func (s *enrollmentService) UpdateEnrollment(ctx context.Context, id uuid.UUID, req dto.UpdateEnrollmentRequest) (*entity.Enrollment, error) {
	if err := s.repo.UpdateGrade(ctx, id, strings.TrimSpace(req.Grade)); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *enrollmentService) DeleteEnrollment(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
