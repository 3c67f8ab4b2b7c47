package service

import (
	"context"
	"strings"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/internal/modules/course/dto"
	"anoa.com/unimanage/internal/modules/course/repository"
	"anoa.com/unimanage/pkg/apperror"
	"github.com/google/uuid"
)

type CourseService interface {
	CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*entity.Course, error)
	GetCourses(ctx context.Context, filter dto.CourseFilter) ([]*entity.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*entity.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, req dto.UpdateCourseRequest) (*entity.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

type courseService struct {
	repo repository.CourseRepository
}

func NewCourseService(repo repository.CourseRepository) CourseService {
	return &courseService{repo: repo}
}

// normalizeCode upper-cases course codes so "cse101" and "CSE101" collide.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *courseService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*entity.Course, error) {
	course := &entity.Course{
		Code:       normalizeCode(req.Code),
		Title:      strings.TrimSpace(req.Title),
		Credits:    entity.DefaultCredits,
		Department: strings.TrimSpace(req.Department),
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if course.Code == "" || course.Title == "" || course.Department == "" {
		return nil, apperror.Validation("code, title and department are required")
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) GetCourses(ctx context.Context, filter dto.CourseFilter) ([]*entity.Course, error) {
	return s.repo.FindAll(ctx, strings.TrimSpace(filter.Department))
}

func (s *courseService) GetCourse(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *courseService) UpdateCourse(ctx context.Context, id uuid.UUID, req dto.UpdateCourseRequest) (*entity.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		course.Code = normalizeCode(*req.Code)
	}
	if req.Title != nil {
		course.Title = strings.TrimSpace(*req.Title)
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.Department != nil {
		course.Department = strings.TrimSpace(*req.Department)
	}
	if course.Code == "" || course.Title == "" || course.Department == "" {
		return nil, apperror.Validation("code, title and department are required")
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
