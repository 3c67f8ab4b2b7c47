package service

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"strings"

	"anoa.com/unimanage/internal/entity"
	courseRepo "anoa.com/unimanage/internal/modules/course/repository"
	"anoa.com/unimanage/internal/modules/result/dto"
	"anoa.com/unimanage/internal/modules/result/repository"
	studentRepo "anoa.com/unimanage/internal/modules/student/repository"
	studentService "anoa.com/unimanage/internal/modules/student/service"
	"anoa.com/unimanage/pkg/apperror"
	"anoa.com/unimanage/pkg/storage"
	"github.com/google/uuid"
)

const UploadFolder = "results"

var errResultExists = apperror.Conflict("Result for this semester already uploaded")

type ResultService interface {
	UploadResult(ctx context.Context, req dto.UploadResultRequest, file *storage.File) (*entity.ResultPDF, error)
	UpsertMark(ctx context.Context, req dto.UpsertMarkRequest) (*entity.InternalMark, error)
	// GetMyResults resolves the caller's profile and returns its marks and sheets.
	GetMyResults(ctx context.Context, userID uuid.UUID) (*dto.StudentResultsResponse, error)
	GetStudentPDFs(ctx context.Context, studentID uuid.UUID) ([]*entity.ResultPDF, error)
	GetStudentMarks(ctx context.Context, studentID uuid.UUID) ([]*entity.InternalMark, error)
}

type resultService struct {
	repo     repository.ResultRepository
	students studentRepo.StudentRepository
	courses  courseRepo.CourseRepository
	profiles studentService.CallerProfiles
	storage  storage.FileStorage
}

func NewResultService(
	repo repository.ResultRepository,
	students studentRepo.StudentRepository,
	courses courseRepo.CourseRepository,
	profiles studentService.CallerProfiles,
	fileStorage storage.FileStorage,
) ResultService {
	return &resultService{
		repo:     repo,
		students: students,
		courses:  courses,
		profiles: profiles,
		storage:  fileStorage,
	}
}

func (s *resultService) UploadResult(ctx context.Context, req dto.UploadResultRequest, file *storage.File) (*entity.ResultPDF, error) {
	if file == nil {
		return nil, apperror.Validation("File is required")
	}
	if !strings.EqualFold(filepath.Ext(file.Name), ".pdf") {
		return nil, apperror.Validation("Result sheet must be a PDF")
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return nil, apperror.Validation("Student must be a valid id")
	}
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}

	if req.Semester != nil {
		_, err := s.repo.FindPDF(ctx, studentID, *req.Semester)
		switch {
		case err == nil:
			return nil, errResultExists
		case !errors.Is(err, apperror.ErrNotFound):
			return nil, err
		}
	}

	if s.storage == nil {
		return nil, apperror.Validation("File uploads are not enabled")
	}
	path, err := s.storage.Upload(ctx, file.Content, UploadFolder, filepath.Base(file.Name))
	if err != nil {
		return nil, err
	}

	pdf := &entity.ResultPDF{
		StudentID: studentID,
		Semester:  req.Semester,
		FilePath:  path,
		Note:      strings.TrimSpace(req.Note),
	}
	if err := s.repo.CreatePDF(ctx, pdf); err != nil {
		if delErr := s.storage.Delete(ctx, path); delErr != nil {
			log.Printf("[Result] failed to clean up %s: %v", path, delErr)
		}
		return nil, err
	}
	return pdf, nil
}

func (s *resultService) UpsertMark(ctx context.Context, req dto.UpsertMarkRequest) (*entity.InternalMark, error) {
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return nil, apperror.Validation("Course must be a valid id")
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return nil, apperror.Validation("Student must be a valid id")
	}
	if req.Marks == nil {
		return nil, apperror.Validation("Marks is required")
	}

	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, err
	}
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}

	return s.repo.UpsertMark(ctx, &entity.InternalMark{
		CourseID:  courseID,
		StudentID: studentID,
		Marks:     *req.Marks,
	})
}

func (s *resultService) GetMyResults(ctx context.Context, userID uuid.UUID) (*dto.StudentResultsResponse, error) {
	student, err := s.profiles.ProfileOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	marks, err := s.repo.FindMarksByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	pdfs, err := s.repo.FindPDFsByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	return &dto.StudentResultsResponse{Student: student, Marks: marks, PDFs: pdfs}, nil
}

func (s *resultService) GetStudentPDFs(ctx context.Context, studentID uuid.UUID) ([]*entity.ResultPDF, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.repo.FindPDFsByStudent(ctx, studentID)
}

func (s *resultService) GetStudentMarks(ctx context.Context, studentID uuid.UUID) ([]*entity.InternalMark, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.repo.FindMarksByStudent(ctx, studentID)
}
