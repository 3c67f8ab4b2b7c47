package service

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"anoa.com/unimanage/internal/entity"
	courseRepo "anoa.com/unimanage/internal/modules/course/repository"
	"anoa.com/unimanage/internal/modules/material/dto"
	"anoa.com/unimanage/internal/modules/material/repository"
	searchService "anoa.com/unimanage/internal/modules/search/service"
	"anoa.com/unimanage/pkg/apperror"
	"anoa.com/unimanage/pkg/storage"
	"github.com/google/uuid"
)

const (
	UploadFolder = "materials"
	DefaultTitle = "Material"
)

type MaterialService interface {
	GetMaterials(ctx context.Context, courseID uuid.UUID) ([]*entity.Material, error)
	// CreateMaterial stores file when it is non-nil and records the material
	// against the course.
	CreateMaterial(ctx context.Context, courseID, userID uuid.UUID, req dto.CreateMaterialRequest, file *storage.File) (*entity.Material, error)
	DeleteMaterial(ctx context.Context, courseID, id uuid.UUID) error
}

type materialService struct {
	repo    repository.MaterialRepository
	courses courseRepo.CourseRepository
	storage storage.FileStorage
	search  searchService.SearchService
}

func NewMaterialService(
	repo repository.MaterialRepository,
	courses courseRepo.CourseRepository,
	fileStorage storage.FileStorage,
	search searchService.SearchService,
) MaterialService {
	return &materialService{
		repo:    repo,
		courses: courses,
		storage: fileStorage,
		search:  search,
	}
}

// InferType picks the material type: uploads are classified by extension,
// otherwise the requested type wins, then link when a URL is given, then text.
func InferType(fileName string, hasFile bool, requested, url string) string {
	if hasFile {
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".pdf":
			return entity.MaterialPDF
		case ".png", ".jpg", ".jpeg", ".gif":
			return entity.MaterialImage
		}
		return entity.MaterialFile
	}
	if requested != "" {
		return requested
	}
	if url != "" {
		return entity.MaterialLink
	}
	return entity.MaterialText
}

func (s *materialService) GetMaterials(ctx context.Context, courseID uuid.UUID) ([]*entity.Material, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.repo.FindByCourse(ctx, courseID)
}

func (s *materialService) CreateMaterial(ctx context.Context, courseID, userID uuid.UUID, req dto.CreateMaterialRequest, file *storage.File) (*entity.Material, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	hasFile := file != nil
	material := &entity.Material{
		CourseID:  courseID,
		Title:     strings.TrimSpace(req.Title),
		URL:       strings.TrimSpace(req.URL),
		Note:      strings.TrimSpace(req.Note),
		CreatedBy: &userID,
	}

	var fileName string
	if hasFile {
		fileName = filepath.Base(file.Name)
	}
	material.Type = InferType(fileName, hasFile, req.Type, material.URL)
	if !entity.IsValidMaterialType(material.Type) {
		return nil, apperror.Validation("Invalid material type")
	}

	if material.Title == "" {
		material.Title = DefaultTitle
		if hasFile && fileName != "" && fileName != "." {
			material.Title = fileName
		}
	}

	if hasFile {
		if s.storage == nil {
			return nil, apperror.Validation("File uploads are not enabled")
		}
		path, err := s.storage.Upload(ctx, file.Content, UploadFolder, fileName)
		if err != nil {
			return nil, err
		}
		material.FilePath = path
	}

	if err := s.repo.Create(ctx, material); err != nil {
		if material.FilePath != "" {
			if delErr := s.storage.Delete(ctx, material.FilePath); delErr != nil {
				log.Printf("[Material] failed to clean up %s: %v", material.FilePath, delErr)
			}
		}
		return nil, err
	}

	if err := s.search.IndexMaterial(material, course); err != nil {
		log.Printf("[Material] failed to index %s: %v", material.ID, err)
	}
	return material, nil
}

func (s *materialService) DeleteMaterial(ctx context.Context, courseID, id uuid.UUID) error {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if material.CourseID != courseID {
		return apperror.NotFound("Material not found")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if material.FilePath != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, material.FilePath); err != nil {
			log.Printf("[Material] failed to delete file %s: %v", material.FilePath, err)
		}
	}
	if err := s.search.DeleteMaterial(id.String()); err != nil {
		log.Printf("[Material] failed to remove %s from search: %v", id, err)
	}
	return nil
}
