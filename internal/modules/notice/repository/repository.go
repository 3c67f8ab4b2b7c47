package repository

import (
	"context"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const msgNoticeNotFound = "Notice not found"

type NoticeRepository interface {
	Create(ctx context.Context, notice *entity.Notice) error
	Update(ctx context.Context, notice *entity.Notice) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Notice, error)
	// FindLatest returns up to limit notices, newest first. A nil audiences
	// slice means every audience.
	FindLatest(ctx context.Context, audiences []string, limit int) ([]*entity.Notice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type noticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func translate(err error) error {
	return database.TranslateError(err, msgNoticeNotFound, "")
}

func (r *noticeRepository) Create(ctx context.Context, notice *entity.Notice) error {
	return translate(r.db.WithContext(ctx).Create(notice).Error)
}

func (r *noticeRepository) Update(ctx context.Context, notice *entity.Notice) error {
	res := r.db.WithContext(ctx).Model(&entity.Notice{}).
		Where("id = ?", notice.ID).
		Select("title", "body", "audience", "published_at").
		Updates(notice)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *noticeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notice, error) {
	var notice entity.Notice
	if err := r.db.WithContext(ctx).First(&notice, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &notice, nil
}

func (r *noticeRepository) FindLatest(ctx context.Context, audiences []string, limit int) ([]*entity.Notice, error) {
	var notices []*entity.Notice
	query := r.db.WithContext(ctx).Order("published_at DESC, created_at DESC").Limit(limit)
	if audiences != nil {
		query = query.Where("audience IN ?", audiences)
	}
	if err := query.Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *noticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entity.Notice{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
