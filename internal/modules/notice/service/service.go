package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/internal/modules/notice/dto"
	"anoa.com/unimanage/internal/modules/notice/repository"
	searchService "anoa.com/unimanage/internal/modules/search/service"
	"anoa.com/unimanage/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
)

// FeedLimit caps the notice listing.
const FeedLimit = 50

// ChannelFor names the redis channel notices for audience are published on.
func ChannelFor(audience string) string {
	return "notices:" + audience
}

// ChannelsFor lists the channels a role should subscribe to.
func ChannelsFor(role string) []string {
	audiences := entity.AudiencesFor(role)
	channels := make([]string, len(audiences))
	for i, a := range audiences {
		channels[i] = ChannelFor(a)
	}
	return channels
}

type NoticeService interface {
	GetNotices(ctx context.Context, role string) ([]*entity.Notice, error)
	CreateNotice(ctx context.Context, userID uuid.UUID, req dto.CreateNoticeRequest) (*entity.Notice, error)
	UpdateNotice(ctx context.Context, id uuid.UUID, req dto.UpdateNoticeRequest) (*entity.Notice, error)
	DeleteNotice(ctx context.Context, id uuid.UUID) error
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type noticeService struct {
	repo      repository.NoticeRepository
	publisher publisher
	search    searchService.SearchService
	body      *bluemonday.Policy
	title     *bluemonday.Policy
	now       func() time.Time
}

// NewNoticeService publishes new notices on redis when redisClient is non-nil.
func NewNoticeService(repo repository.NoticeRepository, redisClient *redis.Client, search searchService.SearchService) NoticeService {
	s := &noticeService{
		repo:   repo,
		search: search,
		body:   bluemonday.UGCPolicy(),
		title:  bluemonday.StrictPolicy(),
		now:    time.Now,
	}
	if redisClient != nil {
		s.publisher = redisClient
	}
	return s
}

func (s *noticeService) GetNotices(ctx context.Context, role string) ([]*entity.Notice, error) {
	var audiences []string
	if role != entity.RoleAdmin {
		audiences = entity.AudiencesFor(role)
	}
	return s.repo.FindLatest(ctx, audiences, FeedLimit)
}

func (s *noticeService) CreateNotice(ctx context.Context, userID uuid.UUID, req dto.CreateNoticeRequest) (*entity.Notice, error) {
	notice := &entity.Notice{
		Title:       strings.TrimSpace(s.title.Sanitize(req.Title)),
		Body:        strings.TrimSpace(s.body.Sanitize(req.Body)),
		Audience:    req.Audience,
		PublishedAt: s.now(),
		CreatedBy:   &userID,
	}
	if notice.Audience == "" {
		notice.Audience = entity.AudienceAll
	}
	if req.PublishedAt != nil {
		notice.PublishedAt = *req.PublishedAt
	}
	if notice.Title == "" || notice.Body == "" {
		return nil, apperror.Validation("Title and body are required")
	}

	if err := s.repo.Create(ctx, notice); err != nil {
		return nil, err
	}

	s.publish(ctx, notice)
	s.index(notice)
	return notice, nil
}

func (s *noticeService) UpdateNotice(ctx context.Context, id uuid.UUID, req dto.UpdateNoticeRequest) (*entity.Notice, error) {
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		notice.Title = strings.TrimSpace(s.title.Sanitize(*req.Title))
	}
	if req.Body != nil {
		notice.Body = strings.TrimSpace(s.body.Sanitize(*req.Body))
	}
	if req.Audience != nil {
		notice.Audience = *req.Audience
	}
	if req.PublishedAt != nil {
		notice.PublishedAt = *req.PublishedAt
	}
	if notice.Title == "" || notice.Body == "" {
		return nil, apperror.Validation("Title and body are required")
	}

	if err := s.repo.Update(ctx, notice); err != nil {
		return nil, err
	}

	s.index(notice)
	return notice, nil
}

func (s *noticeService) DeleteNotice(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.search.DeleteNotice(id.String()); err != nil {
		log.Printf("[Notice] failed to remove %s from search: %v", id, err)
	}
	return nil
}

func (s *noticeService) publish(ctx context.Context, notice *entity.Notice) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, ChannelFor(notice.Audience), payload).Err(); err != nil {
		log.Printf("[Notice] failed to publish %s: %v", notice.ID, err)
	}
}

func (s *noticeService) index(notice *entity.Notice) {
	if err := s.search.IndexNotice(notice); err != nil {
		log.Printf("[Notice] failed to index %s: %v", notice.ID, err)
	}
}
