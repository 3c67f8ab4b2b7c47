package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/internal/modules/search/dto"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const (
	NoticesIndex   = "notices"
	MaterialsIndex = "materials"

	DefaultLimit = 20
	MaxLimit     = 100
)

type SearchService interface {
	IndexNotice(notice *entity.Notice) error
	DeleteNotice(id string) error
	IndexMaterial(material *entity.Material, course *entity.Course) error
	DeleteMaterial(id string) error
	Search(ctx context.Context, role, query string, limit int) (*dto.SearchResponse, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

// NewSearchService returns a service that indexes nothing and finds nothing
// when client is nil.
func NewSearchService(client meilisearch.ServiceManager) SearchService {
	if client == nil {
		log.Println("WARNING: Meilisearch is not configured, search is disabled")
		return disabledSearch{}
	}

	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	noticeFilterable := []any{"audience"}
	if _, err := s.client.Index(NoticesIndex).UpdateFilterableAttributes(&noticeFilterable); err != nil {
		log.Printf("Failed to update notices filterable attributes: %v", err)
	}
	noticeSortable := []string{"publishedAt"}
	if _, err := s.client.Index(NoticesIndex).UpdateSortableAttributes(&noticeSortable); err != nil {
		log.Printf("Failed to update notices sortable attributes: %v", err)
	}

	materialFilterable := []any{"courseId", "type"}
	if _, err := s.client.Index(MaterialsIndex).UpdateFilterableAttributes(&materialFilterable); err != nil {
		log.Printf("Failed to update materials filterable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

// cleanText flattens HTML into a single line of plain text for indexing.
func cleanText(policy *bluemonday.Policy, content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	text := html.UnescapeString(policy.Sanitize(content))
	return strings.Join(strings.Fields(text), " ")
}

func noticeDoc(policy *bluemonday.Policy, n *entity.Notice) dto.NoticeHit {
	return dto.NoticeHit{
		ID:          n.ID.String(),
		Title:       cleanText(policy, n.Title),
		Body:        cleanText(policy, n.Body),
		Audience:    n.Audience,
		PublishedAt: n.PublishedAt.Unix(),
	}
}

func materialDoc(policy *bluemonday.Policy, m *entity.Material, course *entity.Course) dto.MaterialHit {
	doc := dto.MaterialHit{
		ID:        m.ID.String(),
		CourseID:  m.CourseID.String(),
		Title:     cleanText(policy, m.Title),
		Type:      m.Type,
		URL:       m.URL,
		Note:      cleanText(policy, m.Note),
		CreatedAt: m.CreatedAt.Unix(),
	}
	if doc.URL == "" {
		doc.URL = m.FilePath
	}
	if course != nil {
		doc.CourseCode = course.Code
		doc.CourseTitle = course.Title
	}
	return doc
}

// audienceFilter restricts notice hits to what role may read; admins are
// unrestricted.
func audienceFilter(role string) string {
	if role == entity.RoleAdmin {
		return ""
	}
	quoted := make([]string, 0, 2)
	for _, a := range entity.AudiencesFor(role) {
		quoted = append(quoted, fmt.Sprintf("%q", a))
	}
	return fmt.Sprintf("audience IN [%s]", strings.Join(quoted, ", "))
}

func normalizeLimit(limit int) int64 {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return int64(limit)
}

func (s *meiliSearchService) IndexNotice(notice *entity.Notice) error {
	doc := noticeDoc(s.sanitizer, notice)
	task, err := s.client.Index(NoticesIndex).AddDocuments([]dto.NoticeHit{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed notice %s, task id: %d", notice.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteNotice(id string) error {
	_, err := s.client.Index(NoticesIndex).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) IndexMaterial(material *entity.Material, course *entity.Course) error {
	doc := materialDoc(s.sanitizer, material, course)
	task, err := s.client.Index(MaterialsIndex).AddDocuments([]dto.MaterialHit{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed material %s, task id: %d", material.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteMaterial(id string) error {
	_, err := s.client.Index(MaterialsIndex).DeleteDocument(id)
	return err
}

type rawHits struct {
	Hits []json.RawMessage `json:"hits"`
}

func decodeHits[T any](raw *json.RawMessage) ([]T, error) {
	out := []T{}
	if raw == nil {
		return out, nil
	}
	var envelope rawHits
	if err := json.Unmarshal(*raw, &envelope); err != nil {
		return nil, err
	}
	for _, hit := range envelope.Hits {
		var doc T
		if err := json.Unmarshal(hit, &doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *meiliSearchService) Search(ctx context.Context, role, query string, limit int) (*dto.SearchResponse, error) {
	query = strings.TrimSpace(query)
	resp := &dto.SearchResponse{Query: query, Notices: []dto.NoticeHit{}, Materials: []dto.MaterialHit{}}
	if query == "" {
		return resp, nil
	}

	noticeReq := &meilisearch.SearchRequest{Limit: normalizeLimit(limit)}
	if filter := audienceFilter(role); filter != "" {
		noticeReq.Filter = filter
	}
	raw, err := s.client.Index(NoticesIndex).SearchRaw(query, noticeReq)
	if err != nil {
		return nil, fmt.Errorf("search notices: %w", err)
	}
	if resp.Notices, err = decodeHits[dto.NoticeHit](raw); err != nil {
		return nil, fmt.Errorf("decode notice hits: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err = s.client.Index(MaterialsIndex).SearchRaw(query, &meilisearch.SearchRequest{Limit: normalizeLimit(limit)})
	if err != nil {
		return nil, fmt.Errorf("search materials: %w", err)
	}
	if resp.Materials, err = decodeHits[dto.MaterialHit](raw); err != nil {
		return nil, fmt.Errorf("decode material hits: %w", err)
	}

	return resp, nil
}

func strPtr(s string) *string {
	return &s
}

type disabledSearch struct{}

func (disabledSearch) IndexNotice(*entity.Notice) error                      { return nil }
func (disabledSearch) DeleteNotice(string) error                             { return nil }
func (disabledSearch) IndexMaterial(*entity.Material, *entity.Course) error { return nil }
func (disabledSearch) DeleteMaterial(string) error                           { return nil }

func (disabledSearch) Search(ctx context.Context, role, query string, limit int) (*dto.SearchResponse, error) {
	return &dto.SearchResponse{
		Query:     strings.TrimSpace(query),
		Notices:   []dto.NoticeHit{},
		Materials: []dto.MaterialHit{},
	}, nil
}
