package service

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/pkg/logger"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const (
	skillsIndex    = "skills"
	resourcesIndex = "resources"
	signerKeyName  = "SkillNestTenantTokenSigner"
)

// Indexer keeps the search engine in step with approved skills and published resources.
type Indexer interface {
	IndexSkill(skill *entity.Skill) error
	DeleteSkill(id string) error
	IndexResource(resource *entity.Resource) error
	DeleteResource(id string) error
	DeleteResources(ids []string) error
	// Clear empties both indexes ahead of a full reindex.
	Clear() error
	GenerateSearchToken() (string, error)
	SearchSkills(q string, limit int) ([]SkillDoc, error)
	SearchResources(q string, limit int) ([]ResourceDoc, error)
}

type meiliIndexer struct {
	client        meilisearch.ServiceManager
	signingKeyUID string
	signingKey    string
	sanitizer     *bluemonday.Policy
	log           *logger.Logger
}

func NewMeiliIndexer(client meilisearch.ServiceManager, log *logger.Logger) Indexer {
	s := &meiliIndexer{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *meiliIndexer) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{Limit: 20})
	if err != nil {
		s.log.Warn("failed to list meilisearch keys", "error", err)
		return
	}

	for _, key := range resp.Results {
		if key.Name == signerKeyName {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			return
		}
	}

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Signs tenant tokens for the public search box",
		Name:        signerKeyName,
		Actions:     []string{"search"},
		Indexes:     []string{skillsIndex, resourcesIndex},
		ExpiresAt:   time.Now().AddDate(100, 0, 0),
	})
	if err != nil {
		s.log.Warn("failed to create meilisearch signing key", "error", err)
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
	s.log.Info("created meilisearch signing key")
}

func (s *meiliIndexer) initIndexes() {
	indexes := map[string]struct {
		filterable []string
		sortable   []string
		searchable []string
	}{
		skillsIndex: {
			filterable: []string{"status", "category_name"},
			sortable:   []string{"name"},
			searchable: []string{"name", "description", "category_name"},
		},
		resourcesIndex: {
			filterable: []string{"status", "skill_slug", "type", "level"},
			sortable:   []string{"created_at", "views"},
			searchable: []string{"title", "description", "skill_name", "author"},
		},
	}

	for uid, attrs := range indexes {
		filterable := make([]any, len(attrs.filterable))
		for i, v := range attrs.filterable {
			filterable[i] = v
		}
		if _, err := s.client.Index(uid).UpdateFilterableAttributes(&filterable); err != nil {
			s.log.Warn("failed to update filterable attributes", "index", uid, "error", err)
		}
		if _, err := s.client.Index(uid).UpdateSortableAttributes(&attrs.sortable); err != nil {
			s.log.Warn("failed to update sortable attributes", "index", uid, "error", err)
		}
		if _, err := s.client.Index(uid).UpdateSearchableAttributes(&attrs.searchable); err != nil {
			s.log.Warn("failed to update searchable attributes", "index", uid, "error", err)
		}
	}
}

type SkillDoc struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	CategoryName string `json:"category_name"`
	Status       string `json:"status"`
}

type ResourceDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Type        string `json:"type"`
	Level       string `json:"level"`
	SkillName   string `json:"skill_name"`
	SkillSlug   string `json:"skill_slug"`
	Author      string `json:"author"`
	Status      string `json:"status"`
	Views       int    `json:"views"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *meiliIndexer) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliIndexer) IndexSkill(skill *entity.Skill) error {
	doc := SkillDoc{
		ID:          skill.ID.String(),
		Name:        skill.Name,
		Slug:        skill.Slug,
		Description: s.cleanContentForIndex(skill.Description),
		Status:      skill.Status,
	}
	if skill.Category != nil {
		doc.CategoryName = skill.Category.Name
	}

	task, err := s.client.Index(skillsIndex).AddDocuments([]SkillDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	s.log.Debug("indexed skill", "skill_id", skill.ID, "task_uid", task.TaskUID)
	return nil
}

func (s *meiliIndexer) IndexResource(resource *entity.Resource) error {
	doc := ResourceDoc{
		ID:          resource.ID.String(),
		Title:       resource.Title,
		Description: s.cleanContentForIndex(resource.Description),
		URL:         resource.URL,
		Type:        resource.Type,
		Level:       resource.Level,
		Status:      resource.Status,
		Views:       resource.Views,
		CreatedAt:   resource.CreatedAt.Unix(),
	}
	if resource.Skill != nil {
		doc.SkillName = resource.Skill.Name
		doc.SkillSlug = resource.Skill.Slug
	}
	if resource.User != nil && resource.User.Profile != nil {
		doc.Author = resource.User.Profile.FullName
	}

	task, err := s.client.Index(resourcesIndex).AddDocuments([]ResourceDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	s.log.Debug("indexed resource", "resource_id", resource.ID, "task_uid", task.TaskUID)
	return nil
}

func (s *meiliIndexer) DeleteSkill(id string) error {
	_, err := s.client.Index(skillsIndex).DeleteDocument(id)
	return err
}

func (s *meiliIndexer) DeleteResource(id string) error {
	_, err := s.client.Index(resourcesIndex).DeleteDocument(id)
	return err
}

func (s *meiliIndexer) DeleteResources(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.client.Index(resourcesIndex).DeleteDocuments(ids)
	return err
}

// Tasks run in enqueue order per index, so documents added after Clear survive it.
func (s *meiliIndexer) Clear() error {
	for _, uid := range []string{skillsIndex, resourcesIndex} {
		if _, err := s.client.Index(uid).DeleteAllDocuments(); err != nil {
			return fmt.Errorf("clear index %s: %w", uid, err)
		}
	}
	return nil
}

// GenerateSearchToken issues a tenant token that only sees approved skills and published resources.
func (s *meiliIndexer) GenerateSearchToken() (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	searchRules := map[string]any{
		skillsIndex:    map[string]any{"filter": "status = 'approved'"},
		resourcesIndex: map[string]any{"filter": "status = 'published'"},
	}

	return s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
}

func (s *meiliIndexer) SearchSkills(q string, limit int) ([]SkillDoc, error) {
	var out struct {
		Hits []SkillDoc `json:"hits"`
	}
	if err := s.searchRaw(skillsIndex, q, "status = 'approved'", limit, &out); err != nil {
		return nil, err
	}
	return out.Hits, nil
}

func (s *meiliIndexer) SearchResources(q string, limit int) ([]ResourceDoc, error) {
	var out struct {
		Hits []ResourceDoc `json:"hits"`
	}
	if err := s.searchRaw(resourcesIndex, q, "status = 'published'", limit, &out); err != nil {
		return nil, err
	}
	return out.Hits, nil
}

func (s *meiliIndexer) searchRaw(index, q, filter string, limit int, out any) error {
	raw, err := s.client.Index(index).SearchRaw(q, &meilisearch.SearchRequest{
		Limit:  int64(limit),
		Filter: filter,
	})
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	return json.Unmarshal(*raw, out)
}

func strPtr(s string) *string {
	return &s
}
