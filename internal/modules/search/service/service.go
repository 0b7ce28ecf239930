package service

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/skillnest/internal/entity"
	"anoa.com/skillnest/internal/modules/search/dto"
	"anoa.com/skillnest/internal/modules/search/repository"
	"anoa.com/skillnest/pkg/apperror"
	"anoa.com/skillnest/pkg/logger"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	suggestLimit       = 5
)

type SearchService interface {
	Search(ctx context.Context, q string, limit int) (*dto.SearchResponse, error)
	Suggest(ctx context.Context, q string) ([]dto.SkillHit, error)
	Reindex(ctx context.Context) (int, error)
}

type searchService struct {
	repo    repository.SearchRepository
	indexer Indexer
	log     *logger.Logger
}

// NewSearchService serves queries from the indexer when one is given, otherwise from the database.
func NewSearchService(repo repository.SearchRepository, indexer Indexer, log *logger.Logger) SearchService {
	return &searchService{repo: repo, indexer: indexer, log: log}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

func (s *searchService) Search(ctx context.Context, q string, limit int) (*dto.SearchResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("query is required: %w", apperror.ErrBadRequest)
	}
	limit = clampLimit(limit)

	if s.indexer != nil {
		res, err := s.searchIndex(q, limit)
		if err == nil {
			return res, nil
		}
		s.log.Warn("search engine query failed, falling back to database", "error", err)
	}

	skills, err := s.repo.SearchSkills(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	resources, err := s.repo.SearchResources(ctx, q, limit)
	if err != nil {
		return nil, err
	}

	return &dto.SearchResponse{
		Query:     q,
		Skills:    skillHitsFromEntities(skills),
		Resources: resourceHitsFromEntities(resources),
		Source:    "database",
	}, nil
}

func (s *searchService) searchIndex(q string, limit int) (*dto.SearchResponse, error) {
	skills, err := s.indexer.SearchSkills(q, limit)
	if err != nil {
		return nil, err
	}
	resources, err := s.indexer.SearchResources(q, limit)
	if err != nil {
		return nil, err
	}

	res := &dto.SearchResponse{
		Query:     q,
		Skills:    make([]dto.SkillHit, 0, len(skills)),
		Resources: make([]dto.ResourceHit, 0, len(resources)),
		Source:    "meilisearch",
	}
	for _, d := range skills {
		res.Skills = append(res.Skills, dto.SkillHit{
			ID:           d.ID,
			Name:         d.Name,
			Slug:         d.Slug,
			Description:  d.Description,
			CategoryName: d.CategoryName,
		})
	}
	for _, d := range resources {
		res.Resources = append(res.Resources, dto.ResourceHit{
			ID:          d.ID,
			Title:       d.Title,
			Description: d.Description,
			URL:         d.URL,
			Type:        d.Type,
			Level:       d.Level,
			SkillName:   d.SkillName,
			SkillSlug:   d.SkillSlug,
		})
	}
	return res, nil
}

func (s *searchService) Suggest(ctx context.Context, q string) ([]dto.SkillHit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []dto.SkillHit{}, nil
	}

	if s.indexer != nil {
		docs, err := s.indexer.SearchSkills(q, suggestLimit)
		if err == nil {
			hits := make([]dto.SkillHit, 0, len(docs))
			for _, d := range docs {
				hits = append(hits, dto.SkillHit{ID: d.ID, Name: d.Name, Slug: d.Slug, CategoryName: d.CategoryName})
			}
			return hits, nil
		}
		s.log.Warn("search engine suggest failed, falling back to database", "error", err)
	}

	skills, err := s.repo.SearchSkills(ctx, q, suggestLimit)
	if err != nil {
		return nil, err
	}
	return skillHitsFromEntities(skills), nil
}

// Reindex rebuilds the search engine from approved skills and published resources.
func (s *searchService) Reindex(ctx context.Context) (int, error) {
	if s.indexer == nil {
		return 0, nil
	}

	skills, err := s.repo.ApprovedSkills(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load skills: %w", err)
	}
	resources, err := s.repo.PublishedResources(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load resources: %w", err)
	}

	if err := s.indexer.Clear(); err != nil {
		return 0, fmt.Errorf("failed to clear search indexes: %w", err)
	}

	indexed := 0
	for i := range skills {
		if err := s.indexer.IndexSkill(&skills[i]); err != nil {
			s.log.Warn("failed to index skill", "skill_id", skills[i].ID, "error", err)
			continue
		}
		indexed++
	}
	for i := range resources {
		if err := s.indexer.IndexResource(&resources[i]); err != nil {
			s.log.Warn("failed to index resource", "resource_id", resources[i].ID, "error", err)
			continue
		}
		indexed++
	}
	return indexed, nil
}

func skillHitsFromEntities(skills []entity.Skill) []dto.SkillHit {
	hits := make([]dto.SkillHit, 0, len(skills))
	for _, sk := range skills {
		hit := dto.SkillHit{
			ID:          sk.ID.String(),
			Name:        sk.Name,
			Slug:        sk.Slug,
			Description: sk.Description,
		}
		if sk.Category != nil {
			hit.CategoryName = sk.Category.Name
		}
		hits = append(hits, hit)
	}
	return hits
}

func resourceHitsFromEntities(resources []entity.Resource) []dto.ResourceHit {
	hits := make([]dto.ResourceHit, 0, len(resources))
	for _, r := range resources {
		hit := dto.ResourceHit{
			ID:          r.ID.String(),
			Title:       r.Title,
			Description: r.Description,
			URL:         r.URL,
			Type:        r.Type,
			Level:       r.Level,
		}
		if r.Skill != nil {
			hit.SkillName = r.Skill.Name
			hit.SkillSlug = r.Skill.Slug
		}
		hits = append(hits, hit)
	}
	return hits
}
