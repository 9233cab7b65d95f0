package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/umalmyha/insurance-crm/internal/model"
	"github.com/umalmyha/insurance-crm/internal/repository"
)

// LearningService represents behavior of learning content service
type LearningService interface {
	Create(context.Context, *model.LearningContent) (*model.LearningContent, error)
	FindAll(context.Context, model.LearningContentType) ([]*model.LearningContent, error)
	DeleteByID(context.Context, string) error
}

type learningService struct {
	learningRps repository.LearningContentRepository
}

// NewLearningService builds new LearningService
func NewLearningService(learningRps repository.LearningContentRepository) LearningService {
	return &learningService{learningRps: learningRps}
}

func (s *learningService) Create(ctx context.Context, lc *model.LearningContent) (*model.LearningContent, error) {
	lc.ID = uuid.NewString()
	lc.CreatedAt = time.Now().UTC()

	if err := s.learningRps.Create(ctx, lc); err != nil {
		return nil, fmt.Errorf("failed to create learning content - %w", err)
	}
	return lc, nil
}

// FindAll returns content newest first, empty type means any type
func (s *learningService) FindAll(ctx context.Context, typ model.LearningContentType) ([]*model.LearningContent, error) {
	contents, err := s.learningRps.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read learning content - %w", err)
	}

	if typ == "" {
		return contents, nil
	}

	found := make([]*model.LearningContent, 0)
	for _, lc := range contents {
		if lc.Type == typ {
			found = append(found, lc)
		}
	}
	return found, nil
}

func (s *learningService) DeleteByID(ctx context.Context, id string) error {
	if err := s.learningRps.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete learning content %s - %w", id, err)
	}
	return nil
}
