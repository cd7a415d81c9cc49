package service

import (
	"context"
	"errors"
	"time"

	"kbchat/internal/dto"
	"kbchat/internal/models"
	"kbchat/internal/repository"

	"go.uber.org/zap"
)

var ErrKnowledgeNotFound = errors.New("knowledge entry not found")

// KnowledgeService backs the admin CRUD surface over the corpus. The
// retrieval engine reads the same repository directly; edits made here
// become visible on the next query's snapshot.
type KnowledgeService struct {
	knowledgeRepo *repository.KnowledgeRepository
	logger        *zap.Logger
}

func NewKnowledgeService(knowledgeRepo *repository.KnowledgeRepository, logger *zap.Logger) *KnowledgeService {
	return &KnowledgeService{
		knowledgeRepo: knowledgeRepo,
		logger:        logger,
	}
}

func (s *KnowledgeService) List(ctx context.Context) ([]*dto.KnowledgeResponse, error) {
	docs, err := s.knowledgeRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.KnowledgeResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, toKnowledgeResponse(doc))
	}

	return responses, nil
}

func (s *KnowledgeService) Create(ctx context.Context, req *dto.KnowledgeCreateRequest) (*dto.KnowledgeResponse, error) {
	now := time.Now()
	doc := &models.Knowledge{
		Title:     req.Title,
		Content:   req.Content,
		Keywords:  req.Keywords,
		Intent:    req.Intent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.knowledgeRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("Knowledge entry created",
		zap.Int64("id", doc.ID),
		zap.String("title", doc.Title),
	)

	return toKnowledgeResponse(doc), nil
}

func (s *KnowledgeService) Update(ctx context.Context, id int64, req *dto.KnowledgeUpdateRequest) (*dto.KnowledgeResponse, error) {
	doc, err := s.knowledgeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrKnowledgeNotFound
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Content != nil {
		doc.Content = *req.Content
	}
	if req.Keywords != nil {
		doc.Keywords = *req.Keywords
	}
	if req.Intent != nil {
		doc.Intent = *req.Intent
	}
	doc.UpdatedAt = time.Now()

	if err := s.knowledgeRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	return toKnowledgeResponse(doc), nil
}

func (s *KnowledgeService) Delete(ctx context.Context, id int64) error {
	found, err := s.knowledgeRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrKnowledgeNotFound
	}
	return nil
}

func toKnowledgeResponse(doc *models.Knowledge) *dto.KnowledgeResponse {
	return &dto.KnowledgeResponse{
		ID:       doc.ID,
		Title:    doc.Title,
		Content:  doc.Content,
		Keywords: doc.Keywords,
		Intent:   doc.Intent,
	}
}
