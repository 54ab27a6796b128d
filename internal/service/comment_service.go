package service

import (
	"context"

	"github.com/xxxsen/imgwall/internal/model"
	appErr "github.com/xxxsen/imgwall/internal/pkg/errors"
	"github.com/xxxsen/imgwall/internal/pkg/timeutil"
	"github.com/xxxsen/imgwall/internal/repo"
)

type CommentService struct {
	comments *repo.CommentRepo
}

func NewCommentService(comments *repo.CommentRepo) *CommentService {
	return &CommentService{comments: comments}
}

func (s *CommentService) Create(ctx context.Context, user, text string) (*model.Comment, error) {
	comment := &model.Comment{
		ID:      newID(),
		User:    user,
		Comment: text,
		Ctime:   timeutil.NowUnix(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) List(ctx context.Context) ([]model.Comment, error) {
	return s.comments.ListAll(ctx)
}

func (s *CommentService) Delete(ctx context.Context, id string) error {
	if _, err := s.comments.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.comments.DeleteByID(ctx, id); err != nil && !appErr.IsNotFound(err) {
		return err
	}
	return nil
}
