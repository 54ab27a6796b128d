package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/imgwall/internal/model"
	appErr "github.com/xxxsen/imgwall/internal/pkg/errors"
)

var commentFields = []string{"id", "user", "comment", "ctime"}

type CommentRepo struct {
	db *sqlx.DB
}

func NewCommentRepo(db *sqlx.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	sqlStr, args, err := builder.BuildInsert("comments", []map[string]interface{}{{
		"id":      comment.ID,
		"user":    comment.User,
		"comment": comment.Comment,
		"ctime":   comment.Ctime,
	}})
	if err != nil {
		return fmt.Errorf("%w: build insert: %v", appErr.ErrPersistence, err)
	}
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("%w: insert comment: %v", appErr.ErrPersistence, err)
	}
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	sqlStr, args, err := builder.BuildSelect("comments", map[string]interface{}{"id": id}, commentFields)
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %v", appErr.ErrPersistence, err)
	}
	var item model.Comment
	if err := r.db.GetContext(ctx, &item, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErr.ErrNotFound
		}
		return nil, fmt.Errorf("%w: query comment: %v", appErr.ErrPersistence, err)
	}
	return &item, nil
}

func (r *CommentRepo) ListAll(ctx context.Context) ([]model.Comment, error) {
	sqlStr, args, err := builder.BuildSelect("comments", map[string]interface{}{"_orderby": "ctime desc"}, commentFields)
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %v", appErr.ErrPersistence, err)
	}
	items := make([]model.Comment, 0)
	if err := r.db.SelectContext(ctx, &items, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("%w: list comments: %v", appErr.ErrPersistence, err)
	}
	return items, nil
}

func (r *CommentRepo) DeleteByID(ctx context.Context, id string) error {
	sqlStr, args, err := builder.BuildDelete("comments", map[string]interface{}{"id": id})
	if err != nil {
		return fmt.Errorf("%w: build delete: %v", appErr.ErrPersistence, err)
	}
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("%w: delete comment: %v", appErr.ErrPersistence, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete comment: %v", appErr.ErrPersistence, err)
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}
