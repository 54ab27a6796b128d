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

var imageFields = []string{"id", "file_key", "url", "statement", "ctime"}

type ImageRepo struct {
	db *sqlx.DB
}

func NewImageRepo(db *sqlx.DB) *ImageRepo {
	return &ImageRepo{db: db}
}

func (r *ImageRepo) Create(ctx context.Context, img *model.Image) error {
	sqlStr, args, err := builder.BuildInsert("images", []map[string]interface{}{{
		"id":        img.ID,
		"file_key":  img.FileKey,
		"url":       img.URL,
		"statement": img.Statement,
		"ctime":     img.Ctime,
	}})
	if err != nil {
		return fmt.Errorf("%w: build insert: %v", appErr.ErrPersistence, err)
	}
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("%w: insert image: %v", appErr.ErrPersistence, err)
	}
	return nil
}

func (r *ImageRepo) GetByID(ctx context.Context, id string) (*model.Image, error) {
	sqlStr, args, err := builder.BuildSelect("images", map[string]interface{}{"id": id}, imageFields)
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %v", appErr.ErrPersistence, err)
	}
	var item model.Image
	if err := r.db.GetContext(ctx, &item, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErr.ErrNotFound
		}
		return nil, fmt.Errorf("%w: query image: %v", appErr.ErrPersistence, err)
	}
	return &item, nil
}

func (r *ImageRepo) ListAll(ctx context.Context) ([]model.Image, error) {
	sqlStr, args, err := builder.BuildSelect("images", map[string]interface{}{"_orderby": "ctime desc"}, imageFields)
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %v", appErr.ErrPersistence, err)
	}
	items := make([]model.Image, 0)
	if err := r.db.SelectContext(ctx, &items, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("%w: list images: %v", appErr.ErrPersistence, err)
	}
	return items, nil
}

func (r *ImageRepo) DeleteByID(ctx context.Context, id string) error {
	sqlStr, args, err := builder.BuildDelete("images", map[string]interface{}{"id": id})
	if err != nil {
		return fmt.Errorf("%w: build delete: %v", appErr.ErrPersistence, err)
	}
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("%w: delete image: %v", appErr.ErrPersistence, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete image: %v", appErr.ErrPersistence, err)
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}
