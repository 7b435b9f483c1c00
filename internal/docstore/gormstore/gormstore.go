// Package gormstore keeps documents in a SQL table with a JSON data column.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gamescope/app/internal/backend"
	"gamescope/app/internal/docstore"
	"gamescope/app/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

// New returns a store over db. The documents table must already be migrated.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) List(ctx context.Context, collection string, q backend.Query) ([]backend.Document, error) {
	tx := s.db.WithContext(ctx).Where("collection = ?", collection)
	for _, f := range q.Filters {
		tx = tx.Where(datatypes.JSONQuery("data").Equals(f.Value, f.Field))
	}

	var rows []models.Document
	if err := tx.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	docs := make([]backend.Document, 0, len(rows))
	for _, row := range rows {
		// JSON text comparison is looser than equality on typed values.
		if docstore.Matches(row.Data, q.Filters) {
			docs = append(docs, row.ToBackend())
		}
	}
	docstore.SortDesc(docs, q.OrderDesc)
	return docs, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (backend.Document, error) {
	row, err := find(s.db.WithContext(ctx), collection, id)
	if err != nil {
		return backend.Document{}, err
	}
	return row.ToBackend(), nil
}

func (s *Store) Create(ctx context.Context, collection, id string, data map[string]any) (backend.Document, error) {
	row := models.Document{Collection: collection, ID: id, Data: datatypes.JSONMap(docstore.Merge(nil, data))}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := find(tx, collection, id); err == nil {
			return docstore.ErrConflict
		} else if !errors.Is(err, docstore.ErrNotFound) {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return docstore.ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return backend.Document{}, fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	return row.ToBackend(), nil
}

func (s *Store) Update(ctx context.Context, collection, id string, data map[string]any) (backend.Document, error) {
	var row models.Document
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := find(tx, collection, id)
		if err != nil {
			return err
		}
		row = existing
		row.Data = datatypes.JSONMap(docstore.Merge(existing.Data, data))
		return tx.Save(&row).Error
	})
	if err != nil {
		return backend.Document{}, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return row.ToBackend(), nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&models.Document{})
	if result.Error != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	return nil
}

// Close is a no-op; the connection pool belongs to the caller.
func (s *Store) Close(context.Context) error {
	return nil
}

func find(tx *gorm.DB, collection, id string) (models.Document, error) {
	var row models.Document
	err := tx.Where("collection = ? AND id = ?", collection, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, docstore.ErrNotFound
	}
	return row, err
}

var _ docstore.Repository = (*Store)(nil)
