package repository

import (
	"context"
	"time"

	"github.com/Lysium16/bancalplast-lysium/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TripRepository defines the data access contract for trips.
type TripRepository interface {
	// FindOpenByDate returns the OPEN trip for date, or ErrNotFound.
	FindOpenByDate(ctx context.Context, date time.Time) (*model.Trip, error)
	// Create inserts t and fills in its generated ID. A second OPEN trip for
	// the same date fails with ErrDuplicate.
	Create(ctx context.Context, t *model.Trip) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Trip, error)
	List(ctx context.Context, status model.TripStatus) ([]model.Trip, error)
	ListRecent(ctx context.Context, limit int) ([]model.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteCascade removes every pallet referencing the trip and then the
	// trip itself, in one transaction. It returns the number of pallets removed.
	DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error)
}

type tripRepo struct{ db *gorm.DB }

func NewTripRepository(db *gorm.DB) TripRepository { return &tripRepo{db: db} }

func (r *tripRepo) FindOpenByDate(ctx context.Context, date time.Time) (*model.Trip, error) {
	var list []model.Trip
	err := r.db.WithContext(ctx).
		Where("trip_date = ? AND status = ?", date, model.TripOpen).
		Order("created_at ASC").
		Limit(1).
		Find(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return &list[0], nil
}

func (r *tripRepo) Create(ctx context.Context, t *model.Trip) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *tripRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	var t model.Trip
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *tripRepo) List(ctx context.Context, status model.TripStatus) ([]model.Trip, error) {
	var list []model.Trip
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("trip_date ASC").Order("created_at ASC").
		Find(&list).Error
	return list, translate(err)
}

func (r *tripRepo) ListRecent(ctx context.Context, limit int) ([]model.Trip, error) {
	var list []model.Trip
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, translate(err)
}

func (r *tripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Trip{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tripRepo) DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Pallet{}, "trip_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		res = tx.Delete(&model.Trip{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, translate(err)
	}
	return removed, nil
}
