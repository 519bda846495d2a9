package repository

import (
	"context"
	"time"

	"github.com/Lysium16/bancalplast-lysium/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PalletFilter selects pallets for list views. Nil fields do not filter.
type PalletFilter struct {
	ShippingType *model.ShippingType
	Status       *model.PalletStatus
	Sent         *bool
	TripID       *uuid.UUID
	NewestFirst  bool
	Limit        int
}

// ShipResult reports what a MarkSent call actually changed.
type ShipResult struct {
	PalletIDs []uuid.UUID // pallets whose sent_at was set by this call
	TripIDs   []uuid.UUID // trips moved from OPEN to SHIPPED by this call
}

// PalletRepository defines the data access contract for pallets. Every read
// preloads the Trip relation so callers always see one optional *model.Trip.
type PalletRepository interface {
	Create(ctx context.Context, p *model.Pallet) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pallet, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Pallet, error)
	List(ctx context.Context, f PalletFilter) ([]model.Pallet, error)
	// UpdateFields writes the mutable production fields of p. UpdateFields,
	// SetStatus and AssignTrip never touch sent pallets; a sent pallet reads
	// as ErrNotFound to the single-row writes.
	UpdateFields(ctx context.Context, p *model.Pallet) error
	SetStatus(ctx context.Context, id uuid.UUID, status model.PalletStatus) error
	AssignTrip(ctx context.Context, ids []uuid.UUID, tripID uuid.UUID) (int64, error)
	// MarkSent stamps unsent pallets with at and ships their OPEN trips,
	// atomically. Pallets already sent are left untouched.
	MarkSent(ctx context.Context, ids []uuid.UUID, at time.Time) (ShipResult, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type palletRepo struct{ db *gorm.DB }

func NewPalletRepository(db *gorm.DB) PalletRepository { return &palletRepo{db: db} }

func (r *palletRepo) Create(ctx context.Context, p *model.Pallet) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

func (r *palletRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pallet, error) {
	var p model.Pallet
	if err := r.db.WithContext(ctx).Preload("Trip").First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *palletRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Pallet, error) {
	var list []model.Pallet
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Preload("Trip").Where("id IN ?", ids).Find(&list).Error
	return list, translate(err)
}

func (r *palletRepo) List(ctx context.Context, f PalletFilter) ([]model.Pallet, error) {
	q := r.db.WithContext(ctx).Model(&model.Pallet{}).Preload("Trip")
	if f.ShippingType != nil {
		q = q.Where("shipping_type = ?", *f.ShippingType)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Sent != nil {
		if *f.Sent {
			q = q.Where("sent_at IS NOT NULL")
		} else {
			q = q.Where("sent_at IS NULL")
		}
	}
	if f.TripID != nil {
		q = q.Where("trip_id = ?", *f.TripID)
	}
	if f.NewestFirst {
		q = q.Order("created_at DESC")
	} else {
		q = q.Order("client ASC").Order("pallet_no ASC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var list []model.Pallet
	err := q.Find(&list).Error
	return list, translate(err)
}

func (r *palletRepo) UpdateFields(ctx context.Context, p *model.Pallet) error {
	res := r.db.WithContext(ctx).Model(&model.Pallet{}).
		Where("id = ? AND sent_at IS NULL", p.ID).
		Select("bobbins_count", "status", "dimensions", "trip_id").
		Updates(map[string]interface{}{
			"bobbins_count": p.BobbinsCount,
			"status":        p.Status,
			"dimensions":    p.Dimensions,
			"trip_id":       p.TripID,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *palletRepo) SetStatus(ctx context.Context, id uuid.UUID, status model.PalletStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Pallet{}).Where("id = ? AND sent_at IS NULL", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *palletRepo) AssignTrip(ctx context.Context, ids []uuid.UUID, tripID uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&model.Pallet{}).Where("id IN ? AND sent_at IS NULL", ids).Update("trip_id", tripID)
	return res.RowsAffected, translate(res.Error)
}

func (r *palletRepo) MarkSent(ctx context.Context, ids []uuid.UUID, at time.Time) (ShipResult, error) {
	var out ShipResult
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending []model.Pallet
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "trip_id").
			Where("id IN ? AND sent_at IS NULL", ids).
			Find(&pending).Error
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		tripSet := make(map[uuid.UUID]struct{})
		for _, p := range pending {
			out.PalletIDs = append(out.PalletIDs, p.ID)
			if p.TripID != nil {
				tripSet[*p.TripID] = struct{}{}
			}
		}
		if err := tx.Model(&model.Pallet{}).Where("id IN ?", out.PalletIDs).Update("sent_at", at).Error; err != nil {
			return err
		}
		if len(tripSet) == 0 {
			return nil
		}

		tripIDs := make([]uuid.UUID, 0, len(tripSet))
		for id := range tripSet {
			tripIDs = append(tripIDs, id)
		}
		var open []model.Trip
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id IN ? AND status = ?", tripIDs, model.TripOpen).
			Order("trip_date ASC").
			Find(&open).Error
		if err != nil {
			return err
		}
		for _, t := range open {
			out.TripIDs = append(out.TripIDs, t.ID)
		}
		if len(out.TripIDs) == 0 {
			return nil
		}
		return tx.Model(&model.Trip{}).
			Where("id IN ?", out.TripIDs).
			Updates(map[string]interface{}{"status": model.TripShipped, "shipped_at": at}).Error
	})
	if err != nil {
		return ShipResult{}, translate(err)
	}
	return out, nil
}

func (r *palletRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Pallet{})
	return res.RowsAffected, translate(res.Error)
}
