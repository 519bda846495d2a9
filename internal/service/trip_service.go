package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/Lysium16/bancalplast-lysium/internal/dto"
	"github.com/Lysium16/bancalplast-lysium/internal/infra"
	"github.com/Lysium16/bancalplast-lysium/internal/model"
	"github.com/Lysium16/bancalplast-lysium/internal/repository"
	"github.com/Lysium16/bancalplast-lysium/internal/tripdate"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TripService owns trip lifecycle: date resolution, listing, deletion and the
// printed manifest.
type TripService interface {
	// Resolve returns the id of the OPEN trip for date (YYYY-MM-DD), creating
	// it when none exists. Calling it twice for the same date returns the same id.
	Resolve(ctx context.Context, date string) (uuid.UUID, error)
	ResolveTrip(ctx context.Context, date string) (dto.TripResponse, error)
	List(ctx context.Context, status string) ([]dto.TripResponse, error)
	// Delete removes the trip together with every pallet on it.
	Delete(ctx context.Context, id uuid.UUID) (dto.DeleteTripResponse, error)
	Manifest(ctx context.Context, id uuid.UUID, w io.Writer) error
}

type tripService struct {
	trips   repository.TripRepository
	pallets repository.PalletRepository
	cache   BoardCache
}

func NewTripService(trips repository.TripRepository, pallets repository.PalletRepository, cache BoardCache) TripService {
	return &tripService{trips: trips, pallets: pallets, cache: cacheOrNoop(cache)}
}

func (s *tripService) Resolve(ctx context.Context, date string) (uuid.UUID, error) {
	t, err := s.ResolveTrip(ctx, date)
	if err != nil {
		return uuid.Nil, err
	}
	return t.ID, nil
}

func (s *tripService) ResolveTrip(ctx context.Context, date string) (dto.TripResponse, error) {
	d, err := tripdate.Parse(date)
	if err != nil {
		return dto.TripResponse{}, invalid("trip_date", date, "expected YYYY-MM-DD")
	}
	t, err := s.resolve(ctx, d)
	if err != nil {
		return dto.TripResponse{}, err
	}
	return mapTrip(*t), nil
}

func (s *tripService) resolve(ctx context.Context, d time.Time) (*model.Trip, error) {
	t, err := s.trips.FindOpenByDate(ctx, d)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeErr("find open trip", err)
	}

	t = &model.Trip{TripDate: d, Status: model.TripOpen}
	err = s.trips.Create(ctx, t)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent caller inserted the same date first; use theirs.
		winner, rerr := s.trips.FindOpenByDate(ctx, d)
		if rerr != nil {
			return nil, &StoreError{Op: "find open trip after conflict", Err: rerr}
		}
		return winner, nil
	}
	if err != nil {
		return nil, storeErr("create trip", err)
	}
	log.Info().Str("trip_id", t.ID.String()).Str("trip_date", tripdate.Format(d)).Msg("trip opened")
	return t, nil
}

func (s *tripService) List(ctx context.Context, status string) ([]dto.TripResponse, error) {
	st := model.TripOpen
	switch model.TripStatus(status) {
	case "", model.TripOpen:
	case model.TripShipped:
		st = model.TripShipped
	default:
		return nil, invalid("status", status, "expected OPEN or SHIPPED")
	}
	list, err := s.trips.List(ctx, st)
	if err != nil {
		return nil, storeErr("list trips", err)
	}
	out := make([]dto.TripResponse, 0, len(list))
	for _, t := range list {
		out = append(out, mapTrip(t))
	}
	return out, nil
}

func (s *tripService) Delete(ctx context.Context, id uuid.UUID) (dto.DeleteTripResponse, error) {
	removed, err := s.trips.DeleteCascade(ctx, id)
	if err != nil {
		return dto.DeleteTripResponse{}, storeErr("delete trip", err)
	}
	s.cache.Invalidate(ctx)
	log.Info().Str("trip_id", id.String()).Int64("pallets_deleted", removed).Msg("trip deleted")
	return dto.DeleteTripResponse{TripID: id, PalletsDeleted: removed}, nil
}

func (s *tripService) Manifest(ctx context.Context, id uuid.UUID, w io.Writer) error {
	t, err := s.trips.FindByID(ctx, id)
	if err != nil {
		return storeErr("find trip", err)
	}
	list, err := s.pallets.List(ctx, repository.PalletFilter{TripID: &id})
	if err != nil {
		return storeErr("list trip pallets", err)
	}
	return infra.WriteTripManifestPDF(w, *t, list)
}
