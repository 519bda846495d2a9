package service

import (
	"context"
	"strings"
	"time"

	"github.com/Lysium16/bancalplast-lysium/internal/dimensions"
	"github.com/Lysium16/bancalplast-lysium/internal/dto"
	"github.com/Lysium16/bancalplast-lysium/internal/grouping"
	"github.com/Lysium16/bancalplast-lysium/internal/model"
	"github.com/Lysium16/bancalplast-lysium/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PalletService covers both sides of the floor: production registers and
// edits pallets, the office schedules them on trips and ships them.
type PalletService interface {
	Create(ctx context.Context, req dto.CreatePalletRequest) (dto.PalletResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.PalletResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePalletRequest) (dto.PalletResponse, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (dto.PalletResponse, error)
	// ListPending returns unsent pallets of one shipping type. Truck pallets
	// come ordered by client, courier pallets newest first.
	ListPending(ctx context.Context, shippingType, query string) ([]dto.PalletResponse, error)
	Assign(ctx context.Context, req dto.AssignRequest) (dto.AssignResponse, error)
	// MarkSent stamps the pallets as sent and ships their open trips in one
	// step. Pallets already sent are skipped, so repeating a call is harmless.
	MarkSent(ctx context.Context, ids []uuid.UUID) (dto.MarkSentResponse, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (dto.DeleteResponse, error)
}

// TripResolver is the part of TripService the pallet flows depend on.
type TripResolver interface {
	Resolve(ctx context.Context, date string) (uuid.UUID, error)
}

const (
	errAlreadySent   = "pallet already sent"
	errCourierOnTrip = "courier pallets are not scheduled on trips"
)

type palletService struct {
	pallets  repository.PalletRepository
	trips    repository.TripRepository
	resolver TripResolver
	cache    BoardCache
	now      func() time.Time
}

func NewPalletService(pallets repository.PalletRepository, trips repository.TripRepository, resolver TripResolver, cache BoardCache) PalletService {
	return &palletService{
		pallets:  pallets,
		trips:    trips,
		resolver: resolver,
		cache:    cacheOrNoop(cache),
		now:      time.Now,
	}
}

func (s *palletService) Create(ctx context.Context, req dto.CreatePalletRequest) (dto.PalletResponse, error) {
	client := strings.TrimSpace(req.Client)
	if client == "" {
		return dto.PalletResponse{}, invalid("client", req.Client, "required")
	}
	palletNo := strings.TrimSpace(req.PalletNo)
	if palletNo == "" {
		return dto.PalletResponse{}, invalid("pallet_no", req.PalletNo, "required")
	}
	if req.BobbinsCount < 0 {
		return dto.PalletResponse{}, invalid("bobbins_count", "", "must not be negative")
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return dto.PalletResponse{}, err
	}
	shipping, err := parseShippingType(req.ShippingType)
	if err != nil {
		return dto.PalletResponse{}, err
	}

	p := &model.Pallet{
		Client:       client,
		PalletNo:     palletNo,
		BobbinsCount: req.BobbinsCount,
		Status:       status,
		ShippingType: shipping,
	}

	switch shipping {
	case model.ShippingTruck:
		if req.Dimensions != nil {
			return dto.PalletResponse{}, invalid("dimensions", "", dimensions.ErrUnexpected.Error())
		}
		if req.TripDate != nil && strings.TrimSpace(*req.TripDate) != "" {
			tripID, err := s.resolver.Resolve(ctx, strings.TrimSpace(*req.TripDate))
			if err != nil {
				return dto.PalletResponse{}, err
			}
			p.TripID = &tripID
		}
	case model.ShippingCourier:
		if req.TripDate != nil {
			return dto.PalletResponse{}, invalid("trip_date", *req.TripDate, errCourierOnTrip)
		}
		dims, err := encodeDimensions(req.Dimensions)
		if err != nil {
			return dto.PalletResponse{}, err
		}
		p.Dimensions = dims
	}
	if err := checkDimensions(p); err != nil {
		return dto.PalletResponse{}, err
	}

	if err := s.pallets.Create(ctx, p); err != nil {
		return dto.PalletResponse{}, storeErr("create pallet", err)
	}
	s.cache.Invalidate(ctx)
	return s.Get(ctx, p.ID)
}

func (s *palletService) Get(ctx context.Context, id uuid.UUID) (dto.PalletResponse, error) {
	p, err := s.pallets.FindByID(ctx, id)
	if err != nil {
		return dto.PalletResponse{}, storeErr("find pallet", err)
	}
	return mapPallet(*p), nil
}

func (s *palletService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePalletRequest) (dto.PalletResponse, error) {
	p, err := s.findUnsent(ctx, id)
	if err != nil {
		return dto.PalletResponse{}, err
	}

	if req.BobbinsCount != nil {
		if *req.BobbinsCount < 0 {
			return dto.PalletResponse{}, invalid("bobbins_count", "", "must not be negative")
		}
		p.BobbinsCount = *req.BobbinsCount
	}
	if req.Status != nil {
		st, err := parseStatus(*req.Status)
		if err != nil {
			return dto.PalletResponse{}, err
		}
		p.Status = st
	}
	if req.Dimensions != nil {
		if p.ShippingType != model.ShippingCourier {
			return dto.PalletResponse{}, invalid("dimensions", "", dimensions.ErrUnexpected.Error())
		}
		dims, err := encodeDimensions(req.Dimensions)
		if err != nil {
			return dto.PalletResponse{}, err
		}
		p.Dimensions = dims
	}
	if req.TripDate != nil {
		if p.ShippingType != model.ShippingTruck {
			return dto.PalletResponse{}, invalid("trip_date", *req.TripDate, errCourierOnTrip)
		}
		if d := strings.TrimSpace(*req.TripDate); d == "" {
			p.TripID = nil
		} else {
			tripID, err := s.resolver.Resolve(ctx, d)
			if err != nil {
				return dto.PalletResponse{}, err
			}
			p.TripID = &tripID
		}
	}
	if err := checkDimensions(p); err != nil {
		return dto.PalletResponse{}, err
	}

	if err := s.pallets.UpdateFields(ctx, p); err != nil {
		return dto.PalletResponse{}, storeErr("update pallet", err)
	}
	s.cache.Invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *palletService) SetStatus(ctx context.Context, id uuid.UUID, status string) (dto.PalletResponse, error) {
	st, err := parseStatus(status)
	if err != nil {
		return dto.PalletResponse{}, err
	}
	if _, err := s.findUnsent(ctx, id); err != nil {
		return dto.PalletResponse{}, err
	}
	if err := s.pallets.SetStatus(ctx, id, st); err != nil {
		return dto.PalletResponse{}, storeErr("set pallet status", err)
	}
	s.cache.Invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *palletService) ListPending(ctx context.Context, shippingType, query string) ([]dto.PalletResponse, error) {
	st, err := parseShippingType(shippingType)
	if err != nil {
		return nil, err
	}
	unsent := false
	list, err := s.pallets.List(ctx, repository.PalletFilter{
		ShippingType: &st,
		Sent:         &unsent,
		NewestFirst:  st == model.ShippingCourier,
	})
	if err != nil {
		return nil, storeErr("list pallets", err)
	}
	if st == model.ShippingTruck {
		// the store orders by byte value; re-sort with the collation the boards use
		grouping.SortByClient(list)
	}
	return mapPallets(grouping.Filter(list, query)), nil
}

func (s *palletService) Assign(ctx context.Context, req dto.AssignRequest) (dto.AssignResponse, error) {
	if len(req.PalletIDs) == 0 {
		return dto.AssignResponse{}, invalid("pallet_ids", "", "required")
	}
	hasDate := req.TripDate != nil && strings.TrimSpace(*req.TripDate) != ""
	if (req.TripID == nil) == !hasDate {
		return dto.AssignResponse{}, invalid("trip", "", "give exactly one of trip_id or trip_date")
	}
	list, err := s.requireReady(ctx, req.PalletIDs)
	if err != nil {
		return dto.AssignResponse{}, err
	}
	for _, p := range list {
		if p.IsSent() {
			return dto.AssignResponse{}, invalid("pallet_ids", p.ID.String(), errAlreadySent)
		}
		if p.ShippingType != model.ShippingTruck {
			return dto.AssignResponse{}, invalid("pallet_ids", p.ID.String(), errCourierOnTrip)
		}
	}

	var tripID uuid.UUID
	if hasDate {
		id, err := s.resolver.Resolve(ctx, strings.TrimSpace(*req.TripDate))
		if err != nil {
			return dto.AssignResponse{}, err
		}
		tripID = id
	} else {
		t, err := s.trips.FindByID(ctx, *req.TripID)
		if err != nil {
			return dto.AssignResponse{}, storeErr("find trip", err)
		}
		if t.Status != model.TripOpen {
			return dto.AssignResponse{}, invalid("trip_id", t.ID.String(), "trip already shipped")
		}
		tripID = t.ID
	}

	n, err := s.pallets.AssignTrip(ctx, req.PalletIDs, tripID)
	if err != nil {
		return dto.AssignResponse{}, storeErr("assign trip", err)
	}
	s.cache.Invalidate(ctx)
	return dto.AssignResponse{TripID: tripID, Assigned: n}, nil
}

func (s *palletService) MarkSent(ctx context.Context, ids []uuid.UUID) (dto.MarkSentResponse, error) {
	if len(ids) == 0 {
		return dto.MarkSentResponse{}, invalid("pallet_ids", "", "required")
	}
	if _, err := s.requireReady(ctx, ids); err != nil {
		return dto.MarkSentResponse{}, err
	}

	at := s.now().UTC()
	res, err := s.pallets.MarkSent(ctx, ids, at)
	if err != nil {
		return dto.MarkSentResponse{}, storeErr("mark sent", err)
	}
	s.cache.Invalidate(ctx)

	out := dto.MarkSentResponse{
		PalletsSent:  res.PalletIDs,
		TripsShipped: res.TripIDs,
		SentAt:       at,
	}
	if out.PalletsSent == nil {
		out.PalletsSent = []uuid.UUID{}
	}
	if out.TripsShipped == nil {
		out.TripsShipped = []uuid.UUID{}
	}
	log.Info().
		Int("pallets_sent", len(out.PalletsSent)).
		Int("trips_shipped", len(out.TripsShipped)).
		Msg("pallets marked sent")
	return out, nil
}

func (s *palletService) DeleteMany(ctx context.Context, ids []uuid.UUID) (dto.DeleteResponse, error) {
	if len(ids) == 0 {
		return dto.DeleteResponse{}, invalid("pallet_ids", "", "required")
	}
	n, err := s.pallets.DeleteMany(ctx, ids)
	if err != nil {
		return dto.DeleteResponse{}, storeErr("delete pallets", err)
	}
	s.cache.Invalidate(ctx)
	return dto.DeleteResponse{Deleted: n}, nil
}

// findUnsent loads a pallet that production may still edit.
func (s *palletService) findUnsent(ctx context.Context, id uuid.UUID) (*model.Pallet, error) {
	p, err := s.pallets.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find pallet", err)
	}
	if p.IsSent() {
		return nil, invalid("id", id.String(), errAlreadySent)
	}
	return p, nil
}

// requireReady loads ids and rejects the batch unless every pallet exists and
// is READY. Sent pallets are returned as loaded; MarkSent lets them through so
// that a repeated send is a no-op, Assign rejects them.
func (s *palletService) requireReady(ctx context.Context, ids []uuid.UUID) ([]model.Pallet, error) {
	list, err := s.pallets.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("find pallets", err)
	}
	found := make(map[uuid.UUID]model.Pallet, len(list))
	for _, p := range list {
		found[p.ID] = p
	}
	for _, id := range ids {
		p, ok := found[id]
		if !ok {
			return nil, ErrNotFound
		}
		if p.Status != model.PalletReady {
			return nil, invalid("pallet_ids", id.String(), "pallet is not READY")
		}
	}
	return list, nil
}

func parseStatus(s string) (model.PalletStatus, error) {
	switch model.PalletStatus(s) {
	case "":
		return model.PalletInProgress, nil
	case model.PalletInProgress, model.PalletReady:
		return model.PalletStatus(s), nil
	}
	return "", invalid("status", s, "expected IN_PROGRESS or READY")
}

func parseShippingType(s string) (model.ShippingType, error) {
	switch model.ShippingType(s) {
	case model.ShippingTruck, model.ShippingCourier:
		return model.ShippingType(s), nil
	}
	return "", invalid("shipping_type", s, "expected TRUCK or COURIER")
}

func encodeDimensions(in *dto.DimensionsInput) (*string, error) {
	if in == nil {
		return nil, invalid("dimensions", "", dimensions.ErrMissing.Error())
	}
	enc, ok := dimensions.Encode(in.L, in.P, in.H)
	if !ok {
		return nil, invalid("dimensions", in.L+"x"+in.P+"x"+in.H, dimensions.ErrMalformed.Error())
	}
	return &enc, nil
}

// checkDimensions enforces the shipping-type invariant on every write path.
func checkDimensions(p *model.Pallet) error {
	if err := dimensions.Validate(p.ShippingType, p.Dimensions); err != nil {
		v := ""
		if p.Dimensions != nil {
			v = *p.Dimensions
		}
		return invalid("dimensions", v, err.Error())
	}
	return nil
}
