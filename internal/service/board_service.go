package service

import (
	"context"

	"github.com/Lysium16/bancalplast-lysium/internal/dto"
	"github.com/Lysium16/bancalplast-lysium/internal/grouping"
	"github.com/Lysium16/bancalplast-lysium/internal/model"
	"github.com/Lysium16/bancalplast-lysium/internal/repository"
)

// shippedBoardLimit caps the history board; the store returns the newest rows.
const shippedBoardLimit = 1000

// BoardService builds the office boards: pallets grouped by trip date with
// per-group and per-client totals.
type BoardService interface {
	// Ready lists READY pallets not yet sent.
	Ready(ctx context.Context, query string, reason dto.RefreshReason) (dto.BoardResponse, error)
	// Shipped lists sent pallets.
	Shipped(ctx context.Context, query string, reason dto.RefreshReason) (dto.BoardResponse, error)
}

type boardService struct {
	pallets repository.PalletRepository
	cache   BoardCache
}

func NewBoardService(pallets repository.PalletRepository, cache BoardCache) BoardService {
	return &boardService{pallets: pallets, cache: cacheOrNoop(cache)}
}

func (s *boardService) Ready(ctx context.Context, query string, reason dto.RefreshReason) (dto.BoardResponse, error) {
	ready := model.PalletReady
	unsent := false
	return s.build(ctx, BoardReady, repository.PalletFilter{Status: &ready, Sent: &unsent}, query, reason)
}

func (s *boardService) Shipped(ctx context.Context, query string, reason dto.RefreshReason) (dto.BoardResponse, error) {
	sent := true
	return s.build(ctx, BoardShipped, repository.PalletFilter{Sent: &sent, NewestFirst: true, Limit: shippedBoardLimit}, query, reason)
}

func (s *boardService) build(ctx context.Context, kind string, f repository.PalletFilter, query string, reason dto.RefreshReason) (dto.BoardResponse, error) {
	if reason == "" {
		reason = dto.RefreshUser
	}
	var list []model.Pallet
	gen, cached := s.cache.Generation(ctx)
	hit := cached && reason.Cacheable() && s.cache.Get(ctx, kind, gen, &list)
	if !hit {
		var err error
		list, err = s.pallets.List(ctx, f)
		if err != nil {
			return dto.BoardResponse{}, storeErr("list "+kind+" board", err)
		}
		if cached {
			s.cache.Set(ctx, kind, gen, list)
		}
	}

	groups := grouping.ByTripThenClient(grouping.Filter(list, query), nil)
	out, totals := mapGroups(groups)
	return dto.BoardResponse{Groups: out, Totals: totals, Reason: reason, FromCache: hit}, nil
}
