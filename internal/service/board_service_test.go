package service_test

import (
	"context"
	"testing"

	"github.com/Lysium16/bancalplast-lysium/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadyBoard_GroupsAndTotals(t *testing.T) {
	ts := newTestServices()
	ctx := context.Background()

	later, earlier := strPtr("2025-05-20"), strPtr("2025-05-02")
	createReady(t, ts, "Rossi", "2", 4, later)
	createReady(t, ts, "Bianchi", "1", 3, later)
	createReady(t, ts, "Rossi", "1", 1, later)
	createReady(t, ts, "Verdi", "5", 2, earlier)
	createReady(t, ts, "Neri", "8", 6, nil)
	// not on the ready board
	_, err := ts.pallets.Create(ctx, dto.CreatePalletRequest{Client: "Gialli", PalletNo: "1", ShippingType: "TRUCK"})
	require.NoError(t, err)

	board, err := ts.boards.Ready(ctx, "", dto.RefreshUser)
	require.NoError(t, err)
	require.Len(t, board.Groups, 3)

	none := board.Groups[0]
	assert.Equal(t, "NONE", none.Key)
	assert.Nil(t, none.TripDate)
	assert.Equal(t, "Senza viaggio", none.Label)

	assert.Equal(t, "2025-05-02", *board.Groups[1].TripDate)
	assert.Equal(t, "02/05/2025", board.Groups[1].Label)

	g := board.Groups[2]
	assert.Equal(t, dto.TotalsResponse{Pallets: 3, Bobbins: 8}, g.Totals)
	require.Len(t, g.Clients, 2)
	assert.Equal(t, dto.ClientSummaryResponse{Client: "Bianchi", Pallets: 1, Bobbins: 3}, g.Clients[0])
	assert.Equal(t, dto.ClientSummaryResponse{Client: "Rossi", Pallets: 2, Bobbins: 5}, g.Clients[1])
	assert.Equal(t, []string{"1", "1", "2"}, []string{g.Pallets[0].PalletNo, g.Pallets[1].PalletNo, g.Pallets[2].PalletNo})
	assert.Equal(t, "Bianchi", g.Pallets[0].Client)

	assert.Equal(t, dto.TotalsResponse{Pallets: 5, Bobbins: 16}, board.Totals)
	assert.False(t, board.FromCache)
}

func TestReadyBoard_QueryFilters(t *testing.T) {
	ts := newTestServices()
	createReady(t, ts, "Rossi", "1", 1, nil)
	createReady(t, ts, "Bianchi", "2", 1, nil)

	board, err := ts.boards.Ready(context.Background(), "ross", dto.RefreshUser)
	require.NoError(t, err)
	require.Len(t, board.Groups, 1)
	assert.Equal(t, 1, board.Totals.Pallets)
}

func TestBoards_CacheHonoursRefreshReason(t *testing.T) {
	ts := newTestServices()
	ctx := context.Background()
	createReady(t, ts, "Rossi", "1", 1, nil)

	first, err := ts.boards.Ready(ctx, "", dto.RefreshFocus)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	cached, err := ts.boards.Ready(ctx, "", dto.RefreshVisible)
	require.NoError(t, err)
	assert.True(t, cached.FromCache)
	assert.Equal(t, first.Totals, cached.Totals)

	user, err := ts.boards.Ready(ctx, "", dto.RefreshUser)
	require.NoError(t, err)
	assert.False(t, user.FromCache)

	// a write drops the cache, so the next focus refresh sees it
	createReady(t, ts, "Rossi", "2", 1, nil)
	after, err := ts.boards.Ready(ctx, "", dto.RefreshFocus)
	require.NoError(t, err)
	assert.False(t, after.FromCache)
	assert.Equal(t, 2, after.Totals.Pallets)
}

func TestBoards_WriteDuringReadIsNotServedLater(t *testing.T) {
	ts := newTestServices()
	ctx := context.Background()
	createReady(t, ts, "Rossi", "1", 1, nil)

	ts.store.afterList = func() { createReady(t, ts, "Rossi", "2", 1, nil) }
	raced, err := ts.boards.Ready(ctx, "", dto.RefreshFocus)
	require.NoError(t, err)
	assert.Equal(t, 1, raced.Totals.Pallets)

	next, err := ts.boards.Ready(ctx, "", dto.RefreshFocus)
	require.NoError(t, err)
	assert.False(t, next.FromCache)
	assert.Equal(t, 2, next.Totals.Pallets)
}

func TestShippedBoard(t *testing.T) {
	ts := newTestServices()
	ctx := context.Background()
	a := createReady(t, ts, "Rossi", "1", 2, strPtr("2025-01-10"))
	createReady(t, ts, "Rossi", "2", 2, strPtr("2025-01-10"))

	_, err := ts.pallets.MarkSent(ctx, []uuid.UUID{a.ID})
	require.NoError(t, err)

	board, err := ts.boards.Shipped(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, dto.RefreshUser, board.Reason)
	require.Len(t, board.Groups, 1)
	assert.Equal(t, "2025-01-10", board.Groups[0].Key)
	require.Len(t, board.Groups[0].Pallets, 1)
	assert.NotNil(t, board.Groups[0].Pallets[0].SentAt)
}

func TestShippedBoard_SameDateTripsListed(t *testing.T) {
	ts := newTestServices()
	ctx := context.Background()
	date := strPtr("2025-02-03")

	first := createReady(t, ts, "Rossi", "1", 1, date)
	_, err := ts.pallets.MarkSent(ctx, []uuid.UUID{first.ID})
	require.NoError(t, err)
	second := createReady(t, ts, "Rossi", "2", 1, date)
	require.NotEqual(t, *first.TripID, *second.TripID)
	_, err = ts.pallets.MarkSent(ctx, []uuid.UUID{second.ID})
	require.NoError(t, err)

	board, err := ts.boards.Shipped(ctx, "", dto.RefreshUser)
	require.NoError(t, err)
	require.Len(t, board.Groups, 1)
	assert.ElementsMatch(t, []uuid.UUID{*first.TripID, *second.TripID}, board.Groups[0].TripIDs)

	ready, err := ts.boards.Ready(ctx, "", dto.RefreshUser)
	require.NoError(t, err)
	assert.Empty(t, ready.Groups)
}

func TestParseRefreshReason(t *testing.T) {
	for in, want := range map[string]dto.RefreshReason{"": dto.RefreshUser, "user": dto.RefreshUser, "focus": dto.RefreshFocus, "visible": dto.RefreshVisible} {
		got, err := dto.ParseRefreshReason(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := dto.ParseRefreshReason("timer")
	assert.Error(t, err)
}
