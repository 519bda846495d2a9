package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lysium16/bancalplast-lysium/internal/dto"
	"github.com/Lysium16/bancalplast-lysium/internal/middleware"
	"github.com/Lysium16/bancalplast-lysium/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Fakes ────────────────────────────────────────────────────────────────────

type fakePallets struct {
	service.PalletService
	createErr error
	created   dto.CreatePalletRequest
	sent      []uuid.UUID
}

func (f *fakePallets) Create(_ context.Context, req dto.CreatePalletRequest) (dto.PalletResponse, error) {
	f.created = req
	if f.createErr != nil {
		return dto.PalletResponse{}, f.createErr
	}
	return dto.PalletResponse{ID: uuid.New(), Client: req.Client}, nil
}

func (f *fakePallets) Get(_ context.Context, _ uuid.UUID) (dto.PalletResponse, error) {
	return dto.PalletResponse{}, service.ErrNotFound
}

func (f *fakePallets) MarkSent(_ context.Context, ids []uuid.UUID) (dto.MarkSentResponse, error) {
	f.sent = ids
	return dto.MarkSentResponse{PalletsSent: ids, TripsShipped: []uuid.UUID{}}, nil
}

type fakeTrips struct {
	service.TripService
	manifestErr error
}

func (f fakeTrips) Manifest(_ context.Context, _ uuid.UUID, w io.Writer) error {
	if f.manifestErr != nil {
		return f.manifestErr
	}
	_, err := w.Write([]byte("%PDF-1.3 fake"))
	return err
}

type fakeBoards struct {
	service.BoardService
	reason dto.RefreshReason
	query  string
}

func (f *fakeBoards) Ready(_ context.Context, q string, reason dto.RefreshReason) (dto.BoardResponse, error) {
	f.query, f.reason = q, reason
	return dto.BoardResponse{Groups: []dto.BoardGroupResponse{}, Reason: reason}, nil
}

func newEngine(p service.PalletService, t service.TripService, b service.BoardService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	ph, th, bh := NewPalletsHandler(p), NewTripsHandler(t), NewBoardHandler(b)
	r.POST("/v1/pallets", ph.Create)
	r.GET("/v1/pallets/:id", ph.Get)
	r.POST("/v1/pallets/send", ph.MarkSent)
	r.GET("/v1/trips/:id/manifest", th.Manifest)
	r.GET("/v1/board/ready", bh.Ready)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCreatePallet_Created(t *testing.T) {
	fp := &fakePallets{}
	r := newEngine(fp, fakeTrips{}, &fakeBoards{})

	w := doJSON(r, http.MethodPost, "/v1/pallets", map[string]any{
		"client": "Rossi", "pallet_no": "4", "bobbins_count": 2, "shipping_type": "TRUCK",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Rossi", fp.created.Client)
}

func TestCreatePallet_TagValidation(t *testing.T) {
	r := newEngine(&fakePallets{}, fakeTrips{}, &fakeBoards{})

	w := doJSON(r, http.MethodPost, "/v1/pallets", map[string]any{"client": "Rossi", "shipping_type": "PLANE"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "required", body.Fields["PalletNo"])
	assert.Equal(t, "oneof", body.Fields["ShippingType"])
}

func TestCreatePallet_MalformedJSON(t *testing.T) {
	r := newEngine(&fakePallets{}, fakeTrips{}, &fakeBoards{})
	req := httptest.NewRequest(http.MethodPost, "/v1/pallets", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServiceErrors_MappedOnce(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{&service.ValidationError{Field: "dimensions", Msg: "dimensions are required for courier pallets"}, http.StatusUnprocessableEntity},
		{service.ErrNotFound, http.StatusNotFound},
		{&service.StoreError{Op: "create pallet", Err: errors.New("connection refused")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		r := newEngine(&fakePallets{createErr: tc.err}, fakeTrips{}, &fakeBoards{})
		w := doJSON(r, http.MethodPost, "/v1/pallets", map[string]any{
			"client": "A", "pallet_no": "1", "shipping_type": "COURIER",
		})
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
		assert.NotContains(t, w.Body.String(), "connection refused")
		assert.True(t, json.Valid(w.Body.Bytes()), w.Body.String())
	}
}

func TestGetPallet_BadIDAndNotFound(t *testing.T) {
	r := newEngine(&fakePallets{}, fakeTrips{}, &fakeBoards{})

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/v1/pallets/not-a-uuid", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/v1/pallets/"+uuid.NewString(), nil).Code)
}

func TestMarkSent_RequiresIDs(t *testing.T) {
	fp := &fakePallets{}
	r := newEngine(fp, fakeTrips{}, &fakeBoards{})

	w := doJSON(r, http.MethodPost, "/v1/pallets/send", map[string]any{"pallet_ids": []string{}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	id := uuid.New()
	w = doJSON(r, http.MethodPost, "/v1/pallets/send", map[string]any{"pallet_ids": []string{id.String()}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{id}, fp.sent)
}

func TestManifest_ServesPDF(t *testing.T) {
	r := newEngine(&fakePallets{}, fakeTrips{}, &fakeBoards{})
	w := doJSON(r, http.MethodGet, "/v1/trips/"+uuid.NewString()+"/manifest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestManifest_RenderFailureSingleBody(t *testing.T) {
	r := newEngine(&fakePallets{}, fakeTrips{manifestErr: errors.New("fpdf: font not found")}, &fakeBoards{})
	w := doJSON(r, http.MethodGet, "/v1/trips/"+uuid.NewString()+"/manifest", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.True(t, json.Valid(w.Body.Bytes()), w.Body.String())
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Errore interno del server", body["detail"])
	assert.NotContains(t, w.Body.String(), "fpdf")
}

func TestBoard_RefreshReason(t *testing.T) {
	fb := &fakeBoards{}
	r := newEngine(&fakePallets{}, fakeTrips{}, fb)

	w := doJSON(r, http.MethodGet, "/v1/board/ready?q=rossi&reason=focus", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.RefreshFocus, fb.reason)
	assert.Equal(t, "rossi", fb.query)

	w = doJSON(r, http.MethodGet, "/v1/board/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.RefreshUser, fb.reason)

	w = doJSON(r, http.MethodGet, "/v1/board/ready?reason=cron", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
