package handler

import (
	"net/http"

	"github.com/Lysium16/bancalplast-lysium/internal/dto"
	"github.com/Lysium16/bancalplast-lysium/internal/service"

	"github.com/gin-gonic/gin"
)

type PalletsHandler struct{ svc service.PalletService }

func NewPalletsHandler(svc service.PalletService) *PalletsHandler { return &PalletsHandler{svc: svc} }

// ListPending godoc
// @Summary      Bancali da spedire
// @Description  Bancali non ancora spediti di un tipo. TRUCK ordinati per cliente, COURIER dal più recente.
// @Tags         pallets
// @Produce      json
// @Param        shipping_type query string true  "TRUCK | COURIER"
// @Param        q             query string false "Ricerca su cliente, numero, misure"
// @Success      200  {array}  dto.PalletResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/pallets [get]
func (h *PalletsHandler) ListPending(c *gin.Context) {
	resp, err := h.svc.ListPending(c.Request.Context(), c.Query("shipping_type"), c.Query("q"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Registra un bancale
// @Tags         pallets
// @Accept       json
// @Produce      json
// @Param        body body dto.CreatePalletRequest true "Bancale"
// @Success      201  {object} dto.PalletResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/pallets [post]
func (h *PalletsHandler) Create(c *gin.Context) {
	var req dto.CreatePalletRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get GET /v1/pallets/:id
func (h *PalletsHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Modifica un bancale
// @Description  Bobine, stato, misure (solo COURIER) e data viaggio (solo TRUCK). Il tipo di spedizione non cambia.
// @Tags         pallets
// @Accept       json
// @Produce      json
// @Param        id   path string                  true "UUID del bancale"
// @Param        body body dto.UpdatePalletRequest true "Campi da modificare"
// @Success      200  {object} dto.PalletResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/pallets/{id} [put]
func (h *PalletsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdatePalletRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetStatus PATCH /v1/pallets/:id/status
func (h *PalletsHandler) SetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.SetStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Assign godoc
// @Summary      Assegna bancali a un viaggio
// @Description  Per trip_id oppure per trip_date; la data apre il viaggio se non esiste. Solo bancali READY.
// @Tags         pallets
// @Accept       json
// @Produce      json
// @Param        body body dto.AssignRequest true "Bancali e viaggio"
// @Success      200  {object} dto.AssignResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/pallets/assign [post]
func (h *PalletsHandler) Assign(c *gin.Context) {
	var req dto.AssignRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Assign(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkSent godoc
// @Summary      Segna come spediti
// @Description  Imposta sent_at sui bancali e chiude i loro viaggi aperti, in un'unica transazione.
// @Tags         pallets
// @Accept       json
// @Produce      json
// @Param        body body dto.PalletIDsRequest true "Bancali"
// @Success      200  {object} dto.MarkSentResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/pallets/send [post]
func (h *PalletsHandler) MarkSent(c *gin.Context) {
	var req dto.PalletIDsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MarkSent(c.Request.Context(), req.PalletIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteMany POST /v1/pallets/delete
func (h *PalletsHandler) DeleteMany(c *gin.Context) {
	var req dto.PalletIDsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DeleteMany(c.Request.Context(), req.PalletIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
