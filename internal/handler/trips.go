package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/Lysium16/bancalplast-lysium/internal/dto"
	"github.com/Lysium16/bancalplast-lysium/internal/service"

	"github.com/gin-gonic/gin"
)

type TripsHandler struct{ svc service.TripService }

func NewTripsHandler(svc service.TripService) *TripsHandler { return &TripsHandler{svc: svc} }

// List godoc
// @Summary      Elenco viaggi
// @Description  Viaggi in ordine di data crescente.
// @Tags         trips
// @Produce      json
// @Param        status query string false "OPEN (default) | SHIPPED"
// @Success      200  {array}  dto.TripResponse
// @Router       /v1/trips [get]
func (h *TripsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resolve godoc
// @Summary      Viaggio aperto per data
// @Description  Restituisce il viaggio OPEN della data, creandolo se manca.
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        body body dto.ResolveTripRequest true "Data viaggio"
// @Success      200  {object} dto.TripResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/trips [post]
func (h *TripsHandler) Resolve(c *gin.Context) {
	var req dto.ResolveTripRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ResolveTrip(c.Request.Context(), req.TripDate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Elimina viaggio
// @Description  Elimina il viaggio e tutti i suoi bancali.
// @Tags         trips
// @Produce      json
// @Param        id   path string true "UUID del viaggio"
// @Success      200  {object} dto.DeleteTripResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/trips/{id} [delete]
func (h *TripsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Manifest GET /v1/trips/:id/manifest (PDF packing list)
func (h *TripsHandler) Manifest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.Manifest(c.Request.Context(), id, &buf); err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="viaggio-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
