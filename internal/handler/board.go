package handler

import (
	"context"
	"net/http"

	"github.com/Lysium16/bancalplast-lysium/internal/apierror"
	"github.com/Lysium16/bancalplast-lysium/internal/dto"
	"github.com/Lysium16/bancalplast-lysium/internal/service"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct{ svc service.BoardService }

func NewBoardHandler(svc service.BoardService) *BoardHandler { return &BoardHandler{svc: svc} }

// Ready godoc
// @Summary      Bancali pronti per viaggio
// @Description  Bancali READY non spediti, raggruppati per data viaggio ("NONE" per primi) con totali per cliente.
// @Tags         board
// @Produce      json
// @Param        q      query string false "Ricerca"
// @Param        reason query string false "user (default) | focus | visible"
// @Success      200  {object} dto.BoardResponse
// @Router       /v1/board/ready [get]
func (h *BoardHandler) Ready(c *gin.Context) { h.serve(c, h.svc.Ready) }

// Shipped godoc
// @Summary      Storico spedizioni
// @Tags         board
// @Produce      json
// @Param        q      query string false "Ricerca"
// @Param        reason query string false "user (default) | focus | visible"
// @Success      200  {object} dto.BoardResponse
// @Router       /v1/board/shipped [get]
func (h *BoardHandler) Shipped(c *gin.Context) { h.serve(c, h.svc.Shipped) }

type boardFunc func(ctx context.Context, query string, reason dto.RefreshReason) (dto.BoardResponse, error)

func (h *BoardHandler) serve(c *gin.Context, fn boardFunc) {
	reason, err := dto.ParseRefreshReason(c.Query("reason"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewFieldError("reason", err.Error()))
		return
	}
	resp, err := fn(c.Request.Context(), c.Query("q"), reason)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
