package entry

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/spark-journal/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/entries")

	entries.GET("", h.list)
	entries.GET("/:id", h.get)
	entries.POST("", h.create)
	entries.PUT("/:id", h.update)
	entries.DELETE("/:id", h.delete)
	entries.POST("/:id/unlock", h.unlock)
}

func (h *Handler) list(c *gin.Context) {
	response.OK(c, h.svc.List())
}

func (h *Handler) get(c *gin.Context) {
	e, err := h.svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, e)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateEntryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "title and content are required")
		return
	}
	e, err := h.svc.Create(&dto)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, e)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateEntryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	e, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, e)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "entry deleted"})
}

func (h *Handler) unlock(c *gin.Context) {
	e, err := h.svc.Unlock(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, e)
}

func respondError(c *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "entry not found")
	case errors.As(err, &ve):
		response.BadRequest(c, ve.Msg)
	default:
		response.InternalError(c, err)
	}
}
