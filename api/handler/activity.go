package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/careflow/api/transport"
	"github.com/fastygo/careflow/domain"
	"github.com/fastygo/careflow/pkg/httpcontext"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

// ActivityReader lists journal entries, newest first.
type ActivityReader interface {
	Recent(limit int) ([]domain.Activity, error)
}

type ActivityHandler struct {
	baseHandler
	journal ActivityReader
}

func NewActivityHandler(journal ActivityReader, adapter *httpcontext.Adapter, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		baseHandler: newBaseHandler(adapter, logger),
		journal:     journal,
	}
}

// @Summary Recent mutations
// @Tags activity
// @Router /api/activity [get]
func (h *ActivityHandler) Recent(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	limit := transport.ParseLimit(string(ctx.QueryArgs().Peek("limit")), defaultActivityLimit, maxActivityLimit)
	entries, err := h.journal.Recent(limit)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if entries == nil {
		entries = []domain.Activity{}
	}
	h.respondJSON(ctx, http.StatusOK, map[string]interface{}{"activity": entries})
}
