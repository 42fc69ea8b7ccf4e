package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/careflow/api/transport"
	"github.com/fastygo/careflow/pkg/httpcontext"
	tagUC "github.com/fastygo/careflow/usecase/tag"
)

type TagHandler struct {
	baseHandler
	uc *tagUC.UseCase
}

func NewTagHandler(uc *tagUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TagHandler {
	return &TagHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Search tags
// @Tags tags
// @Router /api/tags [get]
func (h *TagHandler) Search(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tags, err := h.uc.Search(stdCtx, string(ctx.QueryArgs().Peek("q")))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, map[string]interface{}{"tags": tags})
}

// @Summary Tags of a task
// @Tags tags
// @Router /api/tasks/{id}/tags [get]
func (h *TagHandler) TaskTags(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tags, err := h.uc.TaskTags(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, map[string]interface{}{"tags": tags})
}

// @Summary Attach a tag to a task
// @Tags tags
// @Router /api/tasks/{id}/tags [post]
func (h *TagHandler) AddToTask(ctx *fasthttp.RequestCtx) {
	p, ok := h.principal(ctx)
	if !ok {
		return
	}
	var req transport.TagRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tag, err := h.uc.AddToTask(stdCtx, p.UserID, pathParam(ctx, "id"), req.Name)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, map[string]interface{}{"tag": tag})
}

// @Summary Detach a tag from a task
// @Tags tags
// @Router /api/tasks/{id}/tags/{tagId} [delete]
func (h *TagHandler) RemoveFromTask(ctx *fasthttp.RequestCtx) {
	p, ok := h.principal(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.RemoveFromTask(stdCtx, p.UserID, pathParam(ctx, "id"), pathParam(ctx, "tagId")); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}
