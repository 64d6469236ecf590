package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared"
	"blog-backend/internal/shared/response"
	"blog-backend/internal/shared/utils"
)

type PostHandler struct {
	service post.Service
}

func NewPostHandler(svc post.Service) *PostHandler {
	return &PostHandler{
		service: svc,
	}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /api/v1/posts
// ════════════════════════════════════════════════════════════════

func (h *PostHandler) Create(c *gin.Context) {
	var req post.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /api/v1/posts/:id
// ════════════════════════════════════════════════════════════════

func (h *PostHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// READ: GET /api/v1/posts?category=Fiction&order=desc&limit=20&offset=0
// ════════════════════════════════════════════════════════════════

func (h *PostHandler) List(c *gin.Context) {
	filter := post.PostFilter{
		Category: c.Query("category"),
		Order:    c.DefaultQuery("order", string(shared.OrderDesc)),
		Limit:    utils.QueryInt(c.Query("limit"), utils.DefaultPageSize),
		Offset:   utils.QueryInt(c.Query("offset"), 0),
	}
	filter.Limit, filter.Offset = utils.NormalizePagination(filter.Limit, filter.Offset)

	posts, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, post.ToResponses(posts),
		response.NewMeta(filter.Limit, filter.Offset, total))
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PATCH /api/v1/posts/:id
// ════════════════════════════════════════════════════════════════

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req post.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /api/v1/posts/:id
// ════════════════════════════════════════════════════════════════

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return 0, false
	}
	return id, true
}

func (h *PostHandler) handleError(c *gin.Context, err error) {
	status := post.ToHTTPStatus(err)
	code := post.ToErrorCode(err)

	if fe, ok := shared.AsFieldError(err); ok {
		response.ErrorWithDetails(c, status, code, fe.Message(), map[string]string{fe.Field: fe.Message()})
		return
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("post request failed")
		response.ErrorResponse(c, status, code, "Internal server error")
		return
	}

	response.ErrorResponse(c, status, code, err.Error())
}
