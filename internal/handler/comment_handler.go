package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/imgwall/internal/pkg/response"
	"github.com/xxxsen/imgwall/internal/service"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type createCommentRequest struct {
	User    string `json:"user"`
	Comment string `json:"comment"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid", "invalid request body")
		return
	}
	comment, err := h.comments.Create(c.Request.Context(), req.User, req.Comment)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, comment)
}

func (h *CommentHandler) List(c *gin.Context) {
	items, err := h.comments.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.comments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
