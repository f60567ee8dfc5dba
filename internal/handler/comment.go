package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fazilraphi/blig-blogs/internal/model"
	"github.com/fazilraphi/blig-blogs/internal/service"
)

// CommentHandler bundles dependencies for comment endpoints.
type CommentHandler struct {
	Content *service.Content
}

func NewCommentHandler(content *service.Content) *CommentHandler {
	return &CommentHandler{Content: content}
}

type createCommentReq struct {
	Content string `json:"content"`
}

type commentResp struct {
	ID        uint64            `json:"id"`
	Content   string            `json:"content"`
	Author    model.UserSummary `json:"author"`
	CreatedAt time.Time         `json:"created_at"`
}

// Create handles POST /blogs/:id/comments (protected). Any
// authenticated user may comment.
func (h *CommentHandler) Create(c echo.Context) error {
	uid, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	blogID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blog id"})
	}
	var req createCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	cm, err := h.Content.AddComment(ctx, blogID, uid, req.Content)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "comment added", "comment_id": cm.ID})
}

// List handles GET /blogs/:id/comments (public), ascending by
// creation time.
func (h *CommentHandler) List(c echo.Context) error {
	blogID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blog id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	comments, err := h.Content.ListComments(ctx, blogID)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]commentResp, 0, len(comments))
	for _, cm := range comments {
		out = append(out, commentResp{
			ID:        cm.ID,
			Content:   cm.Content,
			Author:    model.UserSummary{ID: cm.AuthorID, Username: cm.AuthorUsername},
			CreatedAt: cm.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /comments/:id (protected, author only).
func (h *CommentHandler) Delete(c echo.Context) error {
	uid, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Content.DeleteComment(ctx, id, uid); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "comment deleted"})
}
