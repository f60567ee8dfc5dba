package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fazilraphi/blig-blogs/internal/model"
	"github.com/fazilraphi/blig-blogs/internal/queue"
	"github.com/fazilraphi/blig-blogs/internal/service"
)

// BlogHandler bundles dependencies for blog and media endpoints.
type BlogHandler struct {
	Content   *service.Content
	MaxUpload int64
}

func NewBlogHandler(content *service.Content, maxUpload int64) *BlogHandler {
	return &BlogHandler{Content: content, MaxUpload: maxUpload}
}

// ----- DTOs -----

type createBlogReq struct {
	Title    string `json:"title"`
	BodyText string `json:"body_text"`
}

type updateBlogReq struct {
	// Pointers distinguish "field omitted" from "field set": an
	// omitted field is left unchanged.
	Title    *string `json:"title"`
	BodyText *string `json:"body_text"`
}

type blogResp struct {
	ID         uint64            `json:"id"`
	Title      string            `json:"title"`
	BodyText   string            `json:"body_text"`
	LikesCount int               `json:"likes_count"`
	Author     model.UserSummary `json:"author"`
	Media      []*model.Media    `json:"media"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func toBlogResp(v service.BlogView) blogResp {
	media := v.Media
	if media == nil {
		media = []*model.Media{}
	}
	return blogResp{
		ID:         v.Blog.ID,
		Title:      v.Blog.Title,
		BodyText:   v.Blog.BodyText,
		LikesCount: v.Blog.LikesCount,
		Author:     model.UserSummary{ID: v.Blog.AuthorID, Username: v.Blog.AuthorUsername},
		Media:      media,
		CreatedAt:  v.Blog.CreatedAt,
		UpdatedAt:  v.Blog.UpdatedAt,
	}
}

// Create handles POST /blogs (protected).
func (h *BlogHandler) Create(c echo.Context) error {
	uid, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBlogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	id, err := h.Content.CreateBlog(ctx, uid, req.Title, req.BodyText)
	if err != nil {
		return writeErr(c, err)
	}

	// Best-effort activity event; a broker outage never fails the
	// request.
	if view, verr := h.Content.GetBlog(ctx, id); verr == nil {
		_ = queue.PublishBlogPublished(ctx, queue.BlogPublishedEvent{
			BlogID:      id,
			AuthorID:    uid,
			Author:      view.Blog.AuthorUsername,
			Title:       view.Blog.Title,
			PublishedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "blog created", "blog_id": id})
}

// List handles GET /blogs?page=&per_page= (public).
func (h *BlogHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	ctx, cancel := reqContext(c)
	defer cancel()

	views, total, err := h.Content.ListBlogs(ctx, page, perPage)
	if err != nil {
		return writeErr(c, err)
	}
	items := make([]blogResp, 0, len(views))
	for _, v := range views {
		items = append(items, toBlogResp(v))
	}
	page, perPage = service.NormalizePage(page, perPage)
	return c.JSON(http.StatusOK, echo.Map{
		"page":     page,
		"per_page": perPage,
		"total":    total,
		"blogs":    items,
	})
}

// Get handles GET /blogs/:id (public).
func (h *BlogHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blog id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	view, err := h.Content.GetBlog(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toBlogResp(view))
}

// Update handles PATCH /blogs/:id (protected, author only).
func (h *BlogHandler) Update(c echo.Context) error {
	uid, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blog id"})
	}
	var req updateBlogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	b, err := h.Content.UpdateBlog(ctx, id, uid, service.BlogPatch{Title: req.Title, BodyText: req.BodyText})
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "blog updated", "blog_id": b.ID})
}

// Delete handles DELETE /blogs/:id (protected, author only).
// Media, likes and comments go with the blog.
func (h *BlogHandler) Delete(c echo.Context) error {
	uid, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blog id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Content.DeleteBlog(ctx, id, uid); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "blog deleted"})
}

// UploadMedia handles POST /blogs/:id/media (protected, author
// only, multipart field "file").
func (h *BlogHandler) UploadMedia(c echo.Context) error {
	uid, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blog id"})
	}
	name, data, err := readFormFile(c, h.MaxUpload)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no file provided"})
	}

	ctx, cancel := uploadContext(c)
	defer cancel()

	m, err := h.Content.AddMedia(ctx, id, uid, name, data)
	if err != nil {
		log.Printf("media upload failed for blog %d: %v", id, err)
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "media uploaded",
		"media_id":   m.ID,
		"media_url":  m.MediaURL,
		"media_type": m.MediaType,
		"position":   m.Position,
	})
}
