package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fazilraphi/blig-blogs/internal/model"
	"github.com/fazilraphi/blig-blogs/internal/service"
)

// SocialHandler bundles dependencies for follow and like
// endpoints.
type SocialHandler struct {
	Social *service.Social
}

func NewSocialHandler(social *service.Social) *SocialHandler {
	return &SocialHandler{Social: social}
}

// Follow handles POST /users/:id/follow (protected).
func (h *SocialHandler) Follow(c echo.Context) error {
	uid, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	target, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Social.Follow(ctx, uid, target); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "followed"})
}

// Unfollow handles DELETE /users/:id/follow (protected).
func (h *SocialHandler) Unfollow(c echo.Context) error {
	uid, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	target, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Social.Unfollow(ctx, uid, target); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "unfollowed"})
}

// Followers handles GET /users/:id/followers (public).
func (h *SocialHandler) Followers(c echo.Context) error {
	return h.listEdges(c, h.Social.Followers)
}

// Following handles GET /users/:id/following (public).
func (h *SocialHandler) Following(c echo.Context) error {
	return h.listEdges(c, h.Social.Following)
}

func (h *SocialHandler) listEdges(c echo.Context, list func(context.Context, uint64) ([]model.UserSummary, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	out, err := list(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Like handles POST /blogs/:id/like (protected).
func (h *SocialHandler) Like(c echo.Context) error {
	uid, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	blogID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blog id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Social.Like(ctx, uid, blogID); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "blog liked"})
}

// Unlike handles DELETE /blogs/:id/like (protected).
func (h *SocialHandler) Unlike(c echo.Context) error {
	uid, err := actorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	blogID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blog id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Social.Unlike(ctx, uid, blogID); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "blog unliked"})
}
