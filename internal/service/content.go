package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/fazilraphi/blig-blogs/internal/model"
	"github.com/fazilraphi/blig-blogs/internal/storage"
)

// DefaultMaxUploadBytes caps media payloads at 10 MB.
const DefaultMaxUploadBytes = 10 << 20

// BlogStore persists blogs. Reads populate the derived
// AuthorUsername and LikesCount fields; DeleteCascade removes the
// blog together with its media, likes and comments in one atomic
// unit.
type BlogStore interface {
	Create(ctx context.Context, b *model.Blog) error
	GetByID(ctx context.Context, id uint64) (*model.Blog, error)
	List(ctx context.Context, limit, offset int) ([]*model.Blog, int, error)
	Update(ctx context.Context, b *model.Blog) error
	DeleteCascade(ctx context.Context, id uint64) error
}

// MediaStore persists media rows. Create assigns Position as the
// count of media already attached to the blog, atomically with the
// insert.
type MediaStore interface {
	Create(ctx context.Context, m *model.Media) error
	ListByBlog(ctx context.Context, blogID uint64) ([]*model.Media, error)
}

// CommentStore persists comments. ListByBlog returns them in
// ascending creation order with AuthorUsername populated.
type CommentStore interface {
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id uint64) (*model.Comment, error)
	ListByBlog(ctx context.Context, blogID uint64) ([]*model.Comment, error)
	Delete(ctx context.Context, id uint64) error
}

// BlogPatch is a partial update of a blog. A nil field is left
// unchanged; a set field must be non-empty.
type BlogPatch struct {
	Title    *string
	BodyText *string
}

// BlogView bundles a blog with its ordered media for API
// responses.
type BlogView struct {
	Blog  *model.Blog
	Media []*model.Media
}

// Content manages blogs, their media attachments and comments,
// enforcing author-only mutation.
type Content struct {
	blogs     BlogStore
	media     MediaStore
	comments  CommentStore
	uploads   storage.Backend
	maxUpload int64
}

// NewContent wires the content service. maxUpload <= 0 selects the
// 10 MB default.
func NewContent(blogs BlogStore, media MediaStore, comments CommentStore, uploads storage.Backend, maxUpload int64) *Content {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Content{blogs: blogs, media: media, comments: comments, uploads: uploads, maxUpload: maxUpload}
}

// CreateBlog creates a published blog and returns its id.
func (s *Content) CreateBlog(ctx context.Context, authorID uint64, title, bodyText string) (uint64, error) {
	title = strings.TrimSpace(title)
	bodyText = strings.TrimSpace(bodyText)
	if title == "" || bodyText == "" {
		return 0, fmt.Errorf("title and body_text are required: %w", ErrInvalidInput)
	}
	b := &model.Blog{AuthorID: authorID, Title: title, BodyText: bodyText, IsPublished: true}
	if err := s.blogs.Create(ctx, b); err != nil {
		return 0, err
	}
	return b.ID, nil
}

// NormalizePage applies the paging defaults and bounds: page >= 1,
// perPage between 1 and 100 with 5 as the default. ListBlogs and
// the list handler share it so the echoed paging values always
// match what was queried.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 5
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

// ListBlogs returns one page of blogs, newest first, plus the
// total count. Out-of-range pages yield an empty page with a valid
// total.
func (s *Content) ListBlogs(ctx context.Context, page, perPage int) ([]BlogView, int, error) {
	page, perPage = NormalizePage(page, perPage)
	blogs, total, err := s.blogs.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	views := make([]BlogView, 0, len(blogs))
	for _, b := range blogs {
		media, err := s.media.ListByBlog(ctx, b.ID)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, BlogView{Blog: b, Media: media})
	}
	return views, total, nil
}

// GetBlog returns one blog with its media.
func (s *Content) GetBlog(ctx context.Context, id uint64) (BlogView, error) {
	b, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return BlogView{}, err
	}
	media, err := s.media.ListByBlog(ctx, id)
	if err != nil {
		return BlogView{}, err
	}
	return BlogView{Blog: b, Media: media}, nil
}

// UpdateBlog applies a patch on behalf of actorID. Only the author
// may update; omitted fields stay untouched, set-but-empty fields
// are rejected.
func (s *Content) UpdateBlog(ctx context.Context, id, actorID uint64, patch BlogPatch) (*model.Blog, error) {
	b, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.AuthorID != actorID {
		return nil, fmt.Errorf("blog %d belongs to another author: %w", id, ErrForbidden)
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("title cannot be empty: %w", ErrInvalidInput)
		}
		b.Title = title
	}
	if patch.BodyText != nil {
		body := strings.TrimSpace(*patch.BodyText)
		if body == "" {
			return nil, fmt.Errorf("body_text cannot be empty: %w", ErrInvalidInput)
		}
		b.BodyText = body
	}
	if err := s.blogs.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBlog removes a blog and all its media, likes and comments.
// Only the author may delete.
func (s *Content) DeleteBlog(ctx context.Context, id, actorID uint64) error {
	b, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.AuthorID != actorID {
		return fmt.Errorf("blog %d belongs to another author: %w", id, ErrForbidden)
	}
	return s.blogs.DeleteCascade(ctx, id)
}

// AddMedia uploads a payload to the media store and attaches it to
// the blog at the next append position. Only the blog author may
// attach media; payloads above the size cap are rejected before
// any upstream call.
func (s *Content) AddMedia(ctx context.Context, blogID, uploaderID uint64, filename string, data []byte) (*model.Media, error) {
	b, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if b.AuthorID != uploaderID {
		return nil, fmt.Errorf("blog %d belongs to another author: %w", blogID, ErrForbidden)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no file provided: %w", ErrInvalidInput)
	}
	if int64(len(data)) > s.maxUpload {
		return nil, fmt.Errorf("file exceeds %d bytes: %w", s.maxUpload, ErrInvalidInput)
	}

	contentType := http.DetectContentType(data)
	mediaType := model.MediaTypeImage
	if strings.HasPrefix(contentType, "video/") {
		mediaType = model.MediaTypeVideo
	}

	key := fmt.Sprintf("blogs/%d/%s%s", blogID, uuid.NewString(), path.Ext(filename))
	obj, err := s.uploads.Upload(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media store upload: %v: %w", err, ErrUpstream)
	}

	m := &model.Media{
		BlogID:       blogID,
		UploaderID:   uploaderID,
		MediaType:    mediaType,
		MediaURL:     obj.URL,
		ThumbnailURL: obj.ThumbnailURL,
	}
	if err := s.media.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddComment attaches a comment to a blog. Any authenticated user
// may comment.
func (s *Content) AddComment(ctx context.Context, blogID, authorID uint64, content string) (*model.Comment, error) {
	if _, err := s.blogs.GetByID(ctx, blogID); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", ErrInvalidInput)
	}
	c := &model.Comment{BlogID: blogID, AuthorID: authorID, Content: content}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments returns a blog's comments in ascending creation
// order.
func (s *Content) ListComments(ctx context.Context, blogID uint64) ([]*model.Comment, error) {
	if _, err := s.blogs.GetByID(ctx, blogID); err != nil {
		return nil, err
	}
	return s.comments.ListByBlog(ctx, blogID)
}

// DeleteComment removes a comment on behalf of its author.
func (s *Content) DeleteComment(ctx context.Context, id, actorID uint64) error {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.AuthorID != actorID {
		return fmt.Errorf("comment %d belongs to another author: %w", id, ErrForbidden)
	}
	return s.comments.Delete(ctx, id)
}
