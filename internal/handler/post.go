package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/auth"
	"github.com/sakif/kickstart-blog/internal/media"
	"github.com/sakif/kickstart-blog/internal/service"
)

// PostHandler exposes the post lifecycle and the public feeds:
//
//	POST /api/blogs                      → create draft (protected, multipart)
//	PUT  /api/blogs/publish/{id}         → publish own draft (protected)
//	GET  /api/blogs/{id}                 → one published post (public)
//	GET  /api/posts/category/{category}  → category feed (optional auth)
//	GET  /api/latest                     → newest published (optional auth)
//	GET  /api/sidebar/trending           → most-liked published
//	GET  /api/sidebar/authors            → authors by published count
//	GET  /api/authordetails/{id}         → author page (optional auth)
//	GET  /api/profile/myblogs            → own posts incl. drafts (protected)
type PostHandler struct {
	posts    *service.PostService
	uploader media.Uploader
	logger   *slog.Logger
}

func NewPostHandler(posts *service.PostService, uploader media.Uploader, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, uploader: uploader, logger: logger}
}

// HandleCreate creates a draft. The create form posts multipart/form-data
// with subject/text/category fields and an optional image file; JSON without
// an image works too.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var subject, text, category, imageURL string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, apperror.ValidationFailed("", "invalid multipart form"))
			return
		}
		subject = r.FormValue("subject")
		text = r.FormValue("text")
		category = r.FormValue("category")
		imageURL = r.FormValue("image") // pre-uploaded URL, if the client used /api/upload

		if f, _, err := r.FormFile("image"); err == nil {
			defer f.Close()
			asset, err := h.uploader.Upload(r.Context(), f, media.FolderBlogs)
			if err != nil {
				h.logger.Error("blog image upload failed", slog.String("error", err.Error()))
				writeError(w, err)
				return
			}
			imageURL = asset.URL
		}
	} else {
		var req struct {
			Subject  string `json:"subject"`
			Text     string `json:"text"`
			Category string `json:"category"`
			Image    string `json:"image"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		subject, text, category, imageURL = req.Subject, req.Text, req.Category, req.Image
	}

	post, err := h.posts.CreateDraft(r.Context(), userID, subject, text, category, imageURL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Blog created",
		"blogId":  post.ID,
	})
}

// HandlePublish transitions the caller's draft to published.
func (h *PostHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.posts.Publish(r.Context(), r.PathValue("id"), userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Blog published successfully",
	})
}

// HandleGetPublished returns one published post. Draft posts 404 here no
// matter who asks.
func (h *PostHandler) HandleGetPublished(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	post, err := h.posts.GetPublished(r.Context(), r.PathValue("id"), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleCategory lists published posts in one category.
func (h *PostHandler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	posts, err := h.posts.ListByCategory(r.Context(), r.PathValue("category"), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleLatest lists the newest published posts for the home page.
func (h *PostHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	posts, err := h.posts.Latest(r.Context(), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleTrending lists published posts by live like count.
func (h *PostHandler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Trending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleAuthors lists authors ordered by published-post count.
func (h *PostHandler) HandleAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.posts.TopAuthors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authors)
}

// HandleAuthorDetails returns an author's profile plus their published posts.
func (h *PostHandler) HandleAuthorDetails(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())

	details, err := h.posts.GetAuthorDetails(r.Context(), r.PathValue("id"), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

// HandleMyBlogs lists everything the caller has written, drafts included.
func (h *PostHandler) HandleMyBlogs(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	posts, err := h.posts.MyPosts(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}
