package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/motoblog/internal/content"
	"github.com/hyperjump/motoblog/internal/models"
	"github.com/hyperjump/motoblog/internal/site"
	"github.com/hyperjump/motoblog/internal/storage"
	"go.uber.org/zap"
)

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := models.ParseQuery(r.URL.Query(), s.config.Catalog.PageSize)
	page, err := s.engine.Search(r.Context(), q)
	if err != nil {
		s.respondSearchError(w, err)
		return
	}
	if q.SearchText != "" {
		if sess, ok := sessionFrom(r.Context()); ok && sess.carried {
			if err := s.recent.Add(r.Context(), sess.id, q.SearchText); err != nil {
				s.logger.Warn("record recent search failed", zap.Error(err))
			}
		}
	}
	for i := range page.Items {
		page.Items[i] = present(page.Items[i])
	}
	s.respondJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, ok := s.engine.Catalog().Get(slug)
	if !ok {
		s.respondError(w, http.StatusNotFound, "post not found")
		return
	}
	html, err := content.RenderHTML(post.Body)
	if err != nil {
		s.logger.Error("render failed", zap.String("slug", slug), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, models.PostDetail{
		Post:        present(post),
		ContentHTML: html,
		DisplayDate: site.FormatDate(post.Date),
	})
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	cat := s.engine.Catalog()
	post, ok := cat.Get(slug)
	if !ok {
		s.respondError(w, http.StatusNotFound, "post not found")
		return
	}
	limit := s.config.Catalog.RelatedLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	related := s.ranker.Related(cat, post, limit)
	for i := range related {
		related[i] = present(related[i])
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"slug": slug, "items": related})
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Catalog().Facets())
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	posts, err := s.engine.Suggest(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		s.respondSearchError(w, err)
		return
	}
	items := make([]models.Post, len(posts))
	for i, p := range posts {
		items[i] = present(p)
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) handleRecentSearches(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	searches, err := s.recent.Get(r.Context(), sess.id)
	if err != nil {
		s.logger.Error("recent searches failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"searches": searches})
}

func (s *Server) handleClearRecentSearches(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	if err := s.recent.Clear(r.Context(), sess.id); err != nil {
		s.logger.Error("clear recent searches failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cat := s.engine.Catalog()
	resp := map[string]interface{}{
		"posts":      cat.Len(),
		"categories": len(cat.CategoriesWithCounts()),
		"tags":       len(cat.TagsWithCounts()),
		"loaded_at":  cat.LoadedAt(),
		"uptime":     s.now().Sub(s.started).Round(time.Second).String(),
	}

	configInfo := map[string]interface{}{
		"content_dir":     s.config.Content.Dir,
		"storage_backend": s.config.Storage.Backend,
		"page_size":       s.config.Catalog.PageSize,
	}
	dbPath := ""
	if s.config.Storage.Backend == "sqlite" {
		dbPath = s.config.Storage.DatabasePath
		configInfo["database_path"] = dbPath
	}
	if s.watch != nil {
		configInfo["watched_directories"] = s.watch.Directories()
	}
	resp["config"] = configInfo

	if usage, err := storage.DiskUsage(s.config.Content.Dir, dbPath); err == nil {
		resp["disk_usage"] = usage
	} else {
		s.logger.Warn("status: disk usage failed", zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	set := site.Sitemap(s.config.Server.BaseURL, s.engine.Catalog().All(), s.now())
	body, err := site.MarshalSitemap(set)
	if err != nil {
		s.logger.Error("sitemap failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// present prepares a post for API output.
func present(p models.Post) models.Post {
	p.Image = site.ImagePath(p.Image, "")
	return p
}

func (s *Server) respondSearchError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrInvalidArgument) {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error("search failed", zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
