package handlers

import (
	"bytes"
	"encoding/xml"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aironlab/internal/cache"
	"aironlab/internal/markdown"
	"aironlab/internal/models"
	"aironlab/internal/search"
	"aironlab/internal/store"
)

// Public serves the unauthenticated read surface: published post
// listings with filtering, single posts rendered to HTML, category and
// tag metadata for filter pages, the RSS feed and the sitemap.
type Public struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	tags       *store.TagStore
	feed       *cache.FeedCache
	siteURL    string
	siteName   string
	siteDesc   string
}

// NewPublic creates a new Public handler group.
func NewPublic(posts *store.PostStore, categories *store.CategoryStore, tags *store.TagStore, feed *cache.FeedCache, siteURL string) *Public {
	return &Public{
		posts:      posts,
		categories: categories,
		tags:       tags,
		feed:       feed,
		siteURL:    siteURL,
		siteName:   "AIronLab Blog",
		siteDesc:   "Статьи об ИИ-интеграции, разработке и автоматизации",
	}
}

// Posts lists published posts filtered through the in-memory search
// engine: ?q free text, repeated ?tag slugs (AND), ?category slug.
func (h *Public) Posts(w http.ResponseWriter, r *http.Request) {
	published, err := h.posts.ListPublished()
	if err != nil {
		writeServerError(w, r, err)
		return
	}

	q := search.Query{
		Text:     r.URL.Query().Get("q"),
		Tags:     r.URL.Query()["tag"],
		Category: r.URL.Query().Get("category"),
	}

	result := search.Filter(toPreviews(published), q)
	writeJSON(w, http.StatusOK, result)
}

// Post returns one published post by slug with content rendered to HTML.
func (h *Public) Post(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.posts.FindPublishedBySlug(slug)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Пост не найден")
		return
	}

	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		writeServerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"post":         post,
		"content_html": html,
	})
}

// Category returns one category by slug, for the category landing page.
func (h *Public) Category(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "Категория не найдена")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Tag returns one tag by slug, for the tag landing page.
func (h *Public) Tag(w http.ResponseWriter, r *http.Request) {
	tag, err := h.tags.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if tag == nil {
		writeError(w, http.StatusNotFound, "Тег не найден")
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// toPreviews projects full post rows into the reduced search previews.
func toPreviews(posts []models.Post) []search.PostPreview {
	previews := make([]search.PostPreview, 0, len(posts))
	for _, p := range posts {
		preview := search.PostPreview{
			ID:          p.ID.String(),
			Title:       p.Title,
			Slug:        p.Slug,
			ReadTime:    p.ReadTime,
			PublishedAt: p.PublishedAt,
			Tags:        make([]search.Tag, 0, len(p.Tags)),
		}
		if p.Excerpt != nil {
			preview.Excerpt = *p.Excerpt
		}
		if p.FeaturedImage != nil {
			preview.FeaturedImage = *p.FeaturedImage
		}
		if p.Category != nil {
			preview.Category = search.Category{Name: p.Category.Name, Slug: p.Category.Slug}
		}
		for _, t := range p.Tags {
			preview.Tags = append(preview.Tags, search.Tag{Name: t.Name, Slug: t.Slug})
		}
		previews = append(previews, preview)
	}
	return previews
}

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// RSS serves the published-post feed. The rendered payload is cached in
// Redis and invalidated on post mutation.
func (h *Public) RSS(w http.ResponseWriter, r *http.Request) {
	if payload, ok := h.feed.Get(r.Context(), cache.KeyRSS); ok {
		writeXML(w, "application/rss+xml; charset=utf-8", payload)
		return
	}

	posts, err := h.posts.ListPublished()
	if err != nil {
		writeServerError(w, r, err)
		return
	}

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := h.siteURL + "/blog/" + p.Slug
		item := rssItem{
			Title: p.Title,
			Link:  postURL,
			GUID:  postURL,
		}
		if p.Excerpt != nil {
			item.Description = *p.Excerpt
		}
		if p.PublishedAt != nil {
			item.PubDate = p.PublishedAt.Format(time.RFC1123Z)
		}
		items = append(items, item)
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       h.siteName,
			Link:        h.siteURL,
			Description: h.siteDesc,
			Items:       items,
		},
	}

	payload, err := encodeXML(feed)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	h.feed.Set(r.Context(), cache.KeyRSS, payload)
	writeXML(w, "application/rss+xml; charset=utf-8", payload)
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap serves the sitemap of the site root, blog index and every
// published post. Cached like the RSS feed.
func (h *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	if payload, ok := h.feed.Get(r.Context(), cache.KeySitemap); ok {
		writeXML(w, "application/xml; charset=utf-8", payload)
		return
	}

	posts, err := h.posts.ListPublished()
	if err != nil {
		writeServerError(w, r, err)
		return
	}

	urls := []sitemapURL{
		{Loc: h.siteURL},
		{Loc: h.siteURL + "/blog"},
	}
	for _, p := range posts {
		u := sitemapURL{Loc: h.siteURL + "/blog/" + p.Slug}
		if p.PublishedAt != nil {
			u.LastMod = p.PublishedAt.Format("2006-01-02")
		}
		urls = append(urls, u)
	}

	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	payload, err := encodeXML(sitemap)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	h.feed.Set(r.Context(), cache.KeySitemap, payload)
	writeXML(w, "application/xml; charset=utf-8", payload)
}

// Health reports liveness for load balancers.
func (h *Public) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func encodeXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXML(w http.ResponseWriter, contentType string, payload []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
