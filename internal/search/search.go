// Package search implements in-memory filtering of blog post previews.
// It mirrors the filter widget on the public blog page: free-text search,
// multi-select tag filtering, and category filtering, all combined as a
// conjunction of active predicates over a fixed post collection.
package search

import (
	"strings"
	"time"
)

// Tag is the reduced tag projection carried by post previews.
type Tag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Category is the reduced category projection carried by post previews.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PostPreview is the reduced-field projection of a post used in list and
// grid UI, as opposed to the full post record.
type PostPreview struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featured_image,omitempty"`
	Category      Category   `json:"category"`
	Tags          []Tag      `json:"tags"`
	ReadTime      int        `json:"read_time"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

// Query is the filter state applied to a post collection.
type Query struct {
	// Text is matched case-insensitively as a substring of the title,
	// excerpt, any tag name, or the category name (OR semantics).
	Text string
	// Tags holds selected tag slugs. A post is retained only if it
	// carries every selected tag (AND semantics).
	Tags []string
	// Category is a category slug matched by exact equality.
	Category string
}

// active reports whether any predicate of the query is non-empty.
func (q Query) active() bool {
	return strings.TrimSpace(q.Text) != "" || len(q.Tags) > 0 || q.Category != ""
}

// activeCount counts independently active predicate kinds: text presence,
// each selected tag, and category presence.
func (q Query) activeCount() int {
	n := len(q.Tags)
	if strings.TrimSpace(q.Text) != "" {
		n++
	}
	if q.Category != "" {
		n++
	}
	return n
}

// Result holds the filtered subset and its derived counts.
type Result struct {
	Posts              []PostPreview `json:"posts"`
	ResultsCount       int           `json:"results_count"`
	TotalCount         int           `json:"total_count"`
	HasActiveFilters   bool          `json:"has_active_filters"`
	ActiveFiltersCount int           `json:"active_filters_count"`
}

// Filter applies the query to the post collection and returns the filtered
// subset with derived counts. The input slice is never mutated; an empty
// query matches everything.
func Filter(posts []PostPreview, q Query) Result {
	filtered := make([]PostPreview, 0, len(posts))
	for _, p := range posts {
		if matches(p, q) {
			filtered = append(filtered, p)
		}
	}

	return Result{
		Posts:              filtered,
		ResultsCount:       len(filtered),
		TotalCount:         len(posts),
		HasActiveFilters:   q.active(),
		ActiveFiltersCount: q.activeCount(),
	}
}

// matches reports whether a single post passes every active predicate.
func matches(p PostPreview, q Query) bool {
	if text := strings.ToLower(strings.TrimSpace(q.Text)); text != "" {
		if !matchesText(p, text) {
			return false
		}
	}

	if q.Category != "" && p.Category.Slug != q.Category {
		return false
	}

	for _, selected := range q.Tags {
		if !hasTag(p, selected) {
			return false
		}
	}

	return true
}

// matchesText checks the case-insensitive substring match against title,
// excerpt, tag names, and category name. text must already be lowercased.
func matchesText(p PostPreview, text string) bool {
	if strings.Contains(strings.ToLower(p.Title), text) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Excerpt), text) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag.Name), text) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(p.Category.Name), text)
}

// hasTag reports whether the post carries the tag with the given slug.
func hasTag(p PostPreview, slug string) bool {
	for _, tag := range p.Tags {
		if tag.Slug == slug {
			return true
		}
	}
	return false
}

// Searcher holds filter state over a fixed post collection and memoizes
// the filtered result between state changes. All state transitions are
// pure with respect to the input collection.
type Searcher struct {
	posts []PostPreview
	query Query
	memo  *Result
}

// NewSearcher creates a Searcher over the given post collection.
func NewSearcher(posts []PostPreview) *Searcher {
	return &Searcher{posts: posts}
}

// SetText replaces the free-text predicate.
func (s *Searcher) SetText(text string) {
	if s.query.Text == text {
		return
	}
	s.query.Text = text
	s.memo = nil
}

// SelectTag adds a tag slug to the selection. Selecting an already
// selected tag is a no-op.
func (s *Searcher) SelectTag(slug string) {
	for _, t := range s.query.Tags {
		if t == slug {
			return
		}
	}
	s.query.Tags = append(s.query.Tags, slug)
	s.memo = nil
}

// DeselectTag removes a tag slug from the selection.
func (s *Searcher) DeselectTag(slug string) {
	for i, t := range s.query.Tags {
		if t == slug {
			s.query.Tags = append(s.query.Tags[:i], s.query.Tags[i+1:]...)
			s.memo = nil
			return
		}
	}
}

// ClearTags removes all selected tags.
func (s *Searcher) ClearTags() {
	if len(s.query.Tags) == 0 {
		return
	}
	s.query.Tags = nil
	s.memo = nil
}

// SetCategory replaces the category predicate.
func (s *Searcher) SetCategory(slug string) {
	if s.query.Category == slug {
		return
	}
	s.query.Category = slug
	s.memo = nil
}

// ClearAll resets every predicate.
func (s *Searcher) ClearAll() {
	if !s.query.active() {
		return
	}
	s.query = Query{}
	s.memo = nil
}

// Query returns a copy of the current filter state.
func (s *Searcher) Query() Query {
	q := s.query
	q.Tags = append([]string(nil), s.query.Tags...)
	return q
}

// Results returns the filtered result for the current state. The result
// is computed once per state change and reused until the next mutation.
func (s *Searcher) Results() Result {
	if s.memo == nil {
		r := Filter(s.posts, s.query)
		s.memo = &r
	}
	return *s.memo
}
