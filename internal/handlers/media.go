package handlers

import (
	"log/slog"
	"net/http"

	"aironlab/internal/models"
)

type mediaItem struct {
	models.Media
	URL      string `json:"url,omitempty"`
	ThumbURL string `json:"thumb_url,omitempty"`
}

// List returns uploaded media newest first, with public URLs when object
// storage is configured.
func (h *Upload) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.media.List()
	if err != nil {
		writeServerError(w, r, err)
		return
	}

	views := make([]mediaItem, 0, len(items))
	for _, m := range items {
		view := mediaItem{Media: m}
		if h.storage != nil {
			view.URL = h.storage.FileURL(m.Key)
			if m.ThumbKey != nil {
				view.ThumbURL = h.storage.FileURL(*m.ThumbKey)
			}
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, map[string]any{"media": views})
}

// Delete removes a media item from the database and cleans up its bucket
// objects. The row is the source of truth; object cleanup is best-effort.
func (h *Upload) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный идентификатор файла")
		return
	}

	item, err := h.media.FindByID(id)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Файл не найден")
		return
	}

	if err := h.media.Delete(item.ID); err != nil {
		writeServerError(w, r, err)
		return
	}

	if h.storage != nil {
		ctx := r.Context()
		if err := h.storage.Delete(ctx, item.Key); err != nil {
			slog.Warn("s3 object delete failed", "key", item.Key, "error", err)
		}
		if item.ThumbKey != nil {
			if err := h.storage.Delete(ctx, *item.ThumbKey); err != nil {
				slog.Warn("s3 thumbnail delete failed", "key", *item.ThumbKey, "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
