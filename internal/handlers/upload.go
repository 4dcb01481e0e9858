package handlers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/webp" // register WebP decoder
	"golang.org/x/image/draw"

	"aironlab/internal/middleware"
	"aironlab/internal/models"
	"aironlab/internal/storage"
	"aironlab/internal/store"
)

const (
	// maxUploadSize is the maximum allowed image upload size (5 MB).
	maxUploadSize = 5 << 20

	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	maxImagePixels = 100_000_000
)

// allowedUploadTypes defines MIME types accepted for upload.
var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// thumbableTypes are image types that support thumbnail generation.
// GIF is excluded to preserve animation.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Upload handles image uploads to object storage.
type Upload struct {
	storage *storage.Client
	media   *store.MediaStore
}

// NewUpload creates a new Upload handler group. storageClient may be nil
// when object storage is unconfigured; uploads then return 503.
func NewUpload(storageClient *storage.Client, media *store.MediaStore) *Upload {
	return &Upload{storage: storageClient, media: media}
}

// Create accepts a multipart form with a "file" field and an optional
// "folder", stores the image and a thumbnail in the bucket, records the
// metadata, and returns {url, path, bucket, size, type}.
func (h *Upload) Create(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Хранилище файлов не настроено")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Файл слишком большой. Максимальный размер: 5MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Файл не предоставлен")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusBadRequest, "Файл слишком большой. Максимальный размер: 5MB")
		return
	}

	// Detect content type by sniffing the first 512 bytes; the client's
	// declared type is not trusted.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		writeServerError(w, r, err)
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	if !allowedUploadTypes[contentType] {
		writeError(w, http.StatusBadRequest,
			"Неподдерживаемый тип файла. Разрешены: image/jpeg, image/png, image/webp, image/gif")
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeServerError(w, r, err)
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "posts"
	}
	folder = strings.Trim(folder, "/")

	// Unique name: timestamp plus a short random suffix, original extension.
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	fileName := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), randomSuffix(6), ext)
	key := folder + "/" + fileName

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		writeServerError(w, r, err)
		return
	}

	ctx := r.Context()
	if err := h.storage.Upload(ctx, key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "Не удалось загрузить файл")
		return
	}

	// Thumbnail is best-effort: a failure never fails the upload.
	var thumbKey *string
	if thumbableTypes[contentType] {
		thumbData, err := generateThumbnail(bytes.NewReader(fileBytes), thumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "key", key)
		} else if thumbData != nil {
			tk := folder + "/thumbs/" + strings.TrimSuffix(fileName, ext) + ".jpg"
			if err := h.storage.Upload(ctx, tk, "image/jpeg", bytes.NewReader(thumbData), int64(len(thumbData))); err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", tk)
			} else {
				thumbKey = &tk
			}
		}
	}

	if _, err := h.media.Create(&models.Media{
		Filename:     fileName,
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    int64(len(fileBytes)),
		Bucket:       h.storage.Bucket(),
		Key:          key,
		ThumbKey:     thumbKey,
		UploaderID:   sess.UserID,
	}); err != nil {
		slog.Error("media metadata insert failed", "error", err, "key", key)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"url":    h.storage.FileURL(key),
		"path":   key,
		"bucket": h.storage.Bucket(),
		"size":   len(fileBytes),
		"type":   contentType,
	})
}

// generateThumbnail produces a JPEG thumbnail no wider than maxWidth.
// Returns (nil, nil) when the source is already small enough.
func generateThumbnail(src io.ReadSeeker, maxWidth int) ([]byte, error) {
	// Decode config first to check dimensions without full decode.
	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Check for image bombs.
	if int64(imgCfg.Width)*int64(imgCfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d", imgCfg.Width, imgCfg.Height)
	}

	if imgCfg.Width <= maxWidth {
		return nil, nil
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	// Resize preserving aspect ratio, CatmullRom for quality.
	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newWidth := maxWidth
	newHeight := int(float64(bounds.Dy()) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// extensionFromType maps a sniffed MIME type to a file extension for
// uploads whose original name carried none.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
