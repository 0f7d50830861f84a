// internal/app/features/myprofile/photos.go
package myprofile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	uierrors "github.com/dalemusser/rishtahub/internal/app/features/errors"
	profilestore "github.com/dalemusser/rishtahub/internal/app/store/profiles"
	"github.com/dalemusser/rishtahub/internal/app/system/authz"
	"github.com/dalemusser/rishtahub/internal/app/system/timeouts"
	"github.com/dalemusser/rishtahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxPhotosPerUpload caps how many photos one form submission may add.
const maxPhotosPerUpload = 6

var allowedPhotoTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// uploadPhotos stores every "photos" file in the multipart form and
// returns the resulting photo records. Files that are not images are
// rejected as a whole so nothing half-uploaded is referenced.
func (h *Handler) uploadPhotos(ctx context.Context, r *http.Request) ([]models.Photo, error) {
	if r.MultipartForm == nil || r.MultipartForm.File == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File["photos"]
	if len(headers) == 0 {
		return nil, nil
	}
	if len(headers) > maxPhotosPerUpload {
		return nil, fmt.Errorf("too many photos: %d (max %d)", len(headers), maxPhotosPerUpload)
	}

	var stored []models.Photo
	for _, header := range headers {
		photo, err := h.uploadOne(ctx, header)
		if err != nil {
			h.cleanupPhotos(ctx, stored)
			return nil, err
		}
		stored = append(stored, photo)
	}
	return stored, nil
}

func (h *Handler) uploadOne(ctx context.Context, header *multipart.FileHeader) (models.Photo, error) {
	file, err := header.Open()
	if err != nil {
		return models.Photo{}, err
	}
	defer file.Close()

	contentType, err := detectImageType(file)
	if err != nil {
		return models.Photo{}, err
	}
	ext, ok := allowedPhotoTypes[contentType]
	if !ok {
		return models.Photo{}, fmt.Errorf("unsupported photo type %q", contentType)
	}

	// Unique path: photos/YYYY/MM/uuid.ext
	now := time.Now().UTC()
	key := filepath.ToSlash(filepath.Join(
		fmt.Sprintf("photos/%04d/%02d", now.Year(), now.Month()),
		uuid.New().String()+ext,
	))

	opts := &storage.PutOptions{ContentType: contentType}
	if err := h.Storage.Put(ctx, key, file, opts); err != nil {
		return models.Photo{}, fmt.Errorf("failed to store photo: %w", err)
	}

	return models.Photo{
		URL: h.MediaBaseURL + "/" + key,
		Key: key,
	}, nil
}

// detectImageType sniffs the content type and rewinds the reader.
func detectImageType(file multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if n == 0 {
		return "", errors.New("empty file")
	}
	return strings.ToLower(strings.Split(http.DetectContentType(buf[:n]), ";")[0]), nil
}

// cleanupPhotos removes stored files after a failed document write.
func (h *Handler) cleanupPhotos(ctx context.Context, photos []models.Photo) {
	for _, p := range photos {
		if err := h.Storage.Delete(ctx, p.Key); err != nil {
			h.Log.Warn("failed to clean up uploaded photo",
				zap.String("key", p.Key), zap.Error(err))
		}
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /myprofile/photos/remove                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRemovePhoto(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/myprofile/edit")
		return
	}

	key := r.FormValue("key")
	if key == "" {
		h.ErrLog.LogBadRequest(w, r, "remove photo without key", nil, "No photo selected.", "/myprofile/edit")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	removed, err := h.Profiles.RemovePhoto(ctx, userID, key)
	if errors.Is(err, profilestore.ErrNotFound) || errors.Is(err, profilestore.ErrPhotoNotFound) {
		h.ErrLog.LogBadRequest(w, r, "remove photo not found", err, "That photo no longer exists.", "/myprofile/edit")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "remove photo failed", err, "A database error occurred.", "/myprofile/edit")
		return
	}

	// The document write already succeeded; a failed file delete only
	// leaves an orphan on disk.
	if err := h.Storage.Delete(ctx, removed.Key); err != nil {
		h.Log.Warn("failed to delete photo file",
			zap.String("key", removed.Key), zap.Error(err))
	}

	http.Redirect(w, r, "/myprofile/edit", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /myprofile/photos/primary                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSetPrimaryPhoto(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/myprofile/edit")
		return
	}

	key := r.FormValue("key")
	if key == "" {
		h.ErrLog.LogBadRequest(w, r, "set primary without key", nil, "No photo selected.", "/myprofile/edit")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, err := h.Profiles.SetPrimaryPhoto(ctx, userID, key)
	if errors.Is(err, profilestore.ErrNotFound) || errors.Is(err, profilestore.ErrPhotoNotFound) {
		h.ErrLog.LogBadRequest(w, r, "set primary photo not found", err, "That photo no longer exists.", "/myprofile/edit")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "set primary photo failed", err, "A database error occurred.", "/myprofile/edit")
		return
	}

	http.Redirect(w, r, "/myprofile/edit", http.StatusSeeOther)
}
