package profilestore

import (
	"context"
	"time"

	"github.com/dalemusser/rishtahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo invariant: at most one photo in a collection has IsPrimary set,
// and a non-empty collection has exactly one once any upload happened.

// markFirstPrimary makes the first photo primary when none is, for a
// freshly built collection.
func markFirstPrimary(photos []models.Photo) []models.Photo {
	for _, ph := range photos {
		if ph.IsPrimary {
			return photos
		}
	}
	if len(photos) > 0 {
		photos[0].IsPrimary = true
	}
	return photos
}

// appendPhotos appends new uploads as non-primary, except when the
// collection was empty: then the first new photo becomes primary.
func appendPhotos(existing, added []models.Photo) []models.Photo {
	for i := range added {
		added[i].IsPrimary = false
	}
	if len(existing) == 0 && len(added) > 0 {
		added[0].IsPrimary = true
	}
	return append(existing, added...)
}

// AddPhotos appends uploads to the owner's profile. The first photo ever
// added becomes primary; later additions are non-primary.
func (s *Store) AddPhotos(ctx context.Context, userID primitive.ObjectID, photos []models.Photo) (*models.Profile, error) {
	p, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	p.Photos = appendPhotos(p.Photos, photos)
	p.UpdatedAt = time.Now().UTC()

	return p, s.save(ctx, p)
}

// RemovePhoto removes the photo with the given storage key from the
// owner's profile and returns it so the caller can issue the best-effort
// image-store delete. Removing the primary photo promotes the first
// remaining photo, keeping the one-primary invariant.
func (s *Store) RemovePhoto(ctx context.Context, userID primitive.ObjectID, key string) (models.Photo, error) {
	p, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return models.Photo{}, err
	}

	idx := -1
	for i, ph := range p.Photos {
		if ph.Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Photo{}, ErrPhotoNotFound
	}

	removed := p.Photos[idx]
	p.Photos = append(p.Photos[:idx], p.Photos[idx+1:]...)
	if removed.IsPrimary && len(p.Photos) > 0 {
		p.Photos[0].IsPrimary = true
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.save(ctx, p); err != nil {
		return models.Photo{}, err
	}
	return removed, nil
}

// SetPrimaryPhoto makes the photo with the given key primary and clears
// the flag everywhere else. An unknown key returns ErrPhotoNotFound and
// leaves the collection untouched.
func (s *Store) SetPrimaryPhoto(ctx context.Context, userID primitive.ObjectID, key string) (*models.Profile, error) {
	p, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, ph := range p.Photos {
		if ph.Key == key {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrPhotoNotFound
	}

	for i := range p.Photos {
		p.Photos[i].IsPrimary = p.Photos[i].Key == key
	}
	p.UpdatedAt = time.Now().UTC()

	return p, s.save(ctx, p)
}
