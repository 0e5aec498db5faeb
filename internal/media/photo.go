package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-availability/internal/audit"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
)

type UploadResourcePhoto struct {
	repo  schedule.Repository
	store ObjectStore
	audit *audit.Dispatcher
}

func NewUploadResourcePhoto(
	repo schedule.Repository,
	store ObjectStore,
	audit *audit.Dispatcher,
) *UploadResourcePhoto {
	return &UploadResourcePhoto{
		repo:  repo,
		store: store,
		audit: audit,
	}
}

// Execute stores a new photo and points the resource at it. The previous
// object is left in place.
func (uc *UploadResourcePhoto) Execute(
	ctx context.Context,
	businessID uint,
	userID *uint,
	resourceID uint,
	data []byte,
) (string, error) {

	if _, err := uc.repo.GetResource(ctx, businessID, resourceID); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			return "", httperr.ErrBusiness("resource_not_found")
		}
		return "", err
	}

	out, err := Process(data)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("resources/%d/%d/%s.webp", businessID, resourceID, uuid.NewString())
	url, err := uc.store.Put(ctx, key, out, "image/webp")
	if err != nil {
		return "", err
	}

	if err := uc.repo.UpdateResourcePhoto(ctx, businessID, resourceID, url); err != nil {
		return "", err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     userID,
		Action:     "resource_photo_updated",
		Entity:     "resource",
		EntityID:   &resourceID,
		Metadata:   map[string]any{"url": url},
	})

	return url, nil
}
