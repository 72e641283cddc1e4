package photo

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/garage-manager/internal/audit"
	domain "github.com/BruksfildServices01/garage-manager/internal/domain/photo"
	service "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/storage"
)

type Photos struct {
	repo  domain.Repository
	store storage.ObjectStore
	audit audit.Recorder
	log   logrus.FieldLogger
}

func NewPhotos(
	repo domain.Repository,
	store storage.ObjectStore,
	rec audit.Recorder,
	log logrus.FieldLogger,
) *Photos {
	return &Photos{repo: repo, store: store, audit: rec, log: log}
}

// ======================================================
// UPLOAD
// ======================================================

func (uc *Photos) Upload(
	ctx context.Context,
	actor service.Actor,
	serviceID uint,
	r io.Reader,
	caption string,
) (*models.Photo, error) {

	s, err := uc.service(ctx, actor, serviceID)
	if err != nil {
		return nil, err
	}

	img, err := storage.Transcode(r)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return nil, httperr.ErrBusiness("unsupported_image")
		}
		if errors.Is(err, storage.ErrImageTooLarge) {
			return nil, httperr.ErrBusiness("image_too_large")
		}
		return nil, err
	}

	key := storage.PhotoKey(s.ID)
	if err := uc.store.Put(ctx, key, "image/webp", img.Data); err != nil {
		return nil, storageErr(err)
	}

	p := &models.Photo{
		ServiceID:   s.ID,
		ObjectKey:   key,
		ContentType: "image/webp",
		SizeBytes:   int64(len(img.Data)),
		Width:       img.Width,
		Height:      img.Height,
		Caption:     caption,
	}
	if err := uc.repo.CreatePhoto(ctx, p); err != nil {
		// the row is the source of truth, drop the orphan
		if derr := uc.store.Delete(ctx, key); derr != nil {
			uc.log.WithError(derr).WithField("key", key).Warn("failed to remove orphaned photo")
		}
		return nil, err
	}

	if url, err := uc.store.URL(ctx, key); err == nil {
		p.URL = url
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "photo_uploaded",
		Entity:   "service",
		EntityID: &s.ID,
		Metadata: map[string]any{"photo_id": p.ID, "size_bytes": p.SizeBytes},
	})

	return p, nil
}

// ======================================================
// LIST
// ======================================================

func (uc *Photos) List(
	ctx context.Context,
	actor service.Actor,
	serviceID uint,
) ([]models.Photo, error) {

	s, err := uc.service(ctx, actor, serviceID)
	if err != nil {
		return nil, err
	}

	photos, err := uc.repo.ListPhotos(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	for i := range photos {
		url, err := uc.store.URL(ctx, photos[i].ObjectKey)
		if err != nil {
			uc.log.WithError(err).WithField("photo_id", photos[i].ID).Warn("failed to sign photo url")
			continue
		}
		photos[i].URL = url
	}
	return photos, nil
}

// ======================================================
// DELETE
// ======================================================

func (uc *Photos) Delete(
	ctx context.Context,
	actor service.Actor,
	serviceID uint,
	photoID uint,
) error {

	s, err := uc.service(ctx, actor, serviceID)
	if err != nil {
		return err
	}

	p, err := uc.repo.GetPhoto(ctx, s.ID, photoID)
	if err != nil {
		return err
	}
	if p == nil {
		return httperr.ErrBusiness("photo_not_found")
	}

	if err := uc.repo.DeletePhoto(ctx, p.ID); err != nil {
		return err
	}

	if err := uc.store.Delete(ctx, p.ObjectKey); err != nil {
		uc.log.WithError(err).WithField("key", p.ObjectKey).Warn("failed to delete photo object")
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "photo_deleted",
		Entity:   "service",
		EntityID: &s.ID,
		Metadata: map[string]any{"photo_id": p.ID},
	})

	return nil
}

func (uc *Photos) service(ctx context.Context, actor service.Actor, id uint) (*models.Service, error) {
	s, err := uc.repo.GetService(ctx, id, actor.Scope(nil))
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return s, nil
}

func storageErr(err error) error {
	if errors.Is(err, storage.ErrNotConfigured) {
		return httperr.ErrBusiness("storage_unavailable")
	}
	return err
}
