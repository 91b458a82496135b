package service

import (
	"context"

	"clubsite-backend/internal/domains/gallery/model"
	mediaModel "clubsite-backend/internal/domains/media/model"
	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/internal/shared/crud"
	"clubsite-backend/pkg/logger"

	"github.com/google/uuid"
)

// MaxBulkFiles caps one bulk upload request.
const MaxBulkFiles = 50

// ImageRepository is satisfied by *repository.PostgresRepository.
type ImageRepository interface {
	GalleryExists(ctx context.Context, id uuid.UUID) (bool, error)
	ListImages(ctx context.Context, galleryID uuid.UUID) ([]model.Image, error)
	GetImage(ctx context.Context, galleryID, imageID uuid.UUID) (model.Image, error)
	InsertImage(ctx context.Context, galleryID uuid.UUID, in model.NewImage) (model.Image, error)
	UpdateCaption(ctx context.Context, galleryID, imageID uuid.UUID, caption *string) (model.Image, error)
	DeleteImage(ctx context.Context, galleryID, imageID uuid.UUID) error
}

// Uploader is satisfied by the media service.
type Uploader interface {
	Upload(ctx context.Context, ac auth.Context, in mediaModel.UploadInput) (*mediaModel.Asset, error)
}

// Invalidator drops the public gallery cache.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// File is one uploaded image waiting to be stored.
// File is one upload. Bulk callers set Open instead of Data so only the
// file being stored is held in memory.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
	Open        func() ([]byte, error)
}

func (f File) load() ([]byte, error) {
	if f.Data != nil || f.Open == nil {
		return f.Data, nil
	}
	return f.Open()
}

// ImageService manages the images nested under one gallery.
type ImageService struct {
	repo      ImageRepository
	uploader  Uploader
	media     crud.MediaDiscarder
	galleries Invalidator
}

func NewImageService(repo ImageRepository, uploader Uploader, media crud.MediaDiscarder, galleries Invalidator) *ImageService {
	return &ImageService{
		repo:      repo,
		uploader:  uploader,
		media:     media,
		galleries: galleries,
	}
}

func (s *ImageService) List(ctx context.Context, ac auth.Context, galleryID uuid.UUID) ([]model.Image, error) {
	if err := ac.Require(); err != nil {
		return nil, err
	}
	if err := s.requireGallery(ctx, galleryID); err != nil {
		return nil, err
	}
	return s.repo.ListImages(ctx, galleryID)
}

// Add uploads f and appends it to the gallery.
func (s *ImageService) Add(ctx context.Context, ac auth.Context, galleryID uuid.UUID, f File, caption *string) (model.Image, error) {
	if err := ac.Require(); err != nil {
		return model.Image{}, err
	}
	if err := s.requireGallery(ctx, galleryID); err != nil {
		return model.Image{}, err
	}

	cp := model.CaptionPatch{Caption: caption}.Normalized()
	if err := cp.Validate(); err != nil {
		return model.Image{}, err
	}

	img, err := s.add(ctx, ac, galleryID, f, cp.Caption)
	if err != nil {
		return model.Image{}, err
	}
	s.galleries.Invalidate(ctx)
	return img, nil
}

// AddBulk stores files one after another. It stops at the first failure
// and returns the images inserted so far together with a *model.BulkError;
// those images are not rolled back.
func (s *ImageService) AddBulk(ctx context.Context, ac auth.Context, galleryID uuid.UUID, files []File) ([]model.Image, error) {
	if err := ac.Require(); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, mediaModel.ErrFileRequired
	}
	if len(files) > MaxBulkFiles {
		return nil, model.ErrTooManyFiles
	}
	if err := s.requireGallery(ctx, galleryID); err != nil {
		return nil, err
	}

	inserted := make([]model.Image, 0, len(files))
	defer func() {
		if len(inserted) > 0 {
			s.galleries.Invalidate(ctx)
		}
	}()

	for _, f := range files {
		img, err := s.add(ctx, ac, galleryID, f, nil)
		if err != nil {
			logger.ErrorWith("Bulk gallery upload stopped", err, map[string]interface{}{
				"gallery_id": galleryID.String(),
				"inserted":   len(inserted),
				"total":      len(files),
				"filename":   f.Filename,
			})
			return inserted, &model.BulkError{Inserted: len(inserted), Failed: f.Filename, Err: err}
		}
		inserted = append(inserted, img)
	}

	logger.Info("Bulk gallery upload finished", map[string]interface{}{
		"gallery_id": galleryID.String(),
		"inserted":   len(inserted),
		"admin":      ac.Email,
	})
	return inserted, nil
}

func (s *ImageService) UpdateCaption(ctx context.Context, ac auth.Context, galleryID, imageID uuid.UUID, p model.CaptionPatch) (model.Image, error) {
	if err := ac.Require(); err != nil {
		return model.Image{}, err
	}
	p = p.Normalized()
	if err := p.Validate(); err != nil {
		return model.Image{}, err
	}

	img, err := s.repo.UpdateCaption(ctx, galleryID, imageID, p.Caption)
	if err != nil {
		return model.Image{}, err
	}
	s.galleries.Invalidate(ctx)
	return img, nil
}

// Delete removes the image row, then its asset.
func (s *ImageService) Delete(ctx context.Context, ac auth.Context, galleryID, imageID uuid.UUID) error {
	if err := ac.Require(); err != nil {
		return err
	}

	img, err := s.repo.GetImage(ctx, galleryID, imageID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteImage(ctx, galleryID, imageID); err != nil {
		return err
	}

	s.galleries.Invalidate(ctx)
	if ref := img.MediaRef(); !ref.Empty() {
		s.media.Discard(ctx, ref, imageOwner(galleryID, imageID))
	}
	return nil
}

func (s *ImageService) add(ctx context.Context, ac auth.Context, galleryID uuid.UUID, f File, caption *string) (model.Image, error) {
	data, err := f.load()
	if err != nil {
		return model.Image{}, err
	}
	asset, err := s.uploader.Upload(ctx, ac, mediaModel.UploadInput{
		Folder:      model.MediaFolder,
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Data:        data,
	})
	if err != nil {
		return model.Image{}, err
	}

	img, err := s.repo.InsertImage(ctx, galleryID, model.NewImage{
		ImageURL:  asset.URL,
		ImagePath: asset.Path,
		Caption:   caption,
	})
	if err != nil {
		// the object was stored but nothing references it
		s.media.Discard(ctx, crud.MediaRef{Path: asset.Path, URL: asset.URL}, "gallery:"+galleryID.String())
		return model.Image{}, err
	}
	return img, nil
}

func (s *ImageService) requireGallery(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.GalleryExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return crud.ErrNotFound
	}
	return nil
}

func imageOwner(galleryID, imageID uuid.UUID) string {
	return "gallery:" + galleryID.String() + "/image:" + imageID.String()
}
