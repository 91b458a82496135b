package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"clubsite-backend/internal/domains/gallery/model"
	mediaModel "clubsite-backend/internal/domains/media/model"
	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/internal/shared/crud"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = auth.Context{AdminID: uuid.New(), Email: "admin@club.local", Role: "admin"}

type fakeImageRepo struct {
	galleries map[uuid.UUID]bool
	images    []model.Image
	inserts   int
	failOn    int // 1-based insert call that fails; 0 never fails
}

func newFakeImageRepo(galleryID uuid.UUID) *fakeImageRepo {
	return &fakeImageRepo{galleries: map[uuid.UUID]bool{galleryID: true}}
}

func (r *fakeImageRepo) GalleryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.galleries[id], nil
}

func (r *fakeImageRepo) ListImages(ctx context.Context, galleryID uuid.UUID) ([]model.Image, error) {
	out := []model.Image{}
	for _, img := range r.images {
		if img.GalleryID == galleryID {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (r *fakeImageRepo) GetImage(ctx context.Context, galleryID, imageID uuid.UUID) (model.Image, error) {
	for _, img := range r.images {
		if img.ID == imageID && img.GalleryID == galleryID {
			return img, nil
		}
	}
	return model.Image{}, crud.ErrNotFound
}

func (r *fakeImageRepo) InsertImage(ctx context.Context, galleryID uuid.UUID, in model.NewImage) (model.Image, error) {
	r.inserts++
	if r.failOn > 0 && r.inserts == r.failOn {
		return model.Image{}, errors.New("connection reset")
	}
	order := 0
	for _, img := range r.images {
		if img.GalleryID == galleryID && img.DisplayOrder > order {
			order = img.DisplayOrder
		}
	}
	img := model.Image{
		ID:           uuid.New(),
		GalleryID:    galleryID,
		ImageURL:     in.ImageURL,
		ImagePath:    in.ImagePath,
		Caption:      in.Caption,
		DisplayOrder: order + 1,
	}
	r.images = append(r.images, img)
	return img, nil
}

func (r *fakeImageRepo) UpdateCaption(ctx context.Context, galleryID, imageID uuid.UUID, caption *string) (model.Image, error) {
	for i, img := range r.images {
		if img.ID == imageID && img.GalleryID == galleryID {
			r.images[i].Caption = caption
			return r.images[i], nil
		}
	}
	return model.Image{}, crud.ErrNotFound
}

func (r *fakeImageRepo) DeleteImage(ctx context.Context, galleryID, imageID uuid.UUID) error {
	for i, img := range r.images {
		if img.ID == imageID && img.GalleryID == galleryID {
			r.images = append(r.images[:i], r.images[i+1:]...)
			return nil
		}
	}
	return crud.ErrNotFound
}

type fakeUploader struct {
	calls int
}

func (u *fakeUploader) Upload(ctx context.Context, ac auth.Context, in mediaModel.UploadInput) (*mediaModel.Asset, error) {
	if err := ac.Require(); err != nil {
		return nil, err
	}
	u.calls++
	key := fmt.Sprintf("%s/%d-abc123-%s.jpg", in.Folder, u.calls, mediaModel.Basename(in.Filename))
	return &mediaModel.Asset{Path: key, URL: "http://cdn.local/media/" + key, Folder: in.Folder}, nil
}

type recordingDiscarder struct {
	refs []crud.MediaRef
}

func (d *recordingDiscarder) Discard(ctx context.Context, ref crud.MediaRef, owner string) {
	d.refs = append(d.refs, ref)
}

type countingInvalidator struct {
	n int
}

func (i *countingInvalidator) Invalidate(ctx context.Context) { i.n++ }

func files(n int) []File {
	out := make([]File, n)
	for i := range out {
		out[i] = File{Filename: fmt.Sprintf("photo-%d.png", i+1), ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	}
	return out
}

func newImageService(repo *fakeImageRepo) (*ImageService, *fakeUploader, *recordingDiscarder, *countingInvalidator) {
	up := &fakeUploader{}
	disc := &recordingDiscarder{}
	inv := &countingInvalidator{}
	return NewImageService(repo, up, disc, inv), up, disc, inv
}

func TestAddBulk_StoresInIncreasingOrder(t *testing.T) {
	galleryID := uuid.New()
	repo := newFakeImageRepo(galleryID)
	svc, _, _, inv := newImageService(repo)

	images, err := svc.AddBulk(context.Background(), admin, galleryID, files(4))
	require.NoError(t, err)
	require.Len(t, images, 4)
	for i, img := range images {
		assert.Equal(t, i+1, img.DisplayOrder)
		assert.Contains(t, img.ImagePath, "galleries/")
	}
	assert.Equal(t, 1, inv.n)
}

func TestAddBulk_PartialFailureKeepsPrefix(t *testing.T) {
	galleryID := uuid.New()
	repo := newFakeImageRepo(galleryID)
	repo.failOn = 3
	svc, up, disc, inv := newImageService(repo)

	images, err := svc.AddBulk(context.Background(), admin, galleryID, files(5))
	require.Error(t, err)

	var bulkErr *model.BulkError
	require.ErrorAs(t, err, &bulkErr)
	assert.Equal(t, 2, bulkErr.Inserted)
	assert.Equal(t, "photo-3.png", bulkErr.Failed)

	assert.Len(t, images, 2)
	persisted, _ := repo.ListImages(context.Background(), galleryID)
	assert.Len(t, persisted, 2, "images 1-2 stay, nothing rolled back")
	assert.Equal(t, 3, up.calls, "files after the failure are not uploaded")

	// the third file was stored but never referenced
	require.Len(t, disc.refs, 1)
	assert.Contains(t, disc.refs[0].Path, "photo-3")
	assert.Equal(t, 1, inv.n)
}

func TestAddBulk_Rejects(t *testing.T) {
	galleryID := uuid.New()
	svc, up, _, _ := newImageService(newFakeImageRepo(galleryID))
	ctx := context.Background()

	_, err := svc.AddBulk(ctx, auth.Context{}, galleryID, files(1))
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = svc.AddBulk(ctx, admin, galleryID, nil)
	assert.ErrorIs(t, err, mediaModel.ErrFileRequired)

	_, err = svc.AddBulk(ctx, admin, galleryID, files(MaxBulkFiles+1))
	assert.ErrorIs(t, err, model.ErrTooManyFiles)

	_, err = svc.AddBulk(ctx, admin, uuid.New(), files(1))
	assert.ErrorIs(t, err, crud.ErrNotFound)

	assert.Zero(t, up.calls)
}

func TestAdd_AppendsAfterExisting(t *testing.T) {
	galleryID := uuid.New()
	repo := newFakeImageRepo(galleryID)
	svc, _, _, _ := newImageService(repo)
	ctx := context.Background()

	_, err := svc.AddBulk(ctx, admin, galleryID, files(2))
	require.NoError(t, err)

	caption := "  Team photo "
	img, err := svc.Add(ctx, admin, galleryID, File{Filename: "team.jpg", Data: []byte("x")}, &caption)
	require.NoError(t, err)
	assert.Equal(t, 3, img.DisplayOrder)
	require.NotNil(t, img.Caption)
	assert.Equal(t, "Team photo", *img.Caption)
}

func TestUpdateCaption(t *testing.T) {
	galleryID := uuid.New()
	repo := newFakeImageRepo(galleryID)
	svc, _, _, inv := newImageService(repo)
	ctx := context.Background()

	images, err := svc.AddBulk(ctx, admin, galleryID, files(1))
	require.NoError(t, err)

	caption := "Full time"
	updated, err := svc.UpdateCaption(ctx, admin, galleryID, images[0].ID, model.CaptionPatch{Caption: &caption})
	require.NoError(t, err)
	assert.Equal(t, "Full time", *updated.Caption)
	assert.Equal(t, 2, inv.n)

	_, err = svc.UpdateCaption(ctx, admin, galleryID, uuid.New(), model.CaptionPatch{Caption: &caption})
	assert.ErrorIs(t, err, crud.ErrNotFound)
}

func TestDelete_RemovesRowThenDiscardsAsset(t *testing.T) {
	galleryID := uuid.New()
	repo := newFakeImageRepo(galleryID)
	svc, _, disc, _ := newImageService(repo)
	ctx := context.Background()

	images, err := svc.AddBulk(ctx, admin, galleryID, files(2))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, admin, galleryID, images[0].ID))

	left, _ := repo.ListImages(ctx, galleryID)
	require.Len(t, left, 1)
	assert.Equal(t, images[1].ID, left[0].ID)
	require.Len(t, disc.refs, 1)
	assert.Equal(t, images[0].ImagePath, disc.refs[0].Path)

	err = svc.Delete(ctx, admin, galleryID, images[0].ID)
	assert.ErrorIs(t, err, crud.ErrNotFound)
	assert.Len(t, disc.refs, 1)
}

func TestDelete_Unauthorized(t *testing.T) {
	galleryID := uuid.New()
	repo := newFakeImageRepo(galleryID)
	svc, _, disc, _ := newImageService(repo)

	images, err := svc.AddBulk(context.Background(), admin, galleryID, files(1))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), auth.Context{}, galleryID, images[0].ID)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
	assert.Len(t, repo.images, 1)
	assert.Empty(t, disc.refs)
}

func TestAddBulk_ReadsOneFileAtATime(t *testing.T) {
	galleryID := uuid.New()
	repo := newFakeImageRepo(galleryID)
	svc, up, _, _ := newImageService(repo)

	var trace []string
	lazy := make([]File, 4)
	for i := range lazy {
		lazy[i] = File{
			Filename: fmt.Sprintf("photo-%d.png", i+1),
			Open: func() ([]byte, error) {
				trace = append(trace, fmt.Sprintf("open %d after %d uploads", i+1, up.calls))
				if i == 2 {
					return nil, mediaModel.ErrPayloadTooLarge
				}
				return []byte{0x89, 'P', 'N', 'G'}, nil
			},
		}
	}

	images, err := svc.AddBulk(context.Background(), admin, galleryID, lazy)

	var bulkErr *model.BulkError
	require.ErrorAs(t, err, &bulkErr)
	assert.ErrorIs(t, err, mediaModel.ErrPayloadTooLarge)
	assert.Equal(t, "photo-3.png", bulkErr.Failed)
	assert.Len(t, images, 2)
	assert.Equal(t, []string{
		"open 1 after 0 uploads",
		"open 2 after 1 uploads",
		"open 3 after 2 uploads",
	}, trace, "file 4 is never read")
}
