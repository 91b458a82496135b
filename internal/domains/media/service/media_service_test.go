package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"clubsite-backend/internal/config"
	"clubsite-backend/internal/domains/media/model"
	"clubsite-backend/internal/infrastructure/storage"
	"clubsite-backend/internal/shared"
	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/internal/shared/crud"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

type fakeStore struct {
	mu        sync.Mutex
	objects   map[string]storedObject
	puts      int
	putErr    error
	removeErr error
	removed   []string
	now       func() time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]storedObject{}, now: time.Now}
}

func (f *fakeStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.objects[key] = storedObject{data: data, contentType: contentType, lastModified: f.now()}
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []storage.ObjectInfo
	for k, o := range f.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(o.data)), LastModified: o.lastModified})
		}
	}
	return out, nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://cdn.club.local/media/" + key
}

type spyOptimizer struct {
	inner Optimizer
	calls int
}

func (s *spyOptimizer) Optimize(data []byte) (*storage.OptimizedImage, error) {
	s.calls++
	return s.inner.Optimize(data)
}

type enqueued struct {
	taskType string
	payload  interface{}
}

type fakeQueue struct {
	tasks []enqueued
	err   error
}

func (q *fakeQueue) Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, enqueued{taskType: taskType, payload: payload})
	return nil
}

type fakeRefs struct {
	refs []crud.MediaRef
}

func (r *fakeRefs) ListReferences(ctx context.Context) ([]crud.MediaRef, error) {
	return r.refs, nil
}

var admin = auth.Context{AdminID: uuid.New(), Email: "admin@club.local", Role: "admin"}

func newTestService(maxBytes int64) (*Service, *fakeStore, *spyOptimizer, *fakeQueue, *fakeRefs) {
	store := newFakeStore()
	opt := &spyOptimizer{inner: storage.NewImageProcessor(1920, 80)}
	q := &fakeQueue{}
	refs := &fakeRefs{}
	svc := NewService(store, opt, q, refs, config.MediaConfig{MaxUploadBytes: maxBytes})
	return svc, store, opt, q, refs
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUpload_SizeCeilingCheckedFirst(t *testing.T) {
	svc, store, opt, _, _ := newTestService(1024)

	_, err := svc.Upload(context.Background(), admin, model.UploadInput{
		Folder:      "players",
		Filename:    "big.png",
		ContentType: "image/png",
		Data:        make([]byte, 1025),
	})

	assert.ErrorIs(t, err, model.ErrPayloadTooLarge)
	assert.Equal(t, 400, model.ToHTTPStatus(err))
	assert.Zero(t, opt.calls, "no transformation attempted")
	assert.Zero(t, store.puts, "no object written")
}

func TestUpload_FolderRequired(t *testing.T) {
	svc, store, _, _, _ := newTestService(10 << 20)

	for _, folder := range []string{"", "  ", "///"} {
		_, err := svc.Upload(context.Background(), admin, model.UploadInput{
			Folder: folder, Filename: "a.png", ContentType: "image/png", Data: pngBytes(t, 4, 4),
		})
		assert.ErrorIs(t, err, model.ErrFolderRequired)
		assert.Equal(t, 400, model.ToHTTPStatus(err))
	}
	assert.Zero(t, store.puts)
}

func TestUpload_Unauthorized(t *testing.T) {
	svc, store, _, _, _ := newTestService(10 << 20)

	_, err := svc.Upload(context.Background(), auth.Context{}, model.UploadInput{
		Folder: "players", Filename: "a.png", ContentType: "image/png", Data: pngBytes(t, 4, 4),
	})
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
	assert.Zero(t, store.puts)
}

func TestUpload_NoUpscaleAndTargetFormat(t *testing.T) {
	svc, store, _, _, _ := newTestService(10 << 20)
	data := pngBytes(t, 500, 300)

	asset, err := svc.Upload(context.Background(), admin, model.UploadInput{
		Folder: "players", Filename: "striker.png", ContentType: "image/png", Data: data,
	})
	require.NoError(t, err)

	assert.True(t, asset.Optimized)
	assert.Equal(t, "image/jpeg", asset.ContentType)
	assert.True(t, strings.HasSuffix(asset.Path, "-striker.jpg"), asset.Path)
	assert.True(t, strings.HasPrefix(asset.Path, "players/"), asset.Path)

	stored := store.objects[asset.Path]
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(stored.data))
	require.NoError(t, err, "stored object is a JPEG")
	assert.Equal(t, 500, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
	assert.Equal(t, "image/jpeg", stored.contentType)
}

func TestUpload_WideImageShrunkTo1920(t *testing.T) {
	svc, store, _, _, _ := newTestService(10 << 20)

	asset, err := svc.Upload(context.Background(), admin, model.UploadInput{
		Folder: "galleries", Filename: "panorama.png", ContentType: "image/png", Data: pngBytes(t, 2400, 600),
	})
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(store.objects[asset.Path].data))
	require.NoError(t, err)
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, 1920, asset.Width)
}

func TestUpload_FallbackStoresOriginalBytes(t *testing.T) {
	svc, store, opt, _, _ := newTestService(10 << 20)
	corrupt := []byte("\x89PNG\r\n\x1a\nthis is not really a png")

	asset, err := svc.Upload(context.Background(), admin, model.UploadInput{
		Folder: "players", Filename: "broken.png", ContentType: "image/png", Data: corrupt,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, opt.calls)
	assert.False(t, asset.Optimized)
	assert.True(t, strings.HasSuffix(asset.Path, "-broken.png"), asset.Path)
	assert.Equal(t, corrupt, store.objects[asset.Path].data)
	assert.Equal(t, "image/png", store.objects[asset.Path].contentType)

	key, ok := model.KeyFromURL(asset.URL)
	require.True(t, ok)
	assert.Equal(t, asset.Path, key)
}

func TestUpload_FallbackWithoutExtension(t *testing.T) {
	svc, _, _, _, _ := newTestService(10 << 20)

	asset, err := svc.Upload(context.Background(), admin, model.UploadInput{
		Folder: "players", Filename: "blob", ContentType: "image/x-unknown-format", Data: []byte("garbage"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(asset.Path, "-blob.bin"), asset.Path)
}

func TestUpload_NonImageBypassesOptimizer(t *testing.T) {
	svc, store, opt, _, _ := newTestService(10 << 20)
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")

	asset, err := svc.Upload(context.Background(), admin, model.UploadInput{
		Folder: "documents", Filename: "fixtures.pdf", ContentType: "", Data: pdf,
	})
	require.NoError(t, err)

	assert.Zero(t, opt.calls)
	assert.Equal(t, "application/pdf", asset.ContentType)
	assert.True(t, strings.HasSuffix(asset.Path, "-fixtures.pdf"))
	assert.Equal(t, pdf, store.objects[asset.Path].data)
}

func TestUpload_SniffsOctetStream(t *testing.T) {
	svc, _, opt, _, _ := newTestService(10 << 20)

	asset, err := svc.Upload(context.Background(), admin, model.UploadInput{
		Folder: "coaches", Filename: "headshot", ContentType: "application/octet-stream", Data: pngBytes(t, 10, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, opt.calls)
	assert.True(t, asset.Optimized)
}

func TestUpload_KeysDifferForIdenticalContent(t *testing.T) {
	svc, store, _, _, _ := newTestService(10 << 20)
	fixed := time.UnixMilli(1714560000000)
	svc.now = func() time.Time { return fixed }
	data := pngBytes(t, 500, 300)

	in := model.UploadInput{Folder: "players", Filename: "same.png", ContentType: "image/png", Data: data}
	a1, err := svc.Upload(context.Background(), admin, in)
	require.NoError(t, err)
	a2, err := svc.Upload(context.Background(), admin, in)
	require.NoError(t, err)

	assert.NotEqual(t, a1.Path, a2.Path)
	assert.Len(t, store.objects, 2)
	for _, a := range []*model.Asset{a1, a2} {
		key, ok := model.KeyFromURL(a.URL)
		require.True(t, ok)
		assert.Equal(t, a.Path, key)
	}
}

func TestUpload_StoreFailureAttachesMessage(t *testing.T) {
	svc, store, _, _, _ := newTestService(10 << 20)
	store.putErr = errors.New("bucket unreachable")

	_, err := svc.Upload(context.Background(), admin, model.UploadInput{
		Folder: "players", Filename: "a.png", ContentType: "image/png", Data: pngBytes(t, 4, 4),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrStoreFailure)
	assert.Contains(t, err.Error(), "bucket unreachable")
	assert.Equal(t, 500, model.ToHTTPStatus(err))
}

func TestDelete_Idempotent(t *testing.T) {
	svc, store, _, _, _ := newTestService(10 << 20)
	asset, err := svc.Upload(context.Background(), admin, model.UploadInput{
		Folder: "players", Filename: "a.png", ContentType: "image/png", Data: pngBytes(t, 4, 4),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), admin, asset.Path))
	require.NoError(t, svc.Delete(context.Background(), admin, asset.Path))
	assert.Empty(t, store.objects)

	assert.ErrorIs(t, svc.Delete(context.Background(), admin, " "), model.ErrPathRequired)
	assert.ErrorIs(t, svc.Delete(context.Background(), auth.Context{}, asset.Path), auth.ErrUnauthorized)
}

func TestDiscard(t *testing.T) {
	t.Run("removes by stored path", func(t *testing.T) {
		svc, store, _, q, _ := newTestService(10 << 20)
		svc.Discard(context.Background(), crud.MediaRef{Path: "players/1-a-x.jpg"}, "players:1")
		assert.Equal(t, []string{"players/1-a-x.jpg"}, store.removed)
		assert.Empty(t, q.tasks)
	})

	t.Run("falls back to url", func(t *testing.T) {
		svc, store, _, _, _ := newTestService(10 << 20)
		svc.Discard(context.Background(), crud.MediaRef{URL: "https://cdn/media/coaches/2-b-y.jpg?v=1"}, "coaches:2")
		assert.Equal(t, []string{"coaches/2-b-y.jpg"}, store.removed)
	})

	t.Run("unrecoverable url is skipped", func(t *testing.T) {
		svc, store, _, q, _ := newTestService(10 << 20)
		svc.Discard(context.Background(), crud.MediaRef{URL: "https://elsewhere/photo.jpg"}, "coaches:3")
		assert.Empty(t, store.removed)
		assert.Empty(t, q.tasks)
	})

	t.Run("store failure enqueues retry", func(t *testing.T) {
		svc, store, _, q, _ := newTestService(10 << 20)
		store.removeErr = errors.New("timeout")
		svc.Discard(context.Background(), crud.MediaRef{Path: "players/1-a-x.jpg"}, "players:1")

		require.Len(t, q.tasks, 1)
		assert.Equal(t, shared.TypeMediaDelete, q.tasks[0].taskType)
		assert.Equal(t, model.DeletePayload{Key: "players/1-a-x.jpg", Owner: "players:1"}, q.tasks[0].payload)
	})
}

func TestSweepOrphans(t *testing.T) {
	svc, store, _, _, refs := newTestService(10 << 20)
	now := time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	old := now.Add(-48 * time.Hour)
	store.objects["players/1-a-kept.jpg"] = storedObject{lastModified: old}
	store.objects["coaches/1-a-legacy.jpg"] = storedObject{lastModified: old}
	store.objects["players/1-a-orphan.jpg"] = storedObject{lastModified: old}
	store.objects["players/1-a-fresh.jpg"] = storedObject{lastModified: now.Add(-time.Hour)}

	refs.refs = []crud.MediaRef{
		{Path: "players/1-a-kept.jpg", URL: "https://cdn/media/players/1-a-kept.jpg"},
		{URL: "https://cdn/media/coaches/1-a-legacy.jpg"},
		{},
	}

	res, err := svc.SweepOrphans(context.Background(), 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, &model.SweepResult{Scanned: 4, Referenced: 2, Recent: 1, Removed: 1}, res)
	assert.Equal(t, []string{"players/1-a-orphan.jpg"}, store.removed)
}

func TestRandomToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tok, err := randomToken()
		require.NoError(t, err)
		assert.Len(t, tok, tokenLength)
		assert.Regexp(t, `^[0-9a-z]+$`, tok)
		seen[tok] = true
	}
	assert.Greater(t, len(seen), 45)
}
