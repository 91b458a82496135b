package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"mime"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"clubsite-backend/internal/config"
	"clubsite-backend/internal/domains/media/model"
	"clubsite-backend/internal/infrastructure/storage"
	"clubsite-backend/internal/shared"
	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/internal/shared/crud"
	"clubsite-backend/pkg/logger"
	"clubsite-backend/pkg/metrics"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hibiken/asynq"
)

// ObjectStore is satisfied by *storage.MinIOStorage.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Remove(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	PublicURL(key string) string
}

// Optimizer is satisfied by *storage.ImageProcessor.
type Optimizer interface {
	Optimize(data []byte) (*storage.OptimizedImage, error)
}

// Enqueuer is satisfied by *queue.Client.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error
}

// ReferenceLister returns every media reference held by any record.
type ReferenceLister interface {
	ListReferences(ctx context.Context) ([]crud.MediaRef, error)
}

const (
	tokenLength   = 6
	deleteRetries = 5
)

var tokenSpace = new(big.Int).Exp(big.NewInt(36), big.NewInt(tokenLength), nil)

type Service struct {
	store     ObjectStore
	optimizer Optimizer
	queue     Enqueuer
	refs      ReferenceLister
	maxBytes  int64

	now   func() time.Time
	token func() (string, error)
}

func NewService(store ObjectStore, optimizer Optimizer, queue Enqueuer, refs ReferenceLister, cfg config.MediaConfig) *Service {
	return &Service{
		store:     store,
		optimizer: optimizer,
		queue:     queue,
		refs:      refs,
		maxBytes:  cfg.MaxUploadBytes,
		now:       time.Now,
		token:     randomToken,
	}
}

func (s *Service) MaxUploadBytes() int64 {
	return s.maxBytes
}

// Upload stores in.Data under a fresh key. Images are resized and
// re-encoded when possible; on any codec failure the original bytes are
// stored instead and the call still succeeds.
func (s *Service) Upload(ctx context.Context, ac auth.Context, in model.UploadInput) (*model.Asset, error) {
	if err := ac.Require(); err != nil {
		return nil, err
	}

	folder := model.NormalizeFolder(in.Folder)
	if folder == "" {
		return nil, model.ErrFolderRequired
	}
	if len(in.Data) == 0 {
		return nil, model.ErrFileRequired
	}
	if int64(len(in.Data)) > s.maxBytes {
		metrics.RecordUpload(folder, "rejected")
		return nil, model.ErrPayloadTooLarge
	}

	contentType := detectContentType(in.ContentType, in.Data)

	data := in.Data
	ext := ""
	asset := &model.Asset{Folder: folder, ContentType: contentType}

	if strings.HasPrefix(contentType, "image/") {
		out, err := s.optimizer.Optimize(in.Data)
		if err != nil {
			metrics.RecordOptimizationFallback()
			logger.Warn("Image optimization failed, storing original", map[string]interface{}{
				"folder":       folder,
				"filename":     in.Filename,
				"content_type": contentType,
				"error":        err.Error(),
			})
		} else {
			data = out.Data
			ext = out.Ext
			asset.ContentType = out.ContentType
			asset.Width = out.Width
			asset.Height = out.Height
			asset.Optimized = true
		}
	}
	if ext == "" {
		ext = model.OriginalExt(in.Filename, contentType)
	}

	token, err := s.token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreFailure, err)
	}
	key := model.BuildKey(folder, s.now(), token, in.Filename, ext)

	if err := s.store.Put(ctx, key, data, asset.ContentType); err != nil {
		metrics.RecordUpload(folder, "failed")
		return nil, fmt.Errorf("%w: %v", model.ErrStoreFailure, err)
	}

	asset.Path = key
	asset.URL = s.store.PublicURL(key)
	asset.Size = int64(len(data))

	outcome := "original"
	if asset.Optimized {
		outcome = "optimized"
	}
	metrics.RecordUpload(folder, outcome)

	logger.Info("Media uploaded", map[string]interface{}{
		"key":       key,
		"size":      asset.Size,
		"optimized": asset.Optimized,
		"admin":     ac.Email,
	})
	return asset, nil
}

// Delete removes key. Missing keys are not an error.
func (s *Service) Delete(ctx context.Context, ac auth.Context, key string) error {
	if err := ac.Require(); err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return model.ErrPathRequired
	}

	if err := s.store.Remove(ctx, key); err != nil {
		metrics.RecordMediaDelete("admin", "failed")
		return fmt.Errorf("%w: %v", model.ErrStoreFailure, err)
	}
	metrics.RecordMediaDelete("admin", "removed")
	return nil
}

// Discard deletes an asset a record no longer references. It never fails:
// a store error is logged with the owning record and a retry task queued.
func (s *Service) Discard(ctx context.Context, ref crud.MediaRef, owner string) {
	key, ok := model.ResolveKey(ref.Path, ref.URL)
	if !ok {
		metrics.RecordMediaDelete("discard", "skipped")
		logger.Warn("Media reference has no recoverable key, asset left for sweep", map[string]interface{}{
			"owner": owner,
			"url":   ref.URL,
		})
		return
	}

	err := s.store.Remove(ctx, key)
	if err == nil {
		metrics.RecordMediaDelete("discard", "removed")
		return
	}

	metrics.RecordMediaDelete("discard", "failed")
	logger.ErrorWith("Media delete failed, scheduling retry", err, map[string]interface{}{
		"owner": owner,
		"key":   key,
	})

	if s.queue == nil {
		return
	}
	qerr := s.queue.Enqueue(ctx, shared.TypeMediaDelete,
		model.DeletePayload{Key: key, Owner: owner},
		asynq.Queue(shared.QueueMedia),
		asynq.MaxRetry(deleteRetries),
	)
	if qerr != nil {
		logger.ErrorWith("Failed to enqueue media delete retry", qerr, map[string]interface{}{
			"owner": owner,
			"key":   key,
		})
	}
}

// RetryDelete is the worker side of Discard.
func (s *Service) RetryDelete(ctx context.Context, p model.DeletePayload) error {
	if err := s.store.Remove(ctx, p.Key); err != nil {
		metrics.RecordMediaDelete("retry", "failed")
		return fmt.Errorf("remove %s: %w", p.Key, err)
	}
	metrics.RecordMediaDelete("retry", "removed")
	return nil
}

// SweepOrphans removes objects that no record references and that are older
// than grace. Recent objects are kept so in-flight uploads (asset stored,
// record not saved yet) survive.
func (s *Service) SweepOrphans(ctx context.Context, grace time.Duration) (*model.SweepResult, error) {
	refs, err := s.refs.ListReferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	referenced := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if key, ok := model.ResolveKey(ref.Path, ref.URL); ok {
			referenced[key] = struct{}{}
		}
	}

	objects, err := s.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	result := &model.SweepResult{Scanned: len(objects)}
	cutoff := s.now().Add(-grace)
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			result.Referenced++
			continue
		}
		if obj.LastModified.After(cutoff) {
			result.Recent++
			continue
		}
		if err := s.store.Remove(ctx, obj.Key); err != nil {
			result.Failed++
			metrics.RecordMediaDelete("sweep", "failed")
			logger.ErrorWith("Orphan removal failed", err, map[string]interface{}{"key": obj.Key})
			continue
		}
		result.Removed++
		metrics.RecordMediaDelete("sweep", "removed")
	}
	return result, nil
}

// detectContentType trusts a specific declared type and sniffs otherwise.
func detectContentType(declared string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return mt
	}
	mt, _, _ := mime.ParseMediaType(mimetype.Detect(data).String())
	return mt
}

func randomToken() (string, error) {
	n, err := rand.Int(rand.Reader, tokenSpace)
	if err != nil {
		return "", err
	}
	tok := strconv.FormatInt(n.Int64(), 36)
	return strings.Repeat("0", tokenLength-len(tok)) + tok, nil
}

// ReadFile loads a multipart file, refusing anything above the upload
// ceiling without buffering it.
func (s *Service) ReadFile(fh *multipart.FileHeader) ([]byte, error) {
	if fh == nil {
		return nil, model.ErrFileRequired
	}
	if fh.Size > s.maxBytes {
		return nil, model.ErrPayloadTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, model.ErrPayloadTooLarge
	}
	return data, nil
}
