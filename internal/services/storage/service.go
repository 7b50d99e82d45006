package storage

import (
	"time"

	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"

	"github.com/hoangvu/gesture-crop/internal/config"
)

// StorageService owns the persistence collaborators: the local temp dir for
// materializing artifacts, Supabase for durable uploads and Redis for the
// OCR result cache. Supabase is optional; without credentials uploads are
// reported as not configured.
type StorageService struct {
	sbClient      *storage_go.Client
	redisClient   *redis.Client
	bucket        string
	tempDir       string
	cacheDuration time.Duration
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	var sbClient *storage_go.Client
	if cfg.Supabase.URL != "" {
		sbClient = storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	return &StorageService{
		sbClient:      sbClient,
		redisClient:   redisClient,
		bucket:        cfg.Supabase.BUCKET,
		tempDir:       cfg.Storage.TempDir,
		cacheDuration: cfg.Storage.CacheDuration,
	}, nil
}

// CanUpload reports whether a storage backend is configured.
func (s *StorageService) CanUpload() bool {
	return s.sbClient != nil
}
