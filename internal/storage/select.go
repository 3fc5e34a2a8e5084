package storage

import (
	"fmt"
	"path/filepath"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/config"
)

// DiskPrefix is the URL prefix the server mounts disk uploads under.
const DiskPrefix = "/uploads"

// New builds the object store named by STORAGE_DRIVER.
func New(cfg *config.Config) (ObjectStore, error) {
	switch cfg.StorageDriver {
	case "supabase":
		if cfg.StorageURL == "" || cfg.StorageServiceKey == "" {
			return nil, fmt.Errorf("supabase storage needs STORAGE_URL and STORAGE_SERVICE_KEY")
		}
		return NewSupabaseStore(cfg.StorageURL, cfg.StorageServiceKey, cfg.StorageBucket), nil
	case "", "disk":
		return NewDiskStore(cfg.UploadDir, cfg.StoragePublicBase)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// DiskServeRoot is the directory whose files appear under DiskPrefix. Object
// paths start with "uploads/", so it is the uploads folder inside UploadDir.
func DiskServeRoot(cfg *config.Config) string {
	return filepath.Join(cfg.UploadDir, DiskPrefix)
}
