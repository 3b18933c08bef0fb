package storage

import (
	"context"
	"fmt"

	"github.com/neomdavid/IAX-ROLEX-backend/config"
)

// FromConfig builds the disk named by STORAGE_DISK ("local" or "s3").
func FromConfig(ctx context.Context) (Disk, error) {
	switch driver := config.StorageDefault(); driver {
	case "local", "":
		return NewLocalDisk(config.StorageLocalRoot())
	case "s3":
		return NewS3Disk(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			Prefix:   config.StorageS3Prefix(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q", driver)
	}
}
