package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect boots the local disk and, when S3_BUCKET is set, the s3 disk.
// An s3 failure leaves the disk disabled and is logged.
func Connect(ctx context.Context) {
	RegisterDisk("local", NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()))

	if config.StorageS3Bucket() != "" {
		d, err := NewS3Disk(ctx, S3Config{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			RegisterDisk("s3", d)
		}
	}

	managerMu.Lock()
	defaultDisk = config.StorageDefault()
	managerMu.Unlock()
}

// RegisterDisk installs d under name.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	defer managerMu.Unlock()
	disks[name] = d
}

// SetDefault changes which disk Default returns.
func SetDefault(name string) {
	managerMu.Lock()
	defer managerMu.Unlock()
	defaultDisk = name
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	managerMu.RLock()
	defer managerMu.RUnlock()
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the STORAGE_DISK disk, falling back to local.
func Default() Disk {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()

	if d, err := Use(name); err == nil {
		return d
	}
	if d, err := Use("local"); err == nil {
		return d
	}
	return NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
}

// Local returns the local disk when one is registered.
func Local() (*LocalDisk, bool) {
	d, err := Use("local")
	if err != nil {
		return nil, false
	}
	ld, ok := d.(*LocalDisk)
	return ld, ok
}
