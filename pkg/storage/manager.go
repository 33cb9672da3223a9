package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Manager resolves named disks.
type Manager struct {
	mu    sync.RWMutex
	disks map[string]Disk
	def   string
}

// NewManager boots the local disk and, when S3_BUCKET is set, the s3 disk.
// An s3 disk that fails to configure is logged and left out.
func NewManager(ctx context.Context) (*Manager, error) {
	m := &Manager{
		disks: map[string]Disk{
			"local": NewLocal(config.StorageLocalRoot(), config.StorageURL()),
		},
		def: config.StorageDefault(),
	}

	if config.StorageS3Bucket() != "" {
		d, err := NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			m.disks["s3"] = d
		}
	}

	if _, ok := m.disks[m.def]; !ok {
		return nil, fmt.Errorf("storage: default disk %q is not configured", m.def)
	}
	return m, nil
}

// NewManagerWith builds a manager around a single disk, mostly for tests.
func NewManagerWith(name string, d Disk) *Manager {
	return &Manager{disks: map[string]Disk{name: d}, def: name}
}

// Use returns the named disk.
func (m *Manager) Use(name string) (Disk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Register plugs in a disk at boot time.
func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	m.disks[name] = d
	m.mu.Unlock()
}

func (m *Manager) Default() Disk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.disks[m.def]
}
