// Package storage provides the top-level StorageManager over the
// embedded internaldb store.
package storage

import (
	"fmt"

	"github.com/testserebro/crypto-tracker/internal/common"
	"github.com/testserebro/crypto-tracker/internal/interfaces"
	"github.com/testserebro/crypto-tracker/internal/storage/internaldb"
)

// Manager implements interfaces.StorageManager.
type Manager struct {
	internal *internaldb.Store
	logger   *common.Logger
}

// NewManager creates a new StorageManager.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	internalStore, err := internaldb.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create internal store: %w", err)
	}

	logger.Info().Str("path", config.Storage.Path).Msg("Storage manager initialized")

	return &Manager{
		internal: internalStore,
		logger:   logger,
	}, nil
}

func (m *Manager) UserStore() interfaces.UserStore {
	return m.internal
}

func (m *Manager) FavoriteStore() interfaces.FavoriteStore {
	return m.internal
}

func (m *Manager) Close() error {
	return m.internal.Close()
}

var _ interfaces.StorageManager = (*Manager)(nil)
