package badger

import (
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

const gcInterval = 5 * time.Minute

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db        *BadgerDB
	ingestion interfaces.IngestionStorage
	logger    arbor.ILogger
	stopGC    chan struct{}
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:        db,
		ingestion: NewIngestionStorage(db, logger),
		logger:    logger,
		stopGC:    make(chan struct{}),
	}

	go manager.gcLoop()

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

func (m *Manager) gcLoop() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.db.RunValueLogGC()
		case <-m.stopGC:
			return
		}
	}
}

// IngestionStorage returns the ingestion ledger interface
func (m *Manager) IngestionStorage() interfaces.IngestionStorage {
	return m.ingestion
}

// Close stops background maintenance and closes the database connection
func (m *Manager) Close() error {
	m.logger.Debug().Msg("Closing Badger storage manager")
	close(m.stopGC)
	return m.db.Close()
}
