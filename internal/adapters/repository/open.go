package repository

import (
	"github.com/okian/scoreboard/internal/adapters/storage"
	"github.com/okian/scoreboard/pkg/logger"
)

// Open builds the Store selected by the connection string scheme. No
// connection is made here; the store connects on first use.
func Open(databaseURL string, opts ...OpenOption) (Store, error) {
	cfg := openSettings{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}

	backend, err := storage.ParseBackend(databaseURL)
	if err != nil {
		return nil, err
	}
	connOpts := []storage.Option{
		storage.WithLogger(cfg.logger),
		storage.WithDialTimeout(cfg.dialTimeout),
	}

	switch backend {
	case storage.BackendMongo:
		conn := storage.NewConnector(string(backend),
			storage.OpenMongo(databaseURL, cfg.logger), storage.CloseMongo, connOpts...)
		return NewMongoStore(conn), nil
	case storage.BackendSQLite, storage.BackendPostgres:
		conn := storage.NewConnector(string(backend),
			storage.OpenSQL(backend, databaseURL, cfg.logger), storage.CloseSQL, connOpts...)
		return NewSQLStore(backend, conn)
	default:
		return NewMemoryStore(), nil
	}
}
