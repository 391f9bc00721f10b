package database

import (
	"RestaurantRoulette/logging"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// OpenBadger opens the on-disk session database.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}
	logging.Info().Str("path", path).Msg("Badger session store opened")
	return db, nil
}
