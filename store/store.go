package store

import (
	"time"

	"github.com/hrygo/timenorm/internal/profile"
	"github.com/hrygo/timenorm/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	documentCache *cache.Cache[*Document]
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
		documentCache: cache.New[*Document](cache.Config{
			MaxItems:   1000,
			DefaultTTL: 10 * time.Minute,
		}),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}
