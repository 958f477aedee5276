package memory

import (
	"time"

	"consultation-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// UserCache keeps recently resolved users so that repeated engagement
// requests to the same specialist skip the users table.
type UserCache struct {
	cache *cache.Cache
}

func NewUserCache(ttl time.Duration) *UserCache {
	return &UserCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *UserCache) Save(user *entity.User) {
	c.cache.Set(user.Id.String(), copyOf(user), cache.DefaultExpiration)
}

func (c *UserCache) Get(id uuid.UUID) (*entity.User, bool) {
	if x, found := c.cache.Get(id.String()); found {
		return copyOf(x.(*entity.User)), true
	}
	return nil, false
}

func (c *UserCache) Delete(id uuid.UUID) {
	c.cache.Delete(id.String())
}
