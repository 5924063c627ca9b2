package web

import (
	"strconv"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte         = 1024 * 1024
	chartCacheExpire = 60 * 60 // one hour, in seconds
)

// chartCache keeps the last rendered dashboard chart per user in memory.
type chartCache struct {
	cache *freecache.Cache
}

func newChartCache(sizeMB int) *chartCache {
	if sizeMB <= 0 {
		sizeMB = 64
	}
	return &chartCache{
		cache: freecache.NewCache(sizeMB * megabyte),
	}
}

func chartCacheKey(userID int) []byte {
	return []byte("chart::" + strconv.Itoa(userID))
}

func (c *chartCache) get(userID int) ([]byte, bool) {
	png, err := c.cache.Get(chartCacheKey(userID))
	if err != nil {
		return nil, false
	}
	return png, true
}

func (c *chartCache) set(userID int, png []byte) {
	if err := c.cache.Set(chartCacheKey(userID), png, chartCacheExpire); err != nil {
		// large charts are simply served from the db
		log.Debugf("chart cache, set chart of user %d [%d bytes]: %s", userID, len(png), err)
	}
}

func (c *chartCache) invalidate(userID int) {
	c.cache.Del(chartCacheKey(userID))
}
