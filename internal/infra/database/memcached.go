package database

import (
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// NewMemcached accepts a comma separated server list.
func NewMemcached(servers string) *memcache.Client {
	var list []string
	for _, s := range strings.Split(servers, ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}
	client := memcache.New(list...)
	client.Timeout = 500 * time.Millisecond
	client.MaxIdleConns = 8
	return client
}
