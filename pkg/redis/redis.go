package redis

import (
	"sync"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rocketr/rocketr-ipn/config"
)

var (
	once   sync.Once
	client *goredis.Client
)

func GetClient() *goredis.Client {
	once.Do(func() {
		c := config.Get()

		client = goredis.NewClient(&goredis.Options{
			Addr:     c.Redis.Address,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
	})

	return client
}
