package cache_test

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"

	cache "github.com/okian/kundali/internal/adapters/cache"
)

func TestNewFallsBackToMemory(t *testing.T) {
	Convey("Given cache construction from a URL", t, func() {
		ctx := context.Background()

		Convey("When no URL is configured", func() {
			c := cache.New(ctx, "")

			Convey("Then the in-process cache should be chosen", func() {
				So(c, ShouldHaveSameTypeAs, &cache.Memory{})
			})
		})

		Convey("When the URL does not parse", func() {
			c := cache.New(ctx, "://not-a-url")

			Convey("Then the in-process cache should be chosen", func() {
				So(c, ShouldHaveSameTypeAs, &cache.Memory{})
			})
		})

		Convey("When no server answers the ping", func() {
			c := cache.New(ctx, "redis://127.0.0.1:1/0")

			Convey("Then the in-process cache should be chosen", func() {
				So(c, ShouldHaveSameTypeAs, &cache.Memory{})
			})
		})
	})
}

func TestRedisCacheDegradesToMiss(t *testing.T) {
	Convey("Given a Redis cache whose server is unreachable", t, func() {
		ctx := context.Background()
		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
		c := cache.NewRedis(client)

		Convey("When reading a key", func() {
			val, ok := c.Get(ctx, "chart-1")

			Convey("Then the transport error should surface as a miss", func() {
				So(ok, ShouldBeFalse)
				So(val, ShouldBeNil)
			})
		})

		Convey("When storing a value", func() {
			err := c.Set(ctx, "chart-1", []byte("payload"), 0)

			Convey("Then the transport error should surface", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
