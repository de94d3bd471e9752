package cache_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	cache "github.com/okian/kundali/internal/adapters/cache"
	"github.com/okian/kundali/pkg/logger"
)

// Initialize logging for tests.
func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMemoryCache(t *testing.T) {
	Convey("Given an in-process cache", t, func() {
		ctx := context.Background()
		c := cache.NewMemory()

		Convey("When reading a key that was never stored", func() {
			val, ok := c.Get(ctx, "unknown")

			Convey("Then it should miss", func() {
				So(ok, ShouldBeFalse)
				So(val, ShouldBeNil)
			})
		})

		Convey("When storing and reading a value", func() {
			So(c.Set(ctx, "chart-1", []byte("payload"), time.Minute), ShouldBeNil)
			val, ok := c.Get(ctx, "chart-1")

			Convey("Then it should hit with the stored bytes", func() {
				So(ok, ShouldBeTrue)
				So(val, ShouldResemble, []byte("payload"))
			})
		})

		Convey("When a value expires", func() {
			So(c.Set(ctx, "chart-1", []byte("payload"), 15*time.Millisecond), ShouldBeNil)
			time.Sleep(40 * time.Millisecond)
			_, ok := c.Get(ctx, "chart-1")

			Convey("Then it should miss and drop the entry", func() {
				So(ok, ShouldBeFalse)
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When storing without expiry", func() {
			So(c.Set(ctx, "chart-1", []byte("payload"), 0), ShouldBeNil)
			time.Sleep(20 * time.Millisecond)
			_, ok := c.Get(ctx, "chart-1")

			Convey("Then it should still hit", func() {
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When overwriting a key", func() {
			So(c.Set(ctx, "chart-1", []byte("old"), time.Minute), ShouldBeNil)
			So(c.Set(ctx, "chart-1", []byte("new"), time.Minute), ShouldBeNil)
			val, ok := c.Get(ctx, "chart-1")

			Convey("Then the latest value should win", func() {
				So(ok, ShouldBeTrue)
				So(val, ShouldResemble, []byte("new"))
				So(c.Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestMemoryCacheEviction(t *testing.T) {
	Convey("Given a cache bounded to two entries", t, func() {
		ctx := context.Background()
		c := cache.NewMemory(cache.WithMaxEntries(2))

		So(c.Set(ctx, "a", []byte("a"), time.Minute), ShouldBeNil)
		So(c.Set(ctx, "b", []byte("b"), time.Minute), ShouldBeNil)

		Convey("When storing a third entry", func() {
			So(c.Set(ctx, "c", []byte("c"), time.Minute), ShouldBeNil)

			Convey("Then the bound should hold and the new entry should be present", func() {
				So(c.Len(), ShouldEqual, 2)
				_, ok := c.Get(ctx, "c")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When an expired entry can make room", func() {
			So(c.Set(ctx, "b", []byte("b"), 10*time.Millisecond), ShouldBeNil)
			time.Sleep(30 * time.Millisecond)
			So(c.Set(ctx, "c", []byte("c"), time.Minute), ShouldBeNil)

			Convey("Then the sweep should spare the live entry", func() {
				So(c.Len(), ShouldEqual, 2)
				_, ok := c.Get(ctx, "a")
				So(ok, ShouldBeTrue)
				_, ok = c.Get(ctx, "c")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When overwriting at capacity", func() {
			So(c.Set(ctx, "a", []byte("updated"), time.Minute), ShouldBeNil)

			Convey("Then nothing should be evicted", func() {
				So(c.Len(), ShouldEqual, 2)
				val, ok := c.Get(ctx, "a")
				So(ok, ShouldBeTrue)
				So(val, ShouldResemble, []byte("updated"))
				_, ok = c.Get(ctx, "b")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the bound is disabled", func() {
			unbounded := cache.NewMemory(cache.WithMaxEntries(0))
			for _, key := range []string{"a", "b", "c", "d", "e"} {
				So(unbounded.Set(ctx, key, []byte(key), time.Minute), ShouldBeNil)
			}

			Convey("Then every entry should be kept", func() {
				So(unbounded.Len(), ShouldEqual, 5)
			})
		})
	})
}
