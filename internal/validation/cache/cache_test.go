package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type CacheSuite struct {
	suite.Suite
	clock time.Time
	cache *Cache
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.cache = New(60*time.Second, time.Minute, WithClock(func() time.Time { return s.clock }))
}

func (s *CacheSuite) advance(d time.Duration) {
	s.clock = s.clock.Add(d)
}

func (s *CacheSuite) TestGetAndPut() {
	s.Run("miss on absent key", func() {
		_, ok := s.cache.Get("user:missing")
		s.False(ok)
	})

	s.Run("returns stored value within ttl", func() {
		s.cache.Put("user:abc", true)
		s.cache.Put("course:def", false)

		val, ok := s.cache.Get("user:abc")
		s.True(ok)
		s.True(val)

		val, ok = s.cache.Get("course:def")
		s.True(ok)
		s.False(val)
	})

	s.Run("overwrites existing entry", func() {
		s.cache.Put("user:abc", true)
		s.cache.Put("user:abc", false)

		val, ok := s.cache.Get("user:abc")
		s.True(ok)
		s.False(val)
	})
}

func (s *CacheSuite) TestExpiry() {
	s.cache.Put("user:abc", true)

	s.Run("still valid just before ttl", func() {
		s.advance(59 * time.Second)
		_, ok := s.cache.Get("user:abc")
		s.True(ok)
	})

	s.Run("expired at ttl boundary", func() {
		s.advance(time.Second)
		_, ok := s.cache.Get("user:abc")
		s.False(ok)
	})

	s.Run("put refreshes expiry", func() {
		s.cache.Put("user:abc", false)
		s.advance(30 * time.Second)
		val, ok := s.cache.Get("user:abc")
		s.True(ok)
		s.False(val)
	})
}

func (s *CacheSuite) TestSweepRemovesExpiredEntries() {
	s.cache.Put("user:a", true)
	s.cache.Put("user:b", false)
	s.advance(61 * time.Second)
	s.cache.Put("user:c", true)

	s.cache.Sweep()

	s.Equal(1, s.cache.Len())
	_, ok := s.cache.Get("user:c")
	s.True(ok)
}

func (s *CacheSuite) TestConcurrentAccess() {
	cache := New(60*time.Second, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				cache.Put("user:shared", j%2 == 0)
				cache.Get("user:shared")
				cache.Sweep()
			}
		}()
	}
	wg.Wait()

	_, ok := cache.Get("user:shared")
	s.True(ok)
}
