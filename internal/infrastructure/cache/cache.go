// Package cache implementa ports.Cache: Redis cuando está configurado, en memoria o no-op en otro caso.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/billstock-api/internal/application/ports"
)

var (
	_ ports.Cache = NoopCache{}
	_ ports.Cache = (*MemoryCache)(nil)
)

// NoopCache nunca guarda nada; todas las lecturas son miss.
type NoopCache struct{}

func (NoopCache) Get(_ context.Context, _ string, _ any) (bool, error) { return false, nil }

func (NoopCache) Set(_ context.Context, _ string, _ any, _ time.Duration) error { return nil }

func (NoopCache) InvalidatePrefix(_ context.Context, _ string) error { return nil }

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCache cache de proceso acotado: LRU de tamaño fijo con TTL, cuyas entradas vencidas
// se purgan en segundo plano. Guarda los valores serializados en JSON para que Get devuelva
// copias con la misma forma que el cache Redis.
type MemoryCache struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

// NewMemoryCache crea un cache de hasta size entradas que vencen a lo sumo a los ttl.
// Un ttl de Set menor que el del cache también se respeta.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[string, memoryEntry](size, nil, ttl), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.lru.Remove(key)
		return false, nil
	}
	if err := json.Unmarshal(e.payload, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := memoryEntry{payload: payload}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.lru.Add(key, e)
	return nil
}

func (c *MemoryCache) InvalidatePrefix(_ context.Context, prefix string) error {
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.lru.Remove(k)
		}
	}
	return nil
}

// Len cantidad de entradas vigentes.
func (c *MemoryCache) Len() int { return c.lru.Len() }
