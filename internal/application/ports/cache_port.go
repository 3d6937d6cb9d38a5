package ports

import (
	"context"
	"strings"
	"time"
)

// Cache define el puerto de salida para cachear agregados de solo lectura (stats, dashboard).
// Un fallo del cache nunca debe impedir responder: los casos de uso lo tratan como miss.
type Cache interface {
	// Get decodifica el valor en dst; found=false si la clave no existe.
	Get(ctx context.Context, key string, dst any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// InvalidatePrefix elimina todas las claves que empiezan con prefix.
	InvalidatePrefix(ctx context.Context, prefix string) error
}

const cacheNamespace = "billstock"

// TenantCachePrefix prefijo de todas las claves de un tenant.
func TenantCachePrefix(tenantID string) string {
	return cacheNamespace + ":" + tenantID + ":"
}

// CacheKey arma una clave del tenant a partir de sus partes.
func CacheKey(tenantID string, parts ...string) string {
	return TenantCachePrefix(tenantID) + strings.Join(parts, ":")
}
