// Package cache provee el cache de bytes usado para material efímero del
// flujo de autorización (challenges de consentimiento, sesiones).
//
// Drivers:
//   - memory (in-process, desarrollo/testing)
//   - redis (distribuido, producción)
package cache

import "time"

// Cache define las operaciones mínimas que necesita el servicio.
type Cache interface {
	// Get obtiene un valor. El segundo retorno indica si la key existía.
	Get(key string) ([]byte, bool)

	// Set guarda un valor con TTL.
	Set(key string, value []byte, ttl time.Duration)

	// Delete elimina una key. Con Get forma el patrón one-shot de los
	// consent challenges.
	Delete(key string)
}
