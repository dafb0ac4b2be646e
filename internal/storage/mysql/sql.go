package mysql

// address_key is the normalized lookup key; address keeps the caller's spelling.
const upsertGeocodeSQL = `
INSERT INTO geocode_cache (address_key, address, lat, lon)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  address    = VALUES(address),
  lat        = VALUES(lat),
  lon        = VALUES(lon),
  updated_at = CURRENT_TIMESTAMP
`

const getGeocodeSQL = `
SELECT lat, lon
FROM geocode_cache
WHERE address_key = ?
`

const insertMissSQL = `
INSERT INTO provider_misses (query_key, query, http_status, reason)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  hits        = hits + 1,
  seen_at     = CURRENT_TIMESTAMP
`

// Most frequent first, then most recent.
const recentMissesSQL = `
SELECT query, http_status, reason, hits, seen_at
FROM provider_misses
ORDER BY hits DESC, seen_at DESC
LIMIT ?
`
