package constants

// Redis key formats
const (
	// Presence: last activity timestamp per driver, refreshed on every
	// inbound frame. Expiry means the driver is presumed offline.
	KeyDriverLastSeen = "driver:%d:last_seen" // Format: driver:{driver_id}:last_seen

	// Geocoding cache
	KeyReverseGeocode = "geocode:rev:%s" // Format: geocode:rev:{lat,lng,lang}

	// Last known driver position per area, as a geo set.
	KeyAreaDriverGeo = "area:%s:drivers:geo" // Format: area:{area}:drivers:geo

	// Last known geohash cell per driver.
	KeyDriverGeohash = "driver:%d:geohash" // Format: driver:{driver_id}:geohash
)

// PresenceTTLSeconds is how long a presence record survives without a touch.
const PresenceTTLSeconds = 600
