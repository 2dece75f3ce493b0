// Package broadcast owns the server configuration singleton and the
// scheduled/manual channel posts. models.go describes the config row.
package broadcast

// ConfigID is the fixed key of the singleton config row.
const ConfigID = 1

// ServerConfig is where and whom the daily posts address.
// Absent config means broadcasts are skipped.
type ServerConfig struct {
	ChannelID int64  `db:"channel_id"` // destination chat
	PingTag   string `db:"ping_tag"`   // mention included in each post, e.g. "@nofap"
}
