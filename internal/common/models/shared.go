package models

import "time"

type ContextKey string

// Log is the row shape written by the async zap sink
type Log struct {
	Message      string    `bson:"message" json:"message"`
	Caller       string    `bson:"caller" json:"caller"`
	IpAddress    string    `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	Path         string    `bson:"path,omitempty" json:"path,omitempty"` // storage-relative path, never absolute
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	AppId        string    `bson:"app_id" json:"app_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
