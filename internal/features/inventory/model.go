package inventory

import "time"

// FamilyStat aggregates one MIME family (image, video, audio, ...)
type FamilyStat struct {
	Count int64 `json:"count"`
	Bytes int64 `json:"bytes"`
}

type Snapshot struct {
	ID         int64                 `json:"id,omitempty"`
	TotalFiles int64                 `json:"total_files"`
	TotalBytes int64                 `json:"total_bytes"`
	Families   map[string]FamilyStat `json:"families"`
	CreatedAt  time.Time             `json:"created_at"`
}
