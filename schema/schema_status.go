package schema

import "time"

// RemoteStatus represents the status of the remote record store.
type RemoteStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalRecords    int       `json:"total_records"`
	LastUpdateTime  time.Time `json:"last_update_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// SyncReport summarizes the sync coordinator state for display.
type SyncReport struct {
	Status  SyncStatus    `json:"status"`
	Code    string        `json:"code"`
	Backend string        `json:"backend"`
	Remote  *RemoteStatus `json:"remote,omitempty"`
}
