package schema

import "time"

// RunStart describes a conversion run as it begins.
type RunStart struct {
	UUID      string
	FilePath  string
	Anchor    FileAnchor
	StartTime time.Time
}

// RunEnd describes a conversion run once the stream is finished.
type RunEnd struct {
	EndTime      time.Time
	Status       RunStatus
	Stats        Statistics
	ErrorMessage string
}

// RunRecord represents a row from the seisread_runs table.
type RunRecord struct {
	RunID         int64      `json:"run_id"`
	RunUUID       string     `json:"run_uuid"`
	FilePath      string     `json:"file_path"`
	AnchorDate    string     `json:"anchor_date"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	RunDurationMs *int64     `json:"run_duration_ms,omitempty"`
	Status        string     `json:"status"`
	SampleCount   int64      `json:"sample_count"`
	SumX          float64    `json:"sum_x"`
	SumY          float64    `json:"sum_y"`
	SumZ          float64    `json:"sum_z"`
	MaxX          float64    `json:"max_x"`
	MaxY          float64    `json:"max_y"`
	MaxZ          float64    `json:"max_z"`
	ErrorMessage  *string    `json:"error_message,omitempty"`
}
