package domain

// Item is a tradeable game item as described by the recipe catalog.
type Item struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ClassJob is a crafting job (Disciple of the Hand) from the catalog.
type ClassJob struct {
	ID           int    `json:"id" yaml:"id"`
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	Category     string `json:"category,omitempty" yaml:"category,omitempty"`
}

// JobConfig is the user-editable per-job record persisted across restarts.
type JobConfig struct {
	ID           int    `json:"id" yaml:"id"`
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`
	Level        int    `json:"level" yaml:"level" validate:"gte=0,lte=100"`
}

// NewJobConfig returns a job record at level 0.
func NewJobConfig(job ClassJob) JobConfig {
	return JobConfig{ID: job.ID, Abbreviation: job.Abbreviation}
}
