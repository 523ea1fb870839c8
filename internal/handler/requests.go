package handler

// Request bounds
const (
	MaxSearchLength = 100
	MaxJobLevel     = 100
)

// SearchRequest is the body of POST /api/v1/recipes/search.
type SearchRequest struct {
	Text string `json:"text" validate:"required,notblank,max=100,excludesall=\x00\n\r\t"`
}

// SetJobLevelRequest is the body of PUT /api/v1/jobs/{id}/level.
// Level is a pointer so a missing field is distinguishable from level 0.
type SetJobLevelRequest struct {
	Level *int `json:"level" validate:"required,gte=0,lte=100"`
}

// AutoRefreshRequest is the body of PUT /api/v1/refresh/auto.
type AutoRefreshRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// SetJobLevelResponse reports how many recipes were submitted for discovery.
type SetJobLevelResponse struct {
	JobID      int `json:"job_id"`
	Level      int `json:"level"`
	Discovered int `json:"discovered"`
}

// AutoRefreshResponse reports the refresh worker state.
type AutoRefreshResponse struct {
	Enabled  bool   `json:"enabled"`
	Interval string `json:"interval"`
}
