package models

// StatusCounts aggregates candidates of one center by lifecycle status.
type StatusCounts struct {
	Available  int `db:"available" json:"disponible"`
	Internship int `db:"internship" json:"stage"`
	Employed   int `db:"employed" json:"emploi"`
}

// Total sums the three buckets.
func (c StatusCounts) Total() int {
	return c.Available + c.Internship + c.Employed
}

// CenterStatistics is the per-center aggregate consumed by the dashboard.
type CenterStatistics struct {
	CenterID   string       `db:"center_id" json:"centerId"`
	CenterName string       `db:"center_name" json:"centerName"`
	Counts     StatusCounts `json:"statistics"`
}

// CenterRanking orders centers by total candidate volume.
type CenterRanking struct {
	Rank       int          `json:"rank"`
	CenterID   string       `json:"centerId"`
	CenterName string       `json:"centerName"`
	Counts     StatusCounts `json:"statistics"`
	Total      int          `json:"total"`
}

// ChartData is shaped for the dashboard's bar/pie rendering.
type ChartData struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}
