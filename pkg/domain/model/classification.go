package model

// Classification is the result of analyzing a report text
type Classification struct {
	Categories []string `json:"categories"`
	Priority   Priority `json:"priority"`
	Summary    string   `json:"summary"`
}
