package domain

type BatchItemResult struct {
	Filename string    `json:"filename"`
	Critique *Critique `json:"critique,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type BatchResult struct {
	Results    []BatchItemResult `json:"results"`
	Total      int               `json:"total"`
	Successful int               `json:"successful"`
}
