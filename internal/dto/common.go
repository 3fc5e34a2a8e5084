package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Cache     string `json:"cache"`
}

// Page describes the window a listing was read from.
type Page struct {
	Offset int `json:"offset"`
	Count  int `json:"count"`
}
