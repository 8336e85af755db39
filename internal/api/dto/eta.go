package dto

type ETAResponse struct {
	Distance          string       `json:"distance"`
	DurationNormal    string       `json:"duration_normal"`
	DurationInTraffic string       `json:"duration_in_traffic"`
	Geometry          [][2]float64 `json:"geometry"`
}

type ListPlacesResponse struct {
	Places []string `json:"places"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
