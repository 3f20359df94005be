package position

type Position struct {
	ID   int64
	Name string
}

type PositionResponse struct {
	ID   int64  `json:"positionId"`
	Name string `json:"positionName"`
}
