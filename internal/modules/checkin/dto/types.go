package dto

import "time"

type CheckInOutput struct {
	ID          string
	Caption     string
	ImageURLs   []string
	Lat         float64
	Lng         float64
	CreatedAt   time.Time
	LikeCount   int
	Type        string
	TypeLabel   string
	Status      string
	StatusLabel string
}

type ListInput struct {
	Offline bool
	Limit   int
}

type ListOutput struct {
	Items     []CheckInOutput
	Stale     bool
	Warning   string
	FetchedAt time.Time
}

type CreateInput struct {
	Caption    string
	ImagePaths []string
	Lat        float64
	Lng        float64
}
