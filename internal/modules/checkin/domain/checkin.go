package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Kind string

const (
	KindNone   Kind = ""
	KindPlay   Kind = "VUI_CHOI"
	KindEatery Kind = "AN_UONG"
)

func (k Kind) Label() string {
	switch k {
	case KindPlay:
		return "Vui chơi"
	case KindEatery:
		return "Ăn uống"
	default:
		return ""
	}
}

func (k Kind) Valid() bool {
	switch k {
	case KindNone, KindPlay, KindEatery:
		return true
	}
	return false
}

type Status string

const (
	StatusNone      Status = ""
	StatusActive    Status = "DANG_HOAT_DONG"
	StatusPaused    Status = "TAM_NGUNG_HOAT_DONG"
	StatusCancelled Status = "DUNG_HOAT_DONG"
)

func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Đang hoạt động"
	case StatusPaused:
		return "Tạm ngưng hoạt động"
	case StatusCancelled:
		return "Dừng hoạt động"
	default:
		return ""
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusActive, StatusPaused, StatusCancelled:
		return true
	}
	return false
}

type CheckIn struct {
	ID        string
	Caption   string
	ImageURLs []string
	Lat       float64
	Lng       float64
	CreatedAt time.Time
	LikeCount int
	Type      Kind
	Status    Status
}

// CoverURL is the first image, shown as the thumbnail.
func (c CheckIn) CoverURL() string {
	if len(c.ImageURLs) == 0 {
		return ""
	}
	return c.ImageURLs[0]
}

const NoCaption = "No caption"

func (c CheckIn) DisplayCaption() string {
	if strings.TrimSpace(c.Caption) == "" {
		return NoCaption
	}
	return c.Caption
}

// Draft is a check-in the user is about to submit.
type Draft struct {
	Caption    string
	ImagePaths []string
	Lat        float64
	Lng        float64
}

func (d Draft) Validate() error {
	if len(d.ImagePaths) == 0 {
		return fmt.Errorf("at least one image is required")
	}
	for _, p := range d.ImagePaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("image path must not be empty")
		}
	}
	return ValidateCoordinates(d.Lat, d.Lng)
}

// Submission is what the server receives once images are uploaded.
type Submission struct {
	Caption   string
	ImageURLs []string
	Lat       float64
	Lng       float64
}

func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range", lng)
	}
	return nil
}

// SortNewestFirst orders a feed by creation time, newest first; ties keep
// their relative order.
func SortNewestFirst(items []CheckIn) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// Prepend puts c at the head of the feed, dropping any older copy of it.
func Prepend(feed []CheckIn, c CheckIn) []CheckIn {
	out := make([]CheckIn, 0, len(feed)+1)
	out = append(out, c)
	for _, item := range feed {
		if item.ID != c.ID {
			out = append(out, item)
		}
	}
	return out
}
