package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"geomoments/internal/modules/checkin/domain"
	checkinout "geomoments/internal/modules/checkin/port/out"
	"geomoments/internal/platform/graphql"
)

const checkInFields = `
    id
    caption
    imageUrls
    lat
    lng
    createdAt
    likeCount
    type
    status`

const allCheckInsQuery = `
query AllCheckIns {
  allCheckIns {` + checkInFields + `
  }
}`

const createCheckInMutation = `
mutation CreateCheckIn(
  $caption: String
  $imageUrls: [String!]!
  $lat: Float!
  $lng: Float!
) {
  createCheckIn(
    caption: $caption
    imageUrls: $imageUrls
    lat: $lat
    lng: $lng
  ) {` + checkInFields + `
  }
}`

// serverTime accepts the shapes a GraphQL Date scalar is commonly sent in:
// RFC 3339 strings, epoch milliseconds, or epoch milliseconds as a string.
type serverTime time.Time

func (t *serverTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*t = serverTime{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return t.parse(strings.TrimSpace(s))
	}
	return t.parse(string(b))
}

func (t *serverTime) parse(s string) error {
	if s == "" {
		*t = serverTime{}
		return nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*t = serverTime(time.UnixMilli(ms).UTC())
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*t = serverTime(time.UnixMilli(int64(f)).UTC())
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("unrecognised createdAt %q", s)
	}
	*t = serverTime(parsed.UTC())
	return nil
}

type checkInRecord struct {
	ID        string     `json:"id"`
	Caption   *string    `json:"caption"`
	ImageURLs []string   `json:"imageUrls"`
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	CreatedAt serverTime `json:"createdAt"`
	LikeCount int        `json:"likeCount"`
	Type      *string    `json:"type"`
	Status    *string    `json:"status"`
}

func (r checkInRecord) toDomain() domain.CheckIn {
	c := domain.CheckIn{
		ID:        r.ID,
		ImageURLs: r.ImageURLs,
		Lat:       r.Lat,
		Lng:       r.Lng,
		CreatedAt: time.Time(r.CreatedAt),
		LikeCount: r.LikeCount,
	}
	if r.Caption != nil {
		c.Caption = *r.Caption
	}
	if r.Type != nil && domain.Kind(*r.Type).Valid() {
		c.Type = domain.Kind(*r.Type)
	}
	if r.Status != nil && domain.Status(*r.Status).Valid() {
		c.Status = domain.Status(*r.Status)
	}
	if c.ImageURLs == nil {
		c.ImageURLs = []string{}
	}
	return c
}

type GraphQLGateway struct {
	client *graphql.Client
}

func NewGraphQLGateway(client *graphql.Client) checkinout.Gateway {
	return &GraphQLGateway{client: client}
}

func (g *GraphQLGateway) AllCheckIns(ctx context.Context) ([]domain.CheckIn, error) {
	var out struct {
		AllCheckIns []checkInRecord `json:"allCheckIns"`
	}
	if err := g.client.Do(ctx, graphql.Request{OperationName: "AllCheckIns", Document: allCheckInsQuery}, &out); err != nil {
		return nil, err
	}
	items := make([]domain.CheckIn, 0, len(out.AllCheckIns))
	for _, r := range out.AllCheckIns {
		items = append(items, r.toDomain())
	}
	return items, nil
}

func (g *GraphQLGateway) CreateCheckIn(ctx context.Context, bearerToken string, submission domain.Submission) (domain.CheckIn, error) {
	var caption any
	if submission.Caption != "" {
		caption = submission.Caption
	}
	var out struct {
		CreateCheckIn checkInRecord `json:"createCheckIn"`
	}
	err := g.client.Do(ctx, graphql.Request{
		OperationName: "CreateCheckIn",
		Document:      createCheckInMutation,
		Variables: map[string]any{
			"caption":   caption,
			"imageUrls": submission.ImageURLs,
			"lat":       submission.Lat,
			"lng":       submission.Lng,
		},
		Headers: graphql.Bearer(bearerToken),
	}, &out)
	if err != nil {
		return domain.CheckIn{}, err
	}
	if out.CreateCheckIn.ID == "" {
		return domain.CheckIn{}, fmt.Errorf("createCheckIn returned no record")
	}
	return out.CreateCheckIn.toDomain(), nil
}
