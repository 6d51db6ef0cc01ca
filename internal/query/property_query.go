// Package query turns untrusted listing-page parameters into bounded MongoDB
// queries. Malformed values degrade to "no constraint" instead of erroring, so
// a bad query string can never fail a whole page load.
package query

import (
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skyline-estates/api/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
	SimilarLimit = 3
)

// ListParams carries raw query-string values, untrusted and unparsed.
type ListParams struct {
	Type      string
	Category  string
	Featured  string
	Location  string
	MinBudget string
	MaxBudget string
	Page      string
	Limit     string
	Sort      string
}

// Window is the resolved pagination slice.
type Window struct {
	Page  int
	Limit int
	Skip  int
}

// Pagination is the envelope returned alongside each result page.
type Pagination struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Pages   int   `json:"pages"`
	HasMore bool  `json:"hasMore"`
}

// Filter builds the bson filter. "all" and "any" are sentinels meaning no
// constraint, not literal enum values.
func (p ListParams) Filter() bson.M {
	filter := bson.M{}

	if p.Type != "" && p.Type != "all" && p.Type != "any" {
		filter["type"] = p.Type
	}
	if p.Category != "" && p.Category != "all" && p.Category != "any" {
		filter["category"] = p.Category
	}
	if p.Featured != "" {
		// Strict comparison: anything other than "true" filters for false.
		filter["featured"] = p.Featured == "true"
	}
	if p.Location != "" {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(p.Location), Options: "i"}
	}

	price := bson.M{}
	if min, err := strconv.ParseFloat(p.MinBudget, 64); err == nil {
		price["$gte"] = min
	}
	if max, err := strconv.ParseFloat(p.MaxBudget, 64); err == nil {
		price["$lte"] = max
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	return filter
}

// Window resolves page/limit with defaults and the hard cap.
func (p ListParams) Window() Window {
	page := parsePositive(p.Page, DefaultPage)
	limit := parsePositive(p.Limit, DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Window{Page: page, Limit: limit, Skip: (page - 1) * limit}
}

// SortSpec resolves the sort parameter; anything unrecognised falls back to
// newest-first.
func (p ListParams) SortSpec() bson.D {
	switch p.Sort {
	case "price-asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price-desc":
		return bson.D{{Key: "price", Value: -1}}
	case "oldest":
		return bson.D{{Key: "createdAt", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// FindOptions applies the window and sort.
func (p ListParams) FindOptions(w Window) *options.FindOptions {
	return options.Find().
		SetSort(p.SortSpec()).
		SetSkip(int64(w.Skip)).
		SetLimit(int64(w.Limit))
}

// Paginate computes the response envelope for a page of `count` items out of
// `total` matches.
func Paginate(w Window, total int64, count int) Pagination {
	pages := int((total + int64(w.Limit) - 1) / int64(w.Limit))
	return Pagination{
		Total:   total,
		Page:    w.Page,
		Limit:   w.Limit,
		Pages:   pages,
		HasMore: int64(w.Skip+count) < total,
	}
}

// SimilarFilter matches other listings sharing the source's category and
// type. Ordering is deliberately unspecified; callers cap results at
// SimilarLimit.
func SimilarFilter(p *models.Property) bson.M {
	return bson.M{
		"_id":      bson.M{"$ne": p.ID},
		"category": p.Category,
		"type":     p.Type,
	}
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
