package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fitstore/fitstore-backend/internal/app/model"
)

// rawProduct mirrors the loose typing of the product feed: ids may be strings
// or numbers, numeric fields may arrive as quoted strings.
type rawProduct struct {
	ID       interface{} `json:"id"`
	Name     string      `json:"name"`
	Price    interface{} `json:"price"`
	Category string      `json:"category"`
	Image    string      `json:"image"`
	Stock    interface{} `json:"stock"`
	Rating   interface{} `json:"rating"`
}

func (r rawProduct) toProduct() model.Product {
	return model.Product{
		ID:       coerceID(r.ID),
		Name:     r.Name,
		Price:    coerceNumber(r.Price),
		Category: r.Category,
		Image:    r.Image,
		Stock:    coerceStock(r.Stock),
		Rating:   coerceRating(r.Rating),
	}
}

// coerceID normalizes string and numeric ids to a single string key, so a
// feed emitting 2 and one emitting "2" address the same product.
func coerceID(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// coerceNumber parses a numeric field. Non-numeric input yields NaN so bad
// feed data surfaces instead of turning into a silent zero.
func coerceNumber(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

// coerceStock clamps stock to a usable non-negative integer. NaN cannot live
// in an int, so an unparseable stock becomes 0 and the product is simply not
// orderable.
func coerceStock(v interface{}) int {
	n := coerceNumber(v)
	if math.IsNaN(n) || n < 0 {
		return 0
	}
	return int(n)
}

// coerceRating defaults to 0 for any falsy source value (absent, null, 0,
// empty string, false); everything else coerces like a regular number.
func coerceRating(v interface{}) float64 {
	if isFalsy(v) {
		return 0
	}
	return coerceNumber(v)
}

func isFalsy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0
	case bool:
		return !t
	}
	return false
}
