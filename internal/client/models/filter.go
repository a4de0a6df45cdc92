package models

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var ErrIncorrectFilter = errors.New("filter item must be name=value")

// EventFilter narrows an event listing. Zero fields do not filter.
// DateFrom and DateTo are calendar dates, "2006-01-02".
type EventFilter struct {
	Search   string
	Category string
	DateFrom string
	DateTo   string
	PriceMin *float64
	PriceMax *float64
	Location string
	Status   string
}

// FilterFromArgs parses name=value items, as typed on the command line.
// A bare word without '=' is treated as a search term.
func FilterFromArgs(args []string) (EventFilter, error) {
	var f EventFilter
	var terms []string

	for _, item := range args {
		name, value, ok := strings.Cut(item, "=")
		if !ok {
			terms = append(terms, item)
			continue
		}
		if name == "" {
			return EventFilter{}, ErrIncorrectFilter
		}

		switch strings.ToLower(name) {
		case "search", "q":
			terms = append(terms, value)
		case "category":
			f.Category = value
		case "from", "datefrom":
			f.DateFrom = value
		case "to", "dateto":
			f.DateTo = value
		case "pricemin", "min":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return EventFilter{}, fmt.Errorf("priceMin: %w", err)
			}
			f.PriceMin = &v
		case "pricemax", "max":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return EventFilter{}, fmt.Errorf("priceMax: %w", err)
			}
			f.PriceMax = &v
		case "location":
			f.Location = value
		case "status":
			f.Status = value
		default:
			return EventFilter{}, fmt.Errorf("unknown filter %q: %w", name, ErrIncorrectFilter)
		}
	}

	f.Search = strings.Join(terms, " ")
	return f, nil
}

// Values encodes the filter as query parameters.
func (f EventFilter) Values() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	set("search", f.Search)
	set("category", f.Category)
	set("dateFrom", f.DateFrom)
	set("dateTo", f.DateTo)
	set("location", f.Location)
	set("status", f.Status)
	if f.PriceMin != nil {
		v.Set("priceMin", strconv.FormatFloat(*f.PriceMin, 'f', -1, 64))
	}
	if f.PriceMax != nil {
		v.Set("priceMax", strconv.FormatFloat(*f.PriceMax, 'f', -1, 64))
	}
	return v
}

// Match reports whether e passes the filter. It is used when the backend
// answers with an unfiltered list.
func (f EventFilter) Match(e Event) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hay := strings.ToLower(e.Name + " " + e.Description + " " + strings.Join(e.Tags, " "))
		if !strings.Contains(hay, q) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(e.Category(), f.Category) {
		return false
	}
	if f.DateFrom != "" && e.Date() < f.DateFrom {
		return false
	}
	if f.DateTo != "" && e.Date() > f.DateTo {
		return false
	}
	if f.PriceMin != nil && e.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && e.Price > *f.PriceMax {
		return false
	}
	if f.Location != "" {
		if e.Location == nil {
			return false
		}
		loc := strings.ToLower(e.Location.PlaceName + " " + e.Location.FullAddress)
		if !strings.Contains(loc, strings.ToLower(f.Location)) {
			return false
		}
	}
	if f.Status != "" && !strings.EqualFold(e.Status, f.Status) {
		return false
	}
	return true
}

// Category returns the location category when set, otherwise the event
// type.
func (e Event) Category() string {
	if e.Location != nil && e.Location.Category != "" {
		return e.Location.Category
	}
	return e.EventType
}
