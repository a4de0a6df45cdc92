package models

import (
	"encoding/json"
	"strings"
)

// EventLocation is where an event takes place.
type EventLocation struct {
	ID          int64  `json:"id,omitempty"`
	PlaceName   string `json:"placeName"`
	Latitude    string `json:"latitude,omitempty"`
	Longitude   string `json:"longitude,omitempty"`
	FullAddress string `json:"fullAddress"`
	ZipCode     string `json:"zipCode,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Event is an event as returned by the backend. EventDate uses the
// backend's LocalDateTime layout, "2006-01-02T15:04:05".
type Event struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	ImageURL        string         `json:"imageUrl,omitempty"`
	EventDate       string         `json:"eventDate"`
	EventType       string         `json:"eventType"`
	MaxSubs         int            `json:"maxSubs"`
	SubscribedCount int            `json:"subscribedCount"`
	Location        *EventLocation `json:"location,omitempty"`
	Version         int            `json:"version,omitempty"`
	Price           float64        `json:"price,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	Status          string         `json:"status,omitempty"`
	CreatedBy       int64          `json:"createdBy,omitempty"`
}

// UnmarshalJSON accepts both the listing shape (location, subscribedCount)
// and the detail shape (eventLocation, subscribersCount).
func (e *Event) UnmarshalJSON(b []byte) error {
	type plain Event
	aux := struct {
		*plain
		EventLocation    *EventLocation `json:"eventLocation"`
		SubscribersCount *int           `json:"subscribersCount"`
	}{plain: (*plain)(e)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if e.Location == nil && aux.EventLocation != nil {
		e.Location = aux.EventLocation
	}
	if aux.SubscribersCount != nil && e.SubscribedCount == 0 {
		e.SubscribedCount = *aux.SubscribersCount
	}
	return nil
}

// Date returns the calendar date part of EventDate.
func (e Event) Date() string {
	d, _, _ := strings.Cut(e.EventDate, "T")
	return d
}

// SpotsLeft returns the remaining capacity, or -1 when unlimited.
func (e Event) SpotsLeft() int {
	if e.MaxSubs <= 0 {
		return -1
	}
	left := e.MaxSubs - e.SubscribedCount
	if left < 0 {
		return 0
	}
	return left
}

// EventRequest is the body of POST /events.
type EventRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ImageURL    string        `json:"imageUrl"`
	EventDate   string        `json:"eventDate"`
	EventType   string        `json:"eventType"`
	MaxSubs     int           `json:"maxSubs"`
	CreatedBy   int64         `json:"createdBy"`
	Location    EventLocation `json:"location"`
}

// EventUpdate is the partial body of PUT /events/{id}; nil fields are left
// untouched by the backend.
type EventUpdate struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	ImageURL    *string        `json:"imageUrl,omitempty"`
	EventDate   *string        `json:"eventDate,omitempty"`
	EventType   *string        `json:"eventType,omitempty"`
	MaxSubs     *int           `json:"maxSubs,omitempty"`
	Location    *EventLocation `json:"location,omitempty"`
}

// Page describes one page of a listing.
type Page struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPage computes TotalPages for total items split into pages of size.
func NewPage(page, size, total int) Page {
	p := Page{Page: page, Size: size, Total: total}
	if size > 0 {
		p.TotalPages = (total + size - 1) / size
	}
	return p
}

// EventPage is one page of events.
type EventPage struct {
	Events     []Event `json:"events"`
	Pagination Page    `json:"pagination"`
}

// UnmarshalJSON accepts {events, pagination}, a Spring Data page
// ({content, number, size, totalElements, totalPages}) or a bare array.
// A bare array leaves Pagination zero; callers paginate it themselves.
func (p *EventPage) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, "[") {
		p.Pagination = Page{}
		return json.Unmarshal(b, &p.Events)
	}

	var aux struct {
		Events        []Event `json:"events"`
		Pagination    *Page   `json:"pagination"`
		Content       []Event `json:"content"`
		Number        int     `json:"number"`
		Size          int     `json:"size"`
		TotalElements int     `json:"totalElements"`
		TotalPages    int     `json:"totalPages"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	if aux.Content != nil {
		p.Events = aux.Content
		p.Pagination = Page{
			Page:       aux.Number + 1,
			Size:       aux.Size,
			Total:      aux.TotalElements,
			TotalPages: aux.TotalPages,
		}
		return nil
	}

	p.Events = aux.Events
	if aux.Pagination != nil {
		p.Pagination = *aux.Pagination
	}
	return nil
}
