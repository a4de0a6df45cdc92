package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_UnmarshalDetailShape(t *testing.T) {
	in := `{"id":3,"name":"Forró","eventDate":"2025-12-15T20:00:00","maxSubs":100,
		"subscribersCount":40,"eventLocation":{"placeName":"Teatro","fullAddress":"Centro","category":"Música"}}`

	var e Event
	require.NoError(t, json.Unmarshal([]byte(in), &e))
	require.NotNil(t, e.Location)
	assert.Equal(t, "Teatro", e.Location.PlaceName)
	assert.Equal(t, 40, e.SubscribedCount)
	assert.Equal(t, 60, e.SpotsLeft())
	assert.Equal(t, "2025-12-15", e.Date())
	assert.Equal(t, "Música", e.Category())
}

func TestEvent_UnmarshalListShape(t *testing.T) {
	in := `{"id":3,"name":"x","eventType":"Tecnologia","subscribedCount":5,"location":{"placeName":"A","fullAddress":"B"}}`

	var e Event
	require.NoError(t, json.Unmarshal([]byte(in), &e))
	assert.Equal(t, 5, e.SubscribedCount)
	assert.Equal(t, "A", e.Location.PlaceName)
	assert.Equal(t, "Tecnologia", e.Category())
	assert.Equal(t, -1, e.SpotsLeft())
}

func TestEvent_SpotsLeftNeverNegative(t *testing.T) {
	assert.Equal(t, 0, Event{MaxSubs: 2, SubscribedCount: 5}.SpotsLeft())
}

func TestEventPage_UnmarshalShapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want EventPage
	}{
		{
			name: "events and pagination",
			in:   `{"events":[{"id":1}],"pagination":{"page":2,"size":1,"total":3,"totalPages":3}}`,
			want: EventPage{Events: []Event{{ID: 1}}, Pagination: Page{Page: 2, Size: 1, Total: 3, TotalPages: 3}},
		},
		{
			name: "spring page",
			in:   `{"content":[{"id":1},{"id":2}],"number":0,"size":10,"totalElements":2,"totalPages":1}`,
			want: EventPage{Events: []Event{{ID: 1}, {ID: 2}}, Pagination: Page{Page: 1, Size: 10, Total: 2, TotalPages: 1}},
		},
		{
			name: "bare array",
			in:   ` [{"id":4}]`,
			want: EventPage{Events: []Event{{ID: 4}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got EventPage
			require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("EventPage mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{Page: 1, Size: 10, Total: 21, TotalPages: 3}, NewPage(1, 10, 21))
	assert.Equal(t, Page{Page: 1, Size: 0, Total: 5}, NewPage(1, 0, 5))
}

func TestEventUpdate_OmitsNilFields(t *testing.T) {
	name := "novo"
	b, err := json.Marshal(EventUpdate{Name: &name})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"novo"}`, string(b))
}

func TestAddress_Missing(t *testing.T) {
	var a Address
	require.NoError(t, json.Unmarshal([]byte(`{"erro":true}`), &a))
	assert.True(t, a.Missing())

	a = Address{}
	require.NoError(t, json.Unmarshal([]byte(`{"erro":"true"}`), &a))
	assert.True(t, a.Missing())

	a = Address{}
	require.NoError(t, json.Unmarshal([]byte(`{"cep":"64000-000","localidade":"Teresina","uf":"PI"}`), &a))
	assert.False(t, a.Missing())
	assert.Equal(t, "Teresina", a.City)
}
