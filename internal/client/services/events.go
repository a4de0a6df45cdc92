package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/alphasolutions/piauieventos-cli/internal/client/client"
	"github.com/alphasolutions/piauieventos-cli/internal/client/models"
	"github.com/alphasolutions/piauieventos-cli/internal/common"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	categoryScan    = 100
)

// EventService lists and manages events.
type EventService interface {
	List(ctx context.Context, filter models.EventFilter, page, size int) (*models.EventPage, error)
	Get(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, req models.EventRequest) (*models.Event, error)
	Update(ctx context.Context, id int64, upd models.EventUpdate) (*models.Event, error)
	Delete(ctx context.Context, id int64) error
	Organized(ctx context.Context) ([]models.Event, error)
	Registered(ctx context.Context) ([]models.Event, error)
	Categories(ctx context.Context) ([]string, error)
}

type eventService struct {
	client client.Client
	auth   AuthService
}

func NewEventService(c client.Client, auth AuthService) EventService {
	return &eventService{client: c, auth: auth}
}

// List returns one page of events. When the backend answers with a plain
// array the filter and pagination are applied locally.
func (s *eventService) List(ctx context.Context, filter models.EventFilter, page, size int) (*models.EventPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}

	res, err := s.client.ListEvents(ctx, filter, page, size)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if res.Pagination.Size != 0 {
		return res, nil
	}

	matched := make([]models.Event, 0, len(res.Events))
	for _, e := range res.Events {
		if filter.Match(e) {
			matched = append(matched, e)
		}
	}
	start := min((page-1)*size, len(matched))
	end := min(start+size, len(matched))
	return &models.EventPage{
		Events:     matched[start:end],
		Pagination: models.NewPage(page, size, len(matched)),
	}, nil
}

func (s *eventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	e, err := s.client.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	return e, nil
}

// Create publishes a new event owned by the signed-in user.
func (s *eventService) Create(ctx context.Context, req models.EventRequest) (*models.Event, error) {
	u := s.auth.CurrentUser()
	if u == nil {
		return nil, common.ErrNotAuthenticated
	}
	req.CreatedBy = u.ID

	e, err := s.client.CreateEvent(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

func (s *eventService) Update(ctx context.Context, id int64, upd models.EventUpdate) (*models.Event, error) {
	e, err := s.client.UpdateEvent(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update event %d: %w", id, err)
	}
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	return nil
}

// Organized lists the events created by the signed-in user.
func (s *eventService) Organized(ctx context.Context) ([]models.Event, error) {
	u := s.auth.CurrentUser()
	if u == nil {
		return nil, common.ErrNotAuthenticated
	}
	events, err := s.client.EventsByOrganizer(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("organized events: %w", err)
	}
	return events, nil
}

// Registered lists the events the signed-in user joined.
func (s *eventService) Registered(ctx context.Context) ([]models.Event, error) {
	u := s.auth.CurrentUser()
	if u == nil {
		return nil, common.ErrNotAuthenticated
	}
	events, err := s.client.RegisteredEvents(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("registered events: %w", err)
	}
	return events, nil
}

// Categories returns the distinct categories found in the first listing
// page, sorted.
func (s *eventService) Categories(ctx context.Context) ([]string, error) {
	res, err := s.List(ctx, models.EventFilter{}, 1, categoryScan)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var out []string
	for _, e := range res.Events {
		c := e.Category()
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}
