// AngelaMos | 2026
// service_test.go

package event

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/authz"
	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/identity"
)

type stubResolver struct {
	users map[string]*identity.User
}

func (r *stubResolver) Resolve(
	_ context.Context,
	id string,
) (*identity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("resolve: %w", core.ErrNotFound)
	}
	return user, nil
}

type rsvpKey struct {
	eventID string
	userID  string
}

type fakeRepo struct {
	events map[string]*Event
	rsvps  map[rsvpKey]*RSVP
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		events: make(map[string]*Event),
		rsvps:  make(map[rsvpKey]*RSVP),
	}
}

func (r *fakeRepo) Create(_ context.Context, e *Event) error {
	clone := *e
	r.events[e.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, fmt.Errorf("get event: %w", core.ErrNotFound)
	}
	clone := *e
	return &clone, nil
}

func (r *fakeRepo) Update(_ context.Context, e *Event) error {
	if _, ok := r.events[e.ID]; !ok {
		return fmt.Errorf("update event: %w", core.ErrNotFound)
	}
	clone := *e
	r.events[e.ID] = &clone
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return fmt.Errorf("delete event: %w", core.ErrNotFound)
	}
	delete(r.events, id)
	return nil
}

func (r *fakeRepo) ListByChurch(
	_ context.Context,
	churchID string,
	_ ListParams,
) ([]Event, int, error) {
	var out []Event
	for _, e := range r.events {
		if e.ChurchID == churchID {
			out = append(out, *e)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpsertRSVP(_ context.Context, rsvp *RSVP) error {
	clone := *rsvp
	r.rsvps[rsvpKey{rsvp.EventID, rsvp.UserID}] = &clone
	return nil
}

func (r *fakeRepo) CountRSVPs(
	_ context.Context,
	eventID string,
) (RSVPCounts, error) {
	var counts RSVPCounts
	for key, rsvp := range r.rsvps {
		if key.eventID != eventID {
			continue
		}
		switch rsvp.Status {
		case RSVPGoing:
			counts.Going++
		case RSVPMaybe:
			counts.Maybe++
		case RSVPDeclined:
			counts.Declined++
		}
	}
	return counts, nil
}

func strptr(s string) *string { return &s }

func newTestService(users map[string]*identity.User) (*Service, *fakeRepo) {
	resolver := &stubResolver{users: users}
	recorder := audit.NewRecorder(audit.NewMemoryStore(), slog.Default())
	engine := authz.NewEngine(resolver, recorder)
	repo := newFakeRepo()
	return NewService(repo, engine, recorder), repo
}

func churchUsers() map[string]*identity.User {
	return map[string]*identity.User{
		"member": {
			ID: "member", Role: identity.RoleMember, ChurchID: strptr("c1"),
		},
		"other": {
			ID: "other", Role: identity.RoleMember, ChurchID: strptr("c1"),
		},
		"pastor": {
			ID: "pastor", Role: identity.RolePastor, ChurchID: strptr("c1"),
		},
		"outsider": {
			ID: "outsider", Role: identity.RoleMember, ChurchID: strptr("c2"),
		},
	}
}

func TestCreate_PastorOnly(t *testing.T) {
	svc, _ := newTestService(churchUsers())
	starts := time.Now().Add(24 * time.Hour)

	e, err := svc.Create(context.Background(), "pastor", "c1", CreateRequest{
		Title:    "Sunday service",
		StartsAt: starts,
	})
	require.NoError(t, err)
	assert.Equal(t, "pastor", e.AuthorID)

	_, err = svc.Create(context.Background(), "member", "c1", CreateRequest{
		Title:    "unsanctioned event",
		StartsAt: starts,
	})
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestCreate_RejectsEndBeforeStart(t *testing.T) {
	svc, _ := newTestService(churchUsers())
	starts := time.Now().Add(24 * time.Hour)
	ends := starts.Add(-time.Hour)

	_, err := svc.Create(context.Background(), "pastor", "c1", CreateRequest{
		Title:    "impossible event",
		StartsAt: starts,
		EndsAt:   &ends,
	})
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestUpdate_RejectsEndBeforeStart(t *testing.T) {
	svc, _ := newTestService(churchUsers())
	starts := time.Now().Add(24 * time.Hour)

	e, err := svc.Create(context.Background(), "pastor", "c1", CreateRequest{
		Title:    "Sunday service",
		StartsAt: starts,
	})
	require.NoError(t, err)

	badEnd := starts.Add(-time.Hour)
	_, err = svc.Update(context.Background(), "pastor", "c1", e.ID,
		UpdateRequest{EndsAt: &badEnd})
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestRSVP_UpsertsAndCounts(t *testing.T) {
	svc, _ := newTestService(churchUsers())
	starts := time.Now().Add(24 * time.Hour)

	e, err := svc.Create(context.Background(), "pastor", "c1", CreateRequest{
		Title:    "potluck",
		StartsAt: starts,
	})
	require.NoError(t, err)

	_, err = svc.RSVP(context.Background(), "member", "c1", e.ID, RSVPGoing)
	require.NoError(t, err)
	_, err = svc.RSVP(context.Background(), "other", "c1", e.ID, RSVPMaybe)
	require.NoError(t, err)

	// Changing the answer replaces it rather than adding a second row.
	_, err = svc.RSVP(context.Background(), "member", "c1", e.ID, RSVPDeclined)
	require.NoError(t, err)

	_, counts, err := svc.Get(context.Background(), "member", "c1", e.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Going)
	assert.Equal(t, 1, counts.Maybe)
	assert.Equal(t, 1, counts.Declined)
}

func TestRSVP_RejectsInvalidStatus(t *testing.T) {
	svc, _ := newTestService(churchUsers())
	starts := time.Now().Add(24 * time.Hour)

	e, err := svc.Create(context.Background(), "pastor", "c1", CreateRequest{
		Title:    "potluck",
		StartsAt: starts,
	})
	require.NoError(t, err)

	_, err = svc.RSVP(
		context.Background(), "member", "c1", e.ID, RSVPStatus("attending"))
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestRSVP_OutsiderDenied(t *testing.T) {
	svc, _ := newTestService(churchUsers())
	starts := time.Now().Add(24 * time.Hour)

	e, err := svc.Create(context.Background(), "pastor", "c1", CreateRequest{
		Title:    "members only",
		StartsAt: starts,
	})
	require.NoError(t, err)

	_, err = svc.RSVP(context.Background(), "outsider", "c1", e.ID, RSVPGoing)
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestCrossTenantIDReadsAsNotFound(t *testing.T) {
	svc, repo := newTestService(churchUsers())

	repo.events["foreign"] = &Event{
		ID: "foreign", ChurchID: "c2", AuthorID: "outsider",
		Title: "hidden", StartsAt: time.Now(),
	}

	err := svc.Delete(context.Background(), "pastor", "c1", "foreign")
	require.ErrorIs(t, err, core.ErrNotFound)
}
