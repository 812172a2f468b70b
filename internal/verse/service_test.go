// AngelaMos | 2026
// service_test.go

package verse

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

type verseKey struct {
	churchID string
	date     time.Time
}

type fakeRepo struct {
	verses map[verseKey]*Verse
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{verses: make(map[verseKey]*Verse)}
}

func (r *fakeRepo) Upsert(_ context.Context, v *Verse) error {
	clone := *v
	r.verses[verseKey{v.ChurchID, v.VerseDate}] = &clone
	return nil
}

func (r *fakeRepo) GetByDate(
	_ context.Context,
	churchID string,
	date time.Time,
) (*Verse, error) {
	v, ok := r.verses[verseKey{churchID, date}]
	if !ok {
		return nil, fmt.Errorf("get verse: %w", core.ErrNotFound)
	}
	clone := *v
	return &clone, nil
}

func (r *fakeRepo) ListByChurch(
	_ context.Context,
	churchID string,
	_ int,
) ([]Verse, error) {
	var out []Verse
	for key, v := range r.verses {
		if key.churchID == churchID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(
	_ context.Context,
	churchID string,
	date time.Time,
) error {
	key := verseKey{churchID, date}
	if _, ok := r.verses[key]; !ok {
		return fmt.Errorf("delete verse: %w", core.ErrNotFound)
	}
	delete(r.verses, key)
	return nil
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
		"pastor": {
			ID: "pastor", Role: identity.RolePastor, ChurchID: strptr("c1"),
		},
		"outsider": {
			ID: "outsider", Role: identity.RoleMember, ChurchID: strptr("c2"),
		},
	}
}

func TestSet_PastorOnly(t *testing.T) {
	svc, _ := newTestService(churchUsers())
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	v, err := svc.Set(context.Background(), "pastor", "c1", SetRequest{
		Reference: "John 3:16",
		Text:      "For God so loved the world...",
		VerseDate: date,
	})
	require.NoError(t, err)
	assert.Equal(t, date, v.VerseDate)

	_, err = svc.Set(context.Background(), "member", "c1", SetRequest{
		Reference: "Gen 1:1",
		Text:      "In the beginning...",
		VerseDate: date,
	})
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestSet_ReplacesSameDate(t *testing.T) {
	svc, repo := newTestService(churchUsers())
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Set(context.Background(), "pastor", "c1", SetRequest{
		Reference: "John 3:16",
		Text:      "first pick",
		VerseDate: date,
	})
	require.NoError(t, err)

	// Same date with a time-of-day component lands on the same day slot.
	_, err = svc.Set(context.Background(), "pastor", "c1", SetRequest{
		Reference: "Psalm 23:1",
		Text:      "second pick",
		VerseDate: date.Add(9 * time.Hour),
	})
	require.NoError(t, err)

	require.Len(t, repo.verses, 1)
	stored, err := repo.GetByDate(context.Background(), "c1", date)
	require.NoError(t, err)
	assert.Equal(t, "Psalm 23:1", stored.Reference)
}

func TestToday_MemberRead(t *testing.T) {
	svc, _ := newTestService(churchUsers())
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return today.Add(10 * time.Hour) }

	_, err := svc.Set(context.Background(), "pastor", "c1", SetRequest{
		Reference: "John 3:16",
		Text:      "For God so loved the world...",
		VerseDate: today,
	})
	require.NoError(t, err)

	v, err := svc.Today(context.Background(), "member", "c1")
	require.NoError(t, err)
	assert.Equal(t, "John 3:16", v.Reference)

	_, err = svc.Today(context.Background(), "outsider", "c1")
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestToday_NoVerseIsNotFound(t *testing.T) {
	svc, _ := newTestService(churchUsers())

	_, err := svc.Today(context.Background(), "member", "c1")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRemove_PastorOnly(t *testing.T) {
	svc, repo := newTestService(churchUsers())
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Set(context.Background(), "pastor", "c1", SetRequest{
		Reference: "John 3:16",
		Text:      "For God so loved the world...",
		VerseDate: date,
	})
	require.NoError(t, err)

	err = svc.Remove(context.Background(), "member", "c1", date)
	require.ErrorIs(t, err, core.ErrForbidden)

	require.NoError(t, svc.Remove(context.Background(), "pastor", "c1", date))
	assert.Empty(t, repo.verses)
}
