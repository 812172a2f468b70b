// AngelaMos | 2026
// service_test.go

package prayer

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

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

type fakeRepo struct {
	prayers map[string]*Prayer
}

func (r *fakeRepo) Create(_ context.Context, p *Prayer) error {
	clone := *p
	r.prayers[p.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Prayer, error) {
	p, ok := r.prayers[id]
	if !ok {
		return nil, fmt.Errorf("get prayer: %w", core.ErrNotFound)
	}
	clone := *p
	return &clone, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.prayers[id]; !ok {
		return fmt.Errorf("delete prayer: %w", core.ErrNotFound)
	}
	delete(r.prayers, id)
	return nil
}

func (r *fakeRepo) IncrementPrayCount(
	_ context.Context,
	id string,
) (int, error) {
	p, ok := r.prayers[id]
	if !ok {
		return 0, fmt.Errorf("increment pray count: %w", core.ErrNotFound)
	}
	p.PrayCount++
	return p.PrayCount, nil
}

func (r *fakeRepo) ListByChurch(
	_ context.Context,
	churchID string,
	_ ListParams,
) ([]Prayer, int, error) {
	var out []Prayer
	for _, p := range r.prayers {
		if p.ChurchID == churchID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func strptr(s string) *string { return &s }

func newTestService(users map[string]*identity.User) (*Service, *fakeRepo) {
	resolver := &stubResolver{users: users}
	recorder := audit.NewRecorder(audit.NewMemoryStore(), slog.Default())
	engine := authz.NewEngine(resolver, recorder)
	repo := &fakeRepo{prayers: make(map[string]*Prayer)}
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

func TestCreate_MemberOnly(t *testing.T) {
	svc, _ := newTestService(churchUsers())

	p, err := svc.Create(context.Background(), "member", "c1", CreateRequest{
		Body: "please pray for my family",
	})
	require.NoError(t, err)
	assert.Equal(t, "member", p.AuthorID)

	_, err = svc.Create(context.Background(), "outsider", "c1", CreateRequest{
		Body: "should not land",
	})
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestDelete_AuthorOrPastor(t *testing.T) {
	svc, _ := newTestService(churchUsers())

	p, err := svc.Create(context.Background(), "member", "c1", CreateRequest{
		Body: "a request",
	})
	require.NoError(t, err)

	// Another plain member cannot delete it.
	err = svc.Delete(context.Background(), "other", "c1", p.ID)
	require.ErrorIs(t, err, core.ErrForbidden)

	// The author can.
	require.NoError(t, svc.Delete(context.Background(), "member", "c1", p.ID))

	// A pastor can remove someone else's.
	p2, err := svc.Create(context.Background(), "member", "c1", CreateRequest{
		Body: "another request",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), "pastor", "c1", p2.ID))
}

func TestPray_IncrementsCount(t *testing.T) {
	svc, _ := newTestService(churchUsers())

	p, err := svc.Create(context.Background(), "member", "c1", CreateRequest{
		Body: "a request",
	})
	require.NoError(t, err)

	count, err := svc.Pray(context.Background(), "other", "c1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.Pray(context.Background(), "pastor", "c1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCrossTenantIDReadsAsNotFound(t *testing.T) {
	svc, repo := newTestService(churchUsers())

	repo.prayers["foreign"] = &Prayer{
		ID: "foreign", ChurchID: "c2", AuthorID: "outsider", Body: "hidden",
	}

	err := svc.Delete(context.Background(), "pastor", "c1", "foreign")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestAnonymousResponseHidesAuthor(t *testing.T) {
	p := &Prayer{
		ID: "p1", ChurchID: "c1", AuthorID: "member",
		Body: "quiet request", Anonymous: true,
	}

	asOther := ToResponse(p, "other")
	assert.Empty(t, asOther.AuthorID)

	asAuthor := ToResponse(p, "member")
	assert.Equal(t, "member", asAuthor.AuthorID)
}
