// AngelaMos | 2026
// service.go

package admin

import (
	"context"
	"time"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/authz"
	"github.com/markustips/biblenotelm-backend/internal/identity"
	"github.com/markustips/biblenotelm-backend/internal/ratelimit"
)

// ChurchCounter exposes the aggregate tenant counts the platform operator
// may legitimately see.
type ChurchCounter interface {
	Count(ctx context.Context) (total int, active int, err error)
}

type SubscriptionCounter interface {
	CountActive(ctx context.Context) (int, error)
}

type UserDirectory interface {
	List(
		ctx context.Context,
		params identity.ListParams,
	) ([]identity.User, int, error)
	UpdateRole(
		ctx context.Context,
		id string,
		role identity.Role,
	) (*identity.User, error)
}

type Service struct {
	engine    *authz.Engine
	recorder  *audit.Recorder
	limiter   *ratelimit.Limiter
	users     UserDirectory
	churches  ChurchCounter
	subs      SubscriptionCounter
	retention time.Duration
	staleness time.Duration
}

type ServiceConfig struct {
	Engine        *authz.Engine
	Recorder      *audit.Recorder
	Limiter       *ratelimit.Limiter
	Users         UserDirectory
	Churches      ChurchCounter
	Subscriptions SubscriptionCounter
	// AuditRetention and RateLimitStaleness mirror the maintenance
	// scheduler's settings for manually triggered sweeps.
	AuditRetention     time.Duration
	RateLimitStaleness time.Duration
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		engine:    cfg.Engine,
		recorder:  cfg.Recorder,
		limiter:   cfg.Limiter,
		users:     cfg.Users,
		churches:  cfg.Churches,
		subs:      cfg.Subscriptions,
		retention: cfg.AuditRetention,
		staleness: cfg.RateLimitStaleness,
	}
}

// PlatformStats are aggregate counts only. No tenant content flows through
// here, which is why the privacy partition is not consulted.
type PlatformStats struct {
	TotalChurches       int `json:"total_churches"`
	ActiveChurches      int `json:"active_churches"`
	TotalUsers          int `json:"total_users"`
	ActiveSubscriptions int `json:"active_subscriptions"`
}

func (s *Service) PlatformStats(
	ctx context.Context,
	actorID string,
) (*PlatformStats, error) {
	_, err := s.engine.RequireSuperAdmin(
		ctx, actorID, authz.ActionViewSystemStats)
	if err != nil {
		return nil, err
	}

	total, active, err := s.churches.Count(ctx)
	if err != nil {
		return nil, err
	}

	_, userCount, err := s.users.List(ctx, identity.ListParams{PageSize: 1})
	if err != nil {
		return nil, err
	}

	activeSubs, err := s.subs.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		TotalChurches:       total,
		ActiveChurches:      active,
		TotalUsers:          userCount,
		ActiveSubscriptions: activeSubs,
	}, nil
}

func (s *Service) AuditTrail(
	ctx context.Context,
	actorID string,
	params audit.ListParams,
) ([]audit.Entry, int, error) {
	_, err := s.engine.RequireSuperAdmin(
		ctx, actorID, authz.ActionViewAuditTrail)
	if err != nil {
		return nil, 0, err
	}

	return s.recorder.List(ctx, params)
}

func (s *Service) ListUsers(
	ctx context.Context,
	actorID string,
	params identity.ListParams,
) ([]identity.User, int, error) {
	_, err := s.engine.RequireSuperAdmin(ctx, actorID, authz.ActionManageUsers)
	if err != nil {
		return nil, 0, err
	}

	return s.users.List(ctx, params)
}

func (s *Service) SetUserRole(
	ctx context.Context,
	actorID, userID string,
	role identity.Role,
) (*identity.User, error) {
	_, err := s.engine.RequireSuperAdmin(ctx, actorID, authz.ActionManageUsers)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionManageUsers,
		ResourceCollection: "users",
		ResourceID:         &userID,
		Result:             audit.ResultSuccess,
		Metadata: []audit.Field{
			{Key: "new_role", Value: string(role)},
		},
	})

	return user, nil
}

type SweepResult struct {
	AuditEntriesRemoved  int64 `json:"audit_entries_removed"`
	RateLimitKeysRemoved int64 `json:"rate_limit_keys_removed"`
}

// RunSweeps triggers the retention sweeps outside their cron schedule.
func (s *Service) RunSweeps(
	ctx context.Context,
	actorID string,
) (*SweepResult, error) {
	_, err := s.engine.RequireSuperAdmin(ctx, actorID, authz.ActionRunSweep)
	if err != nil {
		return nil, err
	}

	retentionDays := int(s.retention.Hours() / 24)
	auditRemoved, err := s.recorder.SweepOlderThan(ctx, retentionDays)
	if err != nil {
		return nil, err
	}

	rateRemoved, err := s.limiter.SweepStale(ctx, s.staleness)
	if err != nil {
		return nil, err
	}

	return &SweepResult{
		AuditEntriesRemoved:  auditRemoved,
		RateLimitKeysRemoved: rateRemoved,
	}, nil
}

// TenantContent is the super_admin path into a church's content. The role
// check passes; the privacy partition then refuses the read. Both entries
// land in the audit trail, which is the point.
func (s *Service) TenantContent(
	ctx context.Context,
	actorID, churchID string,
	category authz.ContentCategory,
) error {
	user, err := s.engine.RequireSuperAdmin(
		ctx, actorID, authz.ActionChurchAccess)
	if err != nil {
		return err
	}

	return s.engine.EnforceNoTenantAccess(ctx, user, category)
}
