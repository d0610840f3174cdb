package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/api/metrics"
	"github.com/carjai/marketplace-client/internal/core/domain"
	"github.com/carjai/marketplace-client/internal/core/ports"
)

// MutualLogout keeps at most one identity kind signed in per cookie jar by
// revoking the opposite session. It never fails and never panics; each call
// is bounded by timeout so an unreachable backend cannot stall a sign-in.
type MutualLogout struct {
	user    ports.SignoutAPI
	admin   ports.SignoutAPI
	timeout time.Duration
	log     zerolog.Logger
}

func NewMutualLogout(user, admin ports.SignoutAPI, timeout time.Duration, log zerolog.Logger) *MutualLogout {
	return &MutualLogout{user: user, admin: admin, timeout: timeout, log: log}
}

func (m *MutualLogout) ClearAdminSession(ctx context.Context) {
	m.signout(ctx, domain.IdentityAdmin, m.admin)
}

func (m *MutualLogout) ClearUserSession(ctx context.Context) {
	m.signout(ctx, domain.IdentityUser, m.user)
}

func (m *MutualLogout) signout(ctx context.Context, kind domain.IdentityKind, api ports.SignoutAPI) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ForeignSignoutsTotal.WithLabelValues(string(kind), "failed").Inc()
			m.log.Debug().Interface("panic", r).Str("identity", string(kind)).Msg("foreign signout panicked")
		}
	}()

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	if err := api.Signout(ctx); err != nil {
		metrics.ForeignSignoutsTotal.WithLabelValues(string(kind), "failed").Inc()
		m.log.Debug().Err(err).Str("identity", string(kind)).Msg("foreign signout failed")
		return
	}
	metrics.ForeignSignoutsTotal.WithLabelValues(string(kind), "ok").Inc()
	m.log.Debug().Str("identity", string(kind)).Msg("cleared foreign session")
}
