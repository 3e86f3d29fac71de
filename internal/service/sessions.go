package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/wizard"
)

// Start opens a new wizard session on template id.
func (s *Service) Start(ctx context.Context, templateID string) (*wizard.Session, error) {
	tpl, err := s.Template(ctx, templateID)
	if err != nil {
		return nil, err
	}
	session, err := wizard.NewSession(tpl, wizard.WithNow(s.now))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	s.logger.Debug("wizard session started", zap.String("session", session.ID()), zap.String("template", templateID))
	return session, nil
}

// Session returns the live session id.
func (s *Service) Session(id string) (*wizard.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return session, nil
}

// SessionCount reports the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed. Sessions with a submission in flight are kept.
func (s *Service) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		snap := session.Snapshot()
		if snap.State.Loading || !snap.UpdatedAt.Before(cutoff) {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}

// StartSweeper runs Sweep on schedule (standard cron syntax or descriptors
// such as "@every 5m"). The returned stop function waits for a running sweep
// to finish.
func (s *Service) StartSweeper(schedule string) (func(), error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if removed := s.Sweep(); removed > 0 {
			s.logger.Info("swept idle wizard sessions", zap.Int("removed", removed))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("service: sweep schedule %q: %w", schedule, err)
	}
	c.Start()
	return func() {
		<-c.Stop().Done()
	}, nil
}
