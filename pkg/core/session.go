package core

import (
	"context"

	"github.com/oneconcern/cmon/pkg/model"
)

// Session scopes the caches of one command against a workspace.
//
// Statuses are computed once per component and never invalidated: a session must not
// be reused after the workspace was mutated. A session is not safe for concurrent use.
type Session struct {
	ws         *Workspace
	statuses   map[string]*Status
	lane       *model.Lane
	laneLoaded bool
}

// NewSession starts a session against the workspace
func (w *Workspace) NewSession() *Session {
	return &Session{
		ws:       w,
		statuses: make(map[string]*Status),
	}
}

// Workspace of the session
func (s *Session) Workspace() *Workspace {
	return s.ws
}

func (s *Session) currentLane(ctx context.Context) (*model.Lane, error) {
	if s.laneLoaded {
		return s.lane, nil
	}
	lane, err := s.ws.LoadCurrentLane(ctx)
	if err != nil {
		return nil, err
	}
	s.lane, s.laneLoaded = lane, true
	return lane, nil
}
