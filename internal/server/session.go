package server

import (
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/mlviz/pkg/diagram"
	"github.com/matzehuels/mlviz/pkg/errors"
	"github.com/matzehuels/mlviz/pkg/session"
)

// session returns the caller's session, creating one (and setting the
// cookie) when the cookie is missing, unknown or expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	ctx := r.Context()
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		sess, err := s.store.Get(ctx, c.Value)
		switch {
		case err == nil && sess != nil:
			return sess, nil
		case err != nil && !stderrors.Is(err, session.ErrExpired):
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
		case err != nil:
			s.logger.Debug("session expired", "session", c.Value)
		}
	}

	sess, err := session.New(s.reg, s.supplier, s.ttl)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create session")
	}
	if err := s.store.Set(ctx, sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "store session")
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("session created", "session", sess.ID)
	return sess, nil
}

// instance resolves a diagram key in the session's current set. Callers
// hold the session lock. A key from an earlier selection is not found.
func instance(sess *session.Session, raw string) (*diagram.Instance, error) {
	key, ok := diagram.ParseKey(raw)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "malformed diagram key %q", raw)
	}
	in, ok := sess.Set.Instance(key)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "diagram %q is not on the dashboard", raw)
	}
	return in, nil
}
