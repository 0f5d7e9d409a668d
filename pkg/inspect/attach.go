package inspect

import (
	bentoerrors "github.com/vango-dev/bento/internal/errors"
	"github.com/vango-dev/bento/pkg/engine"
	"github.com/vango-dev/bento/pkg/protocol"
)

// Attach publishes the current box of e and then every commit to s. It must
// be called on the engine's goroutine. The returned function detaches.
func Attach[S, R comparable](s *Server, e *engine.Engine[S, R]) (detach func()) {
	s.Publish(&Snapshot{Tree: protocol.NewTreeMessage(e.Generation(), e.Current())})

	return e.OnCommit(func(c engine.Commit[S, R]) {
		snap := &Snapshot{
			Tree:   protocol.NewTreeMessage(c.Generation, c.Script.New),
			Script: protocol.NewScriptMessage(c.Generation, c.Script, c.Reloaded),
		}
		if c.Err != nil {
			be := bentoerrors.FromError(c.Err, "E301")
			snap.Error = &protocol.ErrorMessage{
				Generation: c.Generation,
				Code:       be.Code,
				Message:    c.Err.Error(),
			}
		}
		if err := s.Publish(snap); err != nil {
			s.logger.Debug("commit not published", "generation", c.Generation, "error", err)
		}
	})
}
