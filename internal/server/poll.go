package server

import "time"

// pollSource reloads the source every period until the server closes.
func (s *Server) pollSource(period time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	s.log.Info("source polling started", "source", s.opts.Source.String(), "period", period)

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info("source polling stopped")
			return

		case <-ticker.C:
			s.reloadSafely("poll")
		}
	}
}

// reloadSafely reloads the source, recovering from panics so one bad load
// does not take the server down.
func (s *Server) reloadSafely(trigger string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic during reload", "trigger", trigger, "panic", r)
			s.metrics.LoadFailed()
		}
	}()
	s.Reload(s.ctx)
}
