// Package server serves the visualization over HTTP. Every websocket
// connection owns one session with its own app.State; reloads of the source
// are fanned out to all sessions.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nathansso/locvista/internal/app"
	"github.com/nathansso/locvista/internal/commits"
	"github.com/nathansso/locvista/internal/metrics"
	"github.com/nathansso/locvista/internal/records"
)

const (
	inboxSize       = 64
	shutdownTimeout = 5 * time.Second
	defaultTimeout  = 30 * time.Second
)

// Options configures a Server.
type Options struct {
	Source  records.Source
	Commits commits.Options
	// App is the layout each new session starts from.
	App     app.Options
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// AllowedOrigins lists Origin values accepted for websocket upgrades.
	// When empty only same-host origins are accepted.
	AllowedOrigins []string
	// Watch reloads a local source when the file changes.
	Watch bool
	// PollInterval reloads an HTTP source periodically; zero disables it.
	PollInterval time.Duration
	// Timeout bounds each load.
	Timeout time.Duration
}

// Server holds the current dataset and the live sessions.
type Server struct {
	opts     Options
	log      *slog.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
	schema   *envelopeSchema

	cacheMu sync.RWMutex
	cached  struct {
		data    *app.Dataset
		loadErr error
	}

	sessionsMu sync.Mutex
	sessions   map[*session]struct{}
	nextID     uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a server. Nothing is loaded until Reload or Start.
func New(opts Options) (*Server, error) {
	if opts.Source == nil {
		return nil, errors.New("server: nil source")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	opts.App.Logger = opts.Logger
	opts.App.Observe = opts.Metrics.Observe

	schema, err := newEnvelopeSchema(app.ClientKinds())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:     opts,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		schema:   schema,
		sessions: make(map[*session]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s, nil
}

// Reload fetches the source and hands the outcome to every session. A failed
// reload keeps the previous dataset.
func (s *Server) Reload(ctx context.Context) app.Message {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	msg := app.Load(ctx, s.opts.Source, s.opts.Commits)

	// sessionsMu is held from the cache write through the broadcast so a
	// session registering concurrently sees either the old cache and this
	// broadcast, or only the new cache.
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()

	s.cacheMu.Lock()
	switch m := msg.(type) {
	case app.Loaded:
		s.cached.data = m.Dataset
		s.cached.loadErr = nil
		s.metrics.LoadSucceeded(len(m.Dataset.Records), len(m.Dataset.Commits))
		s.log.Info("source loaded", "source", m.Dataset.Source, "records", len(m.Dataset.Records), "commits", len(m.Dataset.Commits))
	case app.LoadFailed:
		s.cached.loadErr = m.Err
		s.metrics.LoadFailed()
		s.log.Error("source load failed", "source", s.opts.Source.String(), "err", m.Err)
	}
	s.cacheMu.Unlock()

	s.broadcastLocked(msg)
	return msg
}

// current returns the dataset and the most recent load error.
func (s *Server) current() (*app.Dataset, error) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.cached.data, s.cached.loadErr
}

// Start loads the source, starts the reload triggers and serves addr until
// ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.Reload(ctx)

	switch src := s.opts.Source.(type) {
	case records.FileSource:
		if s.opts.Watch {
			if err := s.startWatcher(src.Path); err != nil {
				s.log.Warn("file watching disabled", "path", src.Path, "err", err)
			}
		}
	case records.HTTPSource:
		if s.opts.PollInterval > 0 {
			s.wg.Add(1)
			go s.pollSource(s.opts.PollInterval)
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// Close stops background work and ends every session.
func (s *Server) Close() {
	s.cancel()
	s.sessionsMu.Lock()
	for sess := range s.sessions {
		sess.conn.Close()
	}
	s.sessionsMu.Unlock()
	s.wg.Wait()
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	return len(s.sessions)
}

// register adds sess and queues the cached load outcome on its inbox. Both
// happen under sessionsMu, which Reload holds while it updates the cache and
// broadcasts, so the last queued load is always the newest.
func (s *Server) register(sess *session) {
	s.sessionsMu.Lock()
	s.nextID++
	sess.id = s.nextID
	s.sessions[sess] = struct{}{}
	n := len(s.sessions)
	if data, loadErr := s.current(); data != nil {
		sess.inbox <- app.Loaded{Dataset: data}
	} else if loadErr != nil {
		sess.inbox <- app.LoadFailed{Err: loadErr}
	}
	s.sessionsMu.Unlock()

	s.metrics.SessionOpened()
	s.log.Info("session opened", "session", sess.id, "sessions", n)
}

func (s *Server) unregister(sess *session) {
	s.sessionsMu.Lock()
	delete(s.sessions, sess)
	n := len(s.sessions)
	s.sessionsMu.Unlock()

	s.metrics.SessionClosed()
	s.log.Info("session closed", "session", sess.id, "sessions", n)
}

// broadcastLocked queues msg on every session inbox without blocking. The
// caller holds sessionsMu.
func (s *Server) broadcastLocked(msg app.Message) {
	for sess := range s.sessions {
		select {
		case sess.inbox <- msg:
		default:
			s.log.Warn("session inbox full, dropping message", "session", sess.id, "kind", msg.Kind())
		}
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(s.opts.AllowedOrigins) > 0 {
		return slices.Contains(s.opts.AllowedOrigins, origin)
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}
