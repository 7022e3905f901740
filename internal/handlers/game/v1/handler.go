package v1

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/game"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/lease"
)

// HandlerConfig holds dependencies for the game handler
type HandlerConfig struct {
	Game     game.Service
	Leases   lease.Repository
	IDGen    idgen.Generator
	LeaseTTL time.Duration
	Logger   *slog.Logger
	// Observe wraps the notifier of every session; optional
	Observe func(next game.Notifier) game.Notifier
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("handler config is required")
	}
	vb := errors.NewValidationBuilder()
	if c.Game == nil {
		vb.RequiredField("Game")
	}
	if c.Leases == nil {
		vb.RequiredField("Leases")
	}
	if c.IDGen == nil {
		vb.RequiredField("IDGen")
	}
	errors.ValidatePositive("LeaseTTL", c.LeaseTTL, vb)
	return vb.Build()
}

// Handler implements GameServiceServer
type Handler struct {
	game     game.Service
	leases   lease.Repository
	ids      idgen.Generator
	leaseTTL time.Duration
	logger   *slog.Logger
	observe  func(next game.Notifier) game.Notifier
}

var _ GameServiceServer = (*Handler)(nil)

// NewHandler creates a new game handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		game:     cfg.Game,
		leases:   cfg.Leases,
		ids:      cfg.IDGen,
		leaseTTL: cfg.LeaseTTL,
		logger:   logger,
		observe:  cfg.Observe,
	}, nil
}

// Play runs a session for the authenticated player. Only one stream per
// player may be open; the lease is renewed in the background and a lost
// lease ends the session.
func (h *Handler) Play(stream GameService_PlayServer) error {
	playerID, ok := PlayerIDFromContext(stream.Context())
	if !ok {
		return errors.ToGRPCError(errors.Unauthenticated("player identity is required"))
	}
	sessionID := h.ids.Generate()
	logger := h.logger.With("player_id", playerID, "session_id", sessionID)

	if _, err := h.leases.Acquire(stream.Context(), lease.AcquireInput{
		PlayerID: playerID,
		Holder:   sessionID,
		TTL:      h.leaseTTL,
	}); err != nil {
		return errors.ToGRPCError(err)
	}
	defer h.release(stream.Context(), logger, playerID, sessionID)

	ctx, cancel := context.WithCancelCause(stream.Context())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.keepAlive(ctx, cancel, playerID, sessionID)
	}()
	defer wg.Wait()
	defer cancel(nil)

	logger.Info("session started")
	conn := &streamConn{stream: stream, playerID: playerID}
	var notifier game.Notifier = conn
	if h.observe != nil {
		notifier = h.observe(conn)
	}
	out, err := h.game.Play(ctx, &game.PlayInput{
		PlayerID: playerID,
		Decider:  conn,
		Notifier: notifier,
	})
	if err != nil {
		if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
			err = cause
		}
		logger.Warn("session ended with error", "error", err)
		return errors.ToGRPCError(err)
	}

	logger.Info("session ended", "suspended", out.Suspended)
	msg, err := Encode(&Message{End: &End{SessionID: sessionID, Suspended: out.Suspended}})
	if err != nil {
		return errors.ToGRPCError(err)
	}
	if err := stream.Send(msg); err != nil {
		return errors.ToGRPCError(errors.WrapWithCode(err, errors.CodeUnavailable, "failed to send end of session"))
	}
	return nil
}

// keepAlive renews the lease until ctx ends, cancelling the session if
// the lease is lost
func (h *Handler) keepAlive(ctx context.Context, cancel context.CancelCauseFunc, playerID, sessionID string) {
	ticker := time.NewTicker(h.leaseTTL / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := h.leases.Renew(ctx, lease.RenewInput{
				PlayerID: playerID,
				Holder:   sessionID,
				TTL:      h.leaseTTL,
			})
			if err == nil {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			cancel(errors.WrapWithCode(err, errors.CodeAborted, "session lease lost"))
			return
		}
	}
}

func (h *Handler) release(ctx context.Context, logger *slog.Logger, playerID, sessionID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := h.leases.Release(ctx, lease.ReleaseInput{PlayerID: playerID, Holder: sessionID}); err != nil {
		logger.Warn("failed to release session lease", "error", err)
	}
}

// streamConn adapts the stream to the game's Decider and Notifier
type streamConn struct {
	stream   GameService_PlayServer
	playerID string
}

func (c *streamConn) Decide(ctx context.Context, prompt *game.Prompt) (*game.Action, error) {
	if err := c.send(&Message{Prompt: prompt}); err != nil {
		return nil, err
	}

	type received struct {
		msg *Message
		err error
	}
	ch := make(chan received, 1)
	go func() {
		raw, err := c.stream.Recv()
		if err != nil {
			ch <- received{err: err}
			return
		}
		msg, err := Decode(raw)
		ch <- received{msg: msg, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(context.Cause(ctx), "session interrupted")
	case r := <-ch:
		switch {
		case r.err == io.EOF:
			return nil, errors.New(errors.CodeCanceled, "client closed the session")
		case errors.IsInvalidArgument(r.err):
			// answered with a nil action so the player is asked again
			return nil, nil
		case r.err != nil:
			return nil, errors.WrapWithCode(r.err, errors.CodeUnavailable, "failed to receive action")
		}
		return r.msg.Action, nil
	}
}

func (c *streamConn) Notify(_ context.Context, event *game.Event) error {
	return c.send(&Message{Event: event})
}

func (c *streamConn) send(m *Message) error {
	msg, err := Encode(m)
	if err != nil {
		return err
	}
	if err := c.stream.Send(msg); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to send message")
	}
	return nil
}
