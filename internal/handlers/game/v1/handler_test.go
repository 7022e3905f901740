package v1_test

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	v1 "github.com/KirkDiggler/rpg-dungeon/internal/handlers/game/v1"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/game"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/lease"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/player"
	"github.com/KirkDiggler/rpg-dungeon/internal/testutils"
)

// recorder notes event kinds before passing them on
type recorder struct {
	next  game.Notifier
	kinds chan game.EventKind
}

func (r *recorder) Notify(ctx context.Context, event *game.Event) error {
	r.kinds <- event.Kind
	return r.next.Notify(ctx, event)
}

// lostLeases fails every renewal
type lostLeases struct {
	lease.Repository
}

func (lostLeases) Renew(context.Context, lease.RenewInput) (*lease.RenewOutput, error) {
	return nil, errors.NotFound("lease expired")
}

type HandlerTestSuite struct {
	suite.Suite
	ctx      context.Context
	cancel   context.CancelFunc
	players  player.Repository
	leases   lease.Repository
	leaseTTL time.Duration
	observe  func(next game.Notifier) game.Notifier

	server *grpc.Server
	conn   *grpc.ClientConn
	client v1.GameServiceClient
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 10*time.Second)
	s.players = player.NewMemory()
	s.leases = lease.NewMemory(nil)
	s.leaseTTL = time.Minute
	s.observe = nil
}

func (s *HandlerTestSuite) TearDownTest() {
	if s.conn != nil {
		s.Require().NoError(s.conn.Close())
		s.conn = nil
	}
	if s.server != nil {
		s.server.Stop()
		s.server = nil
	}
	s.cancel()
}

// start serves the handler over an in-memory listener
func (s *HandlerTestSuite) start() {
	svc, err := game.NewOrchestrator(&game.Config{
		Players: s.players,
		Random:  random.NewScripted(.99),
	})
	s.Require().NoError(err)

	handler, err := v1.NewHandler(&v1.HandlerConfig{
		Game:     svc,
		Leases:   s.leases,
		IDGen:    idgen.NewSequential("session"),
		LeaseTTL: s.leaseTTL,
		Observe:  s.observe,
	})
	s.Require().NoError(err)

	auth, err := v1.NewAuthenticator(&v1.AuthConfig{})
	s.Require().NoError(err)

	lis := bufconn.Listen(1 << 20)
	s.server = grpc.NewServer(grpc.ChainStreamInterceptor(grpcauth.StreamServerInterceptor(auth.Authenticate)))
	v1.RegisterGameServiceServer(s.server, handler)
	go func() {
		_ = s.server.Serve(lis)
	}()

	s.conn, err = grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.client = v1.NewGameServiceClient(s.conn)
}

func (s *HandlerTestSuite) open(playerID string) v1.GameService_PlayClient {
	ctx := s.ctx
	if playerID != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, v1.PlayerIDHeader, playerID)
	}
	stream, err := s.client.Play(ctx)
	s.Require().NoError(err)
	return stream
}

func (s *HandlerTestSuite) recv(stream v1.GameService_PlayClient) *v1.Message {
	raw, err := stream.Recv()
	s.Require().NoError(err)
	msg, err := v1.Decode(raw)
	s.Require().NoError(err)
	return msg
}

func (s *HandlerTestSuite) send(stream v1.GameService_PlayClient, kind game.ActionKind) {
	msg, err := v1.Encode(&v1.Message{Action: &game.Action{Kind: kind}})
	s.Require().NoError(err)
	s.Require().NoError(stream.Send(msg))
}

func (s *HandlerTestSuite) expectPrompt(stream v1.GameService_PlayClient, kind game.PromptKind) *game.Prompt {
	msg := s.recv(stream)
	s.Require().NotNil(msg.Prompt, "expected a %s prompt", kind)
	s.Equal(kind, msg.Prompt.Kind)
	return msg.Prompt
}

func (s *HandlerTestSuite) expectEvent(stream v1.GameService_PlayClient, kind game.EventKind) *game.Event {
	msg := s.recv(stream)
	s.Require().NotNil(msg.Event, "expected a %s event", kind)
	s.Equal(kind, msg.Event.Kind)
	return msg.Event
}

func (s *HandlerTestSuite) TestNewHandlerValidatesConfig() {
	_, err := v1.NewHandler(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = v1.NewHandler(&v1.HandlerConfig{})
	s.Require().Error(err)
	s.Contains(err.Error(), "Game")
	s.Contains(err.Error(), "Leases")
	s.Contains(err.Error(), "LeaseTTL")
}

func (s *HandlerTestSuite) TestSessionCreatesPlayerAndExits() {
	s.start()
	stream := s.open(testutils.TestPlayerID)

	created := s.expectEvent(stream, game.EventCreated)
	s.Equal(testutils.TestPlayerID, created.PlayerID)
	s.EqualValues(25, created.Data["gold"])

	prompt := s.expectPrompt(stream, game.PromptCastle)
	s.Require().NotNil(prompt.View)
	s.Equal(testutils.TestPlayerID, prompt.View.PlayerID)
	s.Equal(0, prompt.View.Level)
	s.NotEmpty(prompt.View.Inventory)
	s.True(prompt.Allows(game.ActionDescend))

	s.send(stream, game.ActionExit)
	end := s.recv(stream)
	s.Require().NotNil(end.End)
	s.Equal("session_1", end.End.SessionID)
	s.False(end.End.Suspended)

	_, err := stream.Recv()
	s.Equal(io.EOF, err)

	out, err := s.players.Get(s.ctx, player.GetInput{ID: testutils.TestPlayerID})
	s.Require().NoError(err)
	s.Equal(int64(25), out.Player.Gold)
}

func (s *HandlerTestSuite) TestLeaseIsReleasedAfterSession() {
	s.start()
	stream := s.open(testutils.TestPlayerID)
	s.expectEvent(stream, game.EventCreated)
	s.expectPrompt(stream, game.PromptCastle)
	s.send(stream, game.ActionExit)
	s.Require().NotNil(s.recv(stream).End)
	_, err := stream.Recv()
	s.Require().Equal(io.EOF, err)

	s.Eventually(func() bool {
		_, err := s.leases.Acquire(s.ctx, lease.AcquireInput{
			PlayerID: testutils.TestPlayerID,
			Holder:   "someone-else",
			TTL:      time.Minute,
		})
		return err == nil
	}, time.Second, 10*time.Millisecond)
}

func (s *HandlerTestSuite) TestRejectedActionIsAskedAgain() {
	s.start()
	stream := s.open(testutils.TestPlayerID)
	s.expectEvent(stream, game.EventCreated)
	s.expectPrompt(stream, game.PromptCastle)

	s.send(stream, game.ActionAttack)
	rejected := s.expectEvent(stream, game.EventRejected)
	s.Equal("invalid_action", rejected.Data["reason"])
	s.expectPrompt(stream, game.PromptCastle)

	s.send(stream, game.ActionExit)
	s.Require().NotNil(s.recv(stream).End)
}

func (s *HandlerTestSuite) TestMalformedActionIsAskedAgain() {
	s.start()
	stream := s.open(testutils.TestPlayerID)
	s.expectEvent(stream, game.EventCreated)
	s.expectPrompt(stream, game.PromptCastle)

	bad, err := structpb.NewStruct(map[string]any{"action": "descend"})
	s.Require().NoError(err)
	s.Require().NoError(stream.Send(bad))

	rejected := s.expectEvent(stream, game.EventRejected)
	s.Equal("no action chosen", rejected.Data["message"])
	s.expectPrompt(stream, game.PromptCastle)

	s.send(stream, game.ActionExit)
	s.Require().NotNil(s.recv(stream).End)
}

func (s *HandlerTestSuite) TestMissingIdentityIsUnauthenticated() {
	s.start()
	stream := s.open("")

	_, err := stream.Recv()
	s.Require().Error(err)
	s.Equal(codes.Unauthenticated, status.Code(err))
}

func (s *HandlerTestSuite) TestSecondSessionIsRefused() {
	_, err := s.leases.Acquire(s.ctx, lease.AcquireInput{
		PlayerID: testutils.TestPlayerID,
		Holder:   "session_other",
		TTL:      time.Minute,
	})
	s.Require().NoError(err)
	s.start()

	stream := s.open(testutils.TestPlayerID)
	_, err = stream.Recv()
	s.Require().Error(err)
	s.Equal(codes.AlreadyExists, status.Code(err))
}

func (s *HandlerTestSuite) TestLostLeaseAbortsSession() {
	s.leases = lostLeases{Repository: lease.NewMemory(nil)}
	s.leaseTTL = 30 * time.Millisecond
	s.start()

	stream := s.open(testutils.TestPlayerID)
	s.expectEvent(stream, game.EventCreated)
	s.expectPrompt(stream, game.PromptCastle)

	// never answer: the failed renewal ends the session
	_, err := stream.Recv()
	s.Require().Error(err)
	s.Equal(codes.Aborted, status.Code(err))
}

func (s *HandlerTestSuite) TestObserverSeesEvents() {
	kinds := make(chan game.EventKind, 8)
	s.observe = func(next game.Notifier) game.Notifier {
		return &recorder{next: next, kinds: kinds}
	}
	s.start()

	stream := s.open(testutils.TestPlayerID)
	s.expectEvent(stream, game.EventCreated)
	s.expectPrompt(stream, game.PromptCastle)
	s.send(stream, game.ActionExit)
	s.Require().NotNil(s.recv(stream).End)

	s.Equal(game.EventCreated, <-kinds)
}

// scriptedDecider answers prompts from a fixed list
type scriptedDecider struct {
	answers []game.ActionKind
	prompts []game.PromptKind
}

func (d *scriptedDecider) Decide(_ context.Context, prompt *game.Prompt) (*game.Action, error) {
	d.prompts = append(d.prompts, prompt.Kind)
	if len(d.answers) == 0 {
		return &game.Action{Kind: game.ActionExit}, nil
	}
	next := d.answers[0]
	d.answers = d.answers[1:]
	return &game.Action{Kind: next}, nil
}

type collectingNotifier struct {
	events []*game.Event
}

func (n *collectingNotifier) Notify(_ context.Context, event *game.Event) error {
	n.events = append(n.events, event)
	return nil
}

func (s *HandlerTestSuite) TestPlayRemoteDescendsAndLeaves() {
	s.start()
	stream := s.open(testutils.TestPlayerID)

	decider := &scriptedDecider{answers: []game.ActionKind{game.ActionDescend, game.ActionYes}}
	notifier := &collectingNotifier{}
	end, err := v1.PlayRemote(s.ctx, stream, decider, notifier)
	s.Require().NoError(err)
	s.False(end.Suspended)

	s.Equal([]game.PromptKind{game.PromptCastle, game.PromptConfirm, game.PromptDungeon}, decider.prompts)
	s.Require().Len(notifier.events, 2)
	s.Equal(game.EventCreated, notifier.events[0].Kind)
	s.Equal(game.EventDescended, notifier.events[1].Kind)

	out, err := s.players.Get(s.ctx, player.GetInput{ID: testutils.TestPlayerID})
	s.Require().NoError(err)
	s.True(out.Player.InDungeon())
}

func (s *HandlerTestSuite) TestPlayRemoteSurfacesServerErrors() {
	s.start()
	stream := s.open("")

	_, err := v1.PlayRemote(s.ctx, stream, &scriptedDecider{}, &collectingNotifier{})
	s.Require().Error(err)
	s.True(errors.IsUnauthenticated(err))
}
