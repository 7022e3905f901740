package v1

import (
	"context"
	"io"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/game"
)

// PlayRemote drives a Play stream from the client side: events go to n,
// prompts are answered by d. It returns the end frame sent by the server.
func PlayRemote(ctx context.Context, stream GameService_PlayClient, d game.Decider, n game.Notifier) (*End, error) {
	if stream == nil || d == nil || n == nil {
		return nil, errors.InvalidArgument("stream, decider and notifier are required")
	}
	defer func() {
		_ = stream.CloseSend()
	}()

	for {
		raw, err := stream.Recv()
		if err == io.EOF {
			return nil, errors.Unavailable("server closed the session without ending it")
		}
		if err != nil {
			return nil, errors.FromGRPCError(err)
		}
		msg, err := Decode(raw)
		if err != nil {
			return nil, err
		}

		switch {
		case msg.End != nil:
			return msg.End, nil
		case msg.Event != nil:
			if err := n.Notify(ctx, msg.Event); err != nil {
				return nil, errors.Wrap(err, "failed to show event")
			}
		case msg.Prompt != nil:
			action, err := d.Decide(ctx, msg.Prompt)
			if err != nil {
				return nil, errors.Wrap(err, "failed to get decision")
			}
			reply, err := Encode(&Message{Action: action})
			if err != nil {
				return nil, err
			}
			if err := stream.Send(reply); err != nil {
				return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to send action")
			}
		}
	}
}
