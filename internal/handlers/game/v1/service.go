// Package v1 serves game sessions over a bidirectional gRPC stream
package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name
	ServiceName = "rpgdungeon.v1.GameService"
	// PlayMethod is the full method name of the session stream
	PlayMethod = "/" + ServiceName + "/Play"
)

// GameServiceServer is the server API for GameService
type GameServiceServer interface {
	// Play runs one session. The server sends prompt and event messages and
	// the client answers each prompt with an action message.
	Play(GameService_PlayServer) error
}

// GameService_PlayServer is the server side of the Play stream
//
//nolint:revive // matches generated gRPC naming
type GameService_PlayServer = grpc.BidiStreamingServer[structpb.Struct, structpb.Struct]

// GameService_PlayClient is the client side of the Play stream
//
//nolint:revive // matches generated gRPC naming
type GameService_PlayClient = grpc.BidiStreamingClient[structpb.Struct, structpb.Struct]

// ServiceDesc describes GameService for grpc.ServiceRegistrar
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Play",
			Handler:       playHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "rpgdungeon/v1/game.proto",
}

// RegisterGameServiceServer registers srv on s
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func playHandler(srv any, stream grpc.ServerStream) error {
	return srv.(GameServiceServer).Play(&grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}

// GameServiceClient is the client API for GameService
type GameServiceClient interface {
	Play(ctx context.Context, opts ...grpc.CallOption) (GameService_PlayClient, error)
}

type gameServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGameServiceClient creates a client on cc
func NewGameServiceClient(cc grpc.ClientConnInterface) GameServiceClient {
	return &gameServiceClient{cc: cc}
}

func (c *gameServiceClient) Play(ctx context.Context, opts ...grpc.CallOption) (GameService_PlayClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], PlayMethod, opts...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}, nil
}
