// Package errors provides structured errors for rpg-dungeon.
//
// An Error carries a Code that maps onto gRPC status codes, a user-facing
// message, an optional cause and a metadata map. Game rule violations add a
// "reason" entry to the metadata so callers can tell them apart from
// infrastructure failures that share the same code:
//
//	err := errors.InsufficientResource("you don't have a key").
//	    WithMeta("item", "I:KEY")
//
//	if errors.IsRejection(err) {
//	    // tell the player and ask again
//	}
//
// Repositories return NotFound for missing players and CorruptPersistence
// (DATA_LOSS) for records that cannot be decoded. Orchestrators wrap with
// context using Wrap, which keeps the code and metadata of the cause.
// Handlers convert with ToGRPCError; metadata rides along as a
// google.protobuf.Struct status detail and FromGRPCError restores it.
//
// Configuration and input structs validate with the ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("player_id", input.PlayerID, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
