package v1

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/metadata"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
)

// PlayerIDHeader names the player when token auth is off
const PlayerIDHeader = "x-player-id"

type playerIDKey struct{}

// WithPlayerID attaches an authenticated player id to ctx
func WithPlayerID(ctx context.Context, playerID string) context.Context {
	return context.WithValue(ctx, playerIDKey{}, playerID)
}

// PlayerIDFromContext returns the player id set by the authenticator
func PlayerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(playerIDKey{}).(string)
	return id, ok && id != ""
}

// AuthConfig configures player identity on incoming streams
type AuthConfig struct {
	// Enabled requires an HS256 bearer token whose subject is the player id.
	// When false the player id is read from the x-player-id header.
	Enabled bool
	Secret  string
	Issuer  string
	TTL     time.Duration
	Clock   clock.Clock
}

// Validate ensures the token settings are usable
func (c *AuthConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("auth config is required")
	}
	if !c.Enabled {
		return nil
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("secret", c.Secret, vb)
	errors.ValidateRequired("issuer", c.Issuer, vb)
	errors.ValidatePositive("ttl", c.TTL, vb)
	return vb.Build()
}

// Authenticator resolves and issues player identities
type Authenticator struct {
	enabled bool
	secret  []byte
	issuer  string
	ttl     time.Duration
	clock   clock.Clock
}

// NewAuthenticator creates an authenticator from cfg
func NewAuthenticator(cfg *AuthConfig) (*Authenticator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	return &Authenticator{
		enabled: cfg.Enabled,
		secret:  []byte(cfg.Secret),
		issuer:  cfg.Issuer,
		ttl:     cfg.TTL,
		clock:   c,
	}, nil
}

// Authenticate is a grpcauth.AuthFunc that puts the player id on ctx
func (a *Authenticator) Authenticate(ctx context.Context) (context.Context, error) {
	if !a.enabled {
		values := metadata.ValueFromIncomingContext(ctx, PlayerIDHeader)
		if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			return nil, errors.ToGRPCError(errors.Unauthenticatedf("%s header is required", PlayerIDHeader))
		}
		return WithPlayerID(ctx, strings.TrimSpace(values[0])), nil
	}

	token, err := grpcauth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, err
	}
	playerID, err := a.Verify(token)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return WithPlayerID(ctx, playerID), nil
}

// Verify checks a token and returns its player id
func (a *Authenticator) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.clock.Now),
	)
	if err != nil {
		return "", errors.Unauthenticatedf("invalid token: %v", err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.Unauthenticated("token has no subject")
	}
	return claims.Subject, nil
}

// Mint issues a token for a player
func (a *Authenticator) Mint(playerID string) (string, error) {
	if strings.TrimSpace(playerID) == "" {
		return "", errors.InvalidArgument("player id is required")
	}
	if !a.enabled {
		return "", errors.New(errors.CodeFailedPrecondition, "token auth is disabled")
	}
	now := a.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   playerID,
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// Credentials returns outgoing metadata that identifies a player to a
// server configured like a
func (a *Authenticator) Credentials(playerID string) (metadata.MD, error) {
	if !a.enabled {
		return metadata.Pairs(PlayerIDHeader, playerID), nil
	}
	token, err := a.Mint(playerID)
	if err != nil {
		return nil, err
	}
	return metadata.Pairs("authorization", "bearer "+token), nil
}
