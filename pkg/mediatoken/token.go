// Package mediatoken mints room-join access tokens for the external
// real-time media platform. The token format is the platform's standard
// one: an HS256 JWT issued under the API key, carrying the participant
// identity and a video grant naming the room it may join.
package mediatoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 6 * time.Hour

// VideoGrant scopes what the token holder may do in the media session.
type VideoGrant struct {
	RoomJoin bool   `json:"roomJoin"`
	Room     string `json:"room"`
}

type grantClaims struct {
	jwt.RegisteredClaims
	Name  string     `json:"name,omitempty"`
	Video VideoGrant `json:"video"`
}

// Minter issues media-session tokens signed with the platform API secret.
type Minter struct {
	apiKey    string
	apiSecret []byte
	ttl       time.Duration
}

// NewMinter builds a Minter. apiKey and apiSecret come from the media
// platform's credentials; ttl <= 0 falls back to six hours.
func NewMinter(apiKey, apiSecret string, ttl time.Duration) (*Minter, error) {
	apiKey = strings.TrimSpace(apiKey)
	apiSecret = strings.TrimSpace(apiSecret)
	if apiKey == "" || apiSecret == "" {
		return nil, errors.New("media token minter requires api key and secret")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Minter{apiKey: apiKey, apiSecret: []byte(apiSecret), ttl: ttl}, nil
}

// Mint returns a signed room-join token for identity and its expiry time.
func (m *Minter) Mint(identity, displayName, room string) (string, time.Time, error) {
	identity = strings.TrimSpace(identity)
	room = strings.TrimSpace(room)
	if identity == "" {
		return "", time.Time{}, errors.New("identity required")
	}
	if room == "" {
		return "", time.Time{}, errors.New("room required")
	}
	now := time.Now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := grantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.apiKey,
			Subject:   identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name:  displayName,
		Video: VideoGrant{RoomJoin: true, Room: room},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.apiSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign media token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses a token minted by this key pair and returns the identity
// and the granted room. Used by tests and by trusted internal callers; the
// media platform performs its own verification.
func (m *Minter) Verify(raw string) (identity, room string, err error) {
	var claims grantClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.apiSecret, nil
	}, jwt.WithIssuer(m.apiKey), jwt.WithExpirationRequired())
	if err != nil {
		return "", "", fmt.Errorf("parse media token: %w", err)
	}
	if !token.Valid || !claims.Video.RoomJoin {
		return "", "", errors.New("media token lacks room-join grant")
	}
	return claims.Subject, claims.Video.Room, nil
}
