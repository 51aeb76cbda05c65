package server

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"golang.org/x/crypto/hkdf"
)

const (
	pairingIssuer = "arcaded"
	pairingInfo   = "arcade controller pairing v1"
	qrSize        = 256
)

// ErrInvalidPairing is returned for tokens that fail verification
var ErrInvalidPairing = errors.New("invalid pairing token")

// PairingClaims are carried by a controller pairing token
type PairingClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Pairing issues and verifies short-lived controller tokens
type Pairing struct {
	key       []byte
	ttl       time.Duration
	publicURL string
	now       func() time.Time
}

// NewPairing derives the signing key from secret. An empty secret uses a
// random one, so tokens die with the process.
func NewPairing(secret string, ttl time.Duration, publicURL string) (*Pairing, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("pairing ttl must be positive, got %s", ttl)
	}
	ikm := []byte(secret)
	if secret == "" {
		ikm = make([]byte, 32)
		if _, err := rand.Read(ikm); err != nil {
			return nil, fmt.Errorf("generate pairing secret: %w", err)
		}
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, []byte(pairingIssuer), []byte(pairingInfo)), key); err != nil {
		return nil, fmt.Errorf("derive pairing key: %w", err)
	}
	return &Pairing{
		key:       key,
		ttl:       ttl,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}, nil
}

// TTL returns the token lifetime
func (p *Pairing) TTL() time.Duration { return p.ttl }

// Issue signs a new controller token
func (p *Pairing) Issue() (string, time.Time, error) {
	now := p.now()
	exp := now.Add(p.ttl)
	claims := PairingClaims{
		Role: RoleController,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    pairingIssuer,
			Subject:   RoleController,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign pairing token: %w", err)
	}
	return token, exp, nil
}

// Verify checks signature, issuer and expiry
func (p *Pairing) Verify(token string) (*PairingClaims, error) {
	claims := &PairingClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return p.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(pairingIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPairing, err)
	}
	if claims.Role != RoleController {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidPairing, claims.Role)
	}
	return claims, nil
}

// URL builds the controller link for token. base is used when no public URL
// is configured.
func (p *Pairing) URL(base, token string) string {
	root := p.publicURL
	if root == "" {
		root = strings.TrimRight(base, "/")
	}
	return root + "/controller?" + url.Values{"token": {token}}.Encode()
}

// QRCode renders link as a PNG
func QRCode(link string) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
