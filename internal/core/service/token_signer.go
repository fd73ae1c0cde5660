package service

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chatwire/messaging-api/internal/core/domain"
)

const defaultAccessTokenTTL = 900 * time.Second

// RSATokenSigner mints RS256 access tokens. The private key never leaves this
// type; downstream verifiers fetch the public half from /public-key.
type RSATokenSigner struct {
	privateKey   *rsa.PrivateKey
	publicKeyPEM []byte
	issuer       string
	ttl          time.Duration
}

// NewRSATokenSigner parses a PKCS#1/PKCS#8 PEM private key and derives the
// PEM-encoded public key served to verifiers. An unparseable key is a startup
// failure, not a per-request one.
func NewRSATokenSigner(privateKeyPEM []byte, issuer string, ttl time.Duration) (*RSATokenSigner, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("encode public key: %w", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	if ttl <= 0 {
		ttl = defaultAccessTokenTTL
	}
	return &RSATokenSigner{
		privateKey:   key,
		publicKeyPEM: pubPEM,
		issuer:       issuer,
		ttl:          ttl,
	}, nil
}

// Sign builds the claim set for a user and signs it. exp is always iat + ttl.
func (s *RSATokenSigner) Sign(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"iss":       s.issuer,
		"groups":    user.RoleList(),
		"email":     user.Email,
		"username":  user.Username,
		"birthdate": user.Birthdate,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"iat":       now.Unix(),
		"exp":       now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := t.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// PublicKeyPEM returns the PEM-encoded verification key.
func (s *RSATokenSigner) PublicKeyPEM() []byte {
	return s.publicKeyPEM
}
