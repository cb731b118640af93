package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// RegisteredClaims re-exports the RFC 7519 registered claim set so callers can
// embed it without importing the underlying library.
type RegisteredClaims = gojwt.RegisteredClaims

// Claims is implemented by every claims type accepted by Service.
type Claims = gojwt.Claims

// NewNumericDate wraps t for use in RegisteredClaims.
func NewNumericDate(t time.Time) *gojwt.NumericDate {
	return gojwt.NewNumericDate(t)
}

// Service signs and verifies HS256 tokens with a shared secret.
type Service struct {
	signingKey []byte
	parser     *gojwt.Parser
}

// Option configures the Service.
type Option func(*options)

type options struct {
	leeway time.Duration
}

// WithLeeway tolerates clock skew when checking exp/nbf/iat.
func WithLeeway(d time.Duration) Option {
	return func(o *options) { o.leeway = d }
}

// New creates a Service from a raw signing key.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	parserOpts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
	}
	if o.leeway > 0 {
		parserOpts = append(parserOpts, gojwt.WithLeeway(o.leeway))
	}

	return &Service{
		signingKey: signingKey,
		parser:     gojwt.NewParser(parserOpts...),
	}, nil
}

// NewFromString is New for string-based configuration.
func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), opts...)
}

// Generate signs claims with HS256.
func (s *Service) Generate(claims Claims) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return token, nil
}

// Parse verifies the signature and temporal claims of token and decodes it
// into claims, which must be a pointer.
//
// An elapsed validity window yields ErrExpiredToken. Every other failure
// (structure, signature, algorithm, not-before) yields ErrInvalidToken with
// the library error joined for diagnostics.
func (s *Service) Parse(token string, claims Claims) error {
	if token == "" {
		return ErrMissingToken
	}
	if claims == nil {
		return ErrMissingClaims
	}

	_, err := s.parser.ParseWithClaims(token, claims, func(t *gojwt.Token) (any, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrExpiredToken, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
