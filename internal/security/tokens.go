package security

import (
	"crypto"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid is returned when a token is malformed, tampered with,
	// signed with the wrong key, or signed with an unexpected algorithm.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned when a token's signature is valid but its
	// expiry has passed. Callers can distinguish it from ErrTokenInvalid.
	ErrTokenExpired = errors.New("token expired")
)

// TokenTypeAccess is the type discriminator carried in access token claims.
const TokenTypeAccess = "access"

// Claims holds the JWT claim set for an access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"type"`
}

// Bundle is the issued-token envelope handed to callers.
type Bundle struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenProvider issues and validates signed access tokens. The signing
// algorithm is fixed at construction: HS256 with a shared secret, or
// RS256/ES256 with a private/public key pair. Any instance holding the same
// signing material can validate a token issued by another, so validation
// needs no shared session store.
type TokenProvider struct {
	alg        string
	secret     []byte
	privateKey crypto.Signer
	publicKey  crypto.PublicKey
	ttl        time.Duration
}

// NewHMACTokenProvider returns a TokenProvider signing with HS256 and the
// given shared secret. ttl is the access token lifetime.
func NewHMACTokenProvider(secret []byte, ttl time.Duration) (*TokenProvider, error) {
	if len(secret) == 0 {
		return nil, errors.New("token provider: secret must not be empty")
	}
	return &TokenProvider{alg: "HS256", secret: secret, ttl: ttl}, nil
}

// NewKeyTokenProvider returns a TokenProvider signing with RS256 or ES256
// depending on the key type. ttl is the access token lifetime.
func NewKeyTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, ttl time.Duration) (*TokenProvider, error) {
	alg := KeyAlg(publicKey)
	if alg == "" || privateKey == nil {
		return nil, ErrInvalidKey
	}
	return &TokenProvider{alg: alg, privateKey: privateKey, publicKey: publicKey, ttl: ttl}, nil
}

// TTL returns the configured access token lifetime.
func (p *TokenProvider) TTL() time.Duration {
	return p.ttl
}

// Issue signs an access token for the given user identity and returns it
// wrapped in a Bundle with token_type "bearer" and expires_in in seconds.
func (p *TokenProvider) Issue(userID, email string) (*Bundle, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
		UserID:    userID,
		Email:     email,
		TokenType: TokenTypeAccess,
	}

	var (
		token string
		err   error
	)
	switch p.alg {
	case "HS256":
		token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	case "RS256":
		token, err = jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.privateKey)
	case "ES256":
		token, err = jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(p.privateKey)
	default:
		return nil, ErrTokenInvalid
	}
	if err != nil {
		return nil, err
	}

	return &Bundle{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(p.ttl.Seconds()),
	}, nil
}

// Validate parses tokenString, verifies its signature and algorithm, and
// checks expiry and the access type discriminator. Returns the claims, or
// ErrTokenExpired when only the expiry check failed, or ErrTokenInvalid for
// any structural, signature, or algorithm failure.
func (p *TokenProvider) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != p.alg {
			return nil, ErrTokenInvalid
		}
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return p.secret, nil
		case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
			return p.publicKey, nil
		default:
			return nil, ErrTokenInvalid
		}
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrTokenInvalid
	}
	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
