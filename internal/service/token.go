package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lawhelp/auth-service/config"
	apperrors "github.com/lawhelp/auth-service/internal/errors"
)

// SessionClaims is the decoded identity carried by a session token.
type SessionClaims struct {
	AccountID string
	Email     string
}

// TokenService issues and verifies stateless HMAC-signed session
// tokens. There is no server-side session record: possession of an
// unexpired token with a valid signature is the session.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.ExpirationTime,
		now:    time.Now,
	}
}

// Issue signs a token binding the account id and email, valid from now
// until the configured expiry.
func (s *TokenService) Issue(accountID, email string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": accountID,
		"email":   email,
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return signed, nil
}

// Verify validates the signature and expiry and returns the embedded
// identity. Expired tokens are reported distinctly from malformed or
// tampered ones.
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	accountID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	if accountID == "" {
		return nil, apperrors.ErrInvalidToken
	}

	return &SessionClaims{AccountID: accountID, Email: email}, nil
}
