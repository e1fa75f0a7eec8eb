package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/collection-calendar/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(raw string) (model.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}
	role := model.ParseUserRole(claims.Role)
	switch role {
	case model.UserRoleAdmin, model.UserRoleEditor, model.UserRoleViewer:
	default:
		return model.Principal{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return model.Principal{UserID: userID, Role: role}, nil
}

// Issue signs an access token; used by tooling and tests.
func (p *Parser) Issue(principal model.Principal, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = principal.UserID.String()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             string(principal.Role),
		RegisteredClaims: claims,
	})
	return token.SignedString(p.secret)
}
