package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	models "github.com/skybook/skybook/internal"
)

// Claims is the token payload issued by the identity provider. The subject
// carries the user id, email the verified address.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier resolves bearer tokens to verified identities. HS256 with a
// shared secret, matching what the identity provider signs with.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(ctx context.Context, tokenString string) (*models.Identity, error) {
	if tokenString == "" {
		return nil, models.ErrUnauthenticated
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrUnauthenticated
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, models.ErrUnauthenticated
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, models.ErrUnauthenticated
	}

	return &models.Identity{UserID: userID, Email: claims.Email}, nil
}

// AllowList authorizes admins by email, from configuration. There is no role
// column or per-resource ACL.
type AllowList struct {
	emails map[string]bool
}

func NewAllowList(emails []string) *AllowList {
	set := make(map[string]bool, len(emails))
	for _, e := range emails {
		if e != "" {
			set[e] = true
		}
	}
	return &AllowList{emails: set}
}

func (a *AllowList) IsAdmin(email string) bool {
	return a.emails[email]
}
