package principal

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingPrincipal = errors.New("no authenticated principal")

// Principal is the authenticated identity handed to every mutating operation.
type Principal struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Email     string
	AvatarURL string
}

func (p Principal) Authenticated() bool {
	return strings.TrimSpace(p.ID) != ""
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// DerivedUsername picks the handle the local user row should carry: the provider
// username, else the first name lowercased with whitespace runs as "_", else
// "user_" plus the last six characters of the ID.
func (p Principal) DerivedUsername() string {
	if u := strings.TrimSpace(p.Username); u != "" {
		return u
	}
	if first := strings.TrimSpace(p.FirstName); first != "" {
		return whitespaceRun.ReplaceAllString(strings.ToLower(first), "_")
	}
	id := p.ID
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return "user_" + id
}

// FromContext builds a Principal from the verified JWT stored by the auth middleware.
func FromContext(c *fiber.Ctx) (Principal, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Principal{}, ErrMissingPrincipal
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrMissingPrincipal
	}
	return FromClaims(claims)
}

func FromClaims(claims jwt.MapClaims) (Principal, error) {
	sub, _ := claims["sub"].(string)
	p := Principal{
		ID:        sub,
		Username:  stringClaim(claims, "username"),
		FirstName: stringClaim(claims, "first_name"),
		LastName:  stringClaim(claims, "last_name"),
		Email:     stringClaim(claims, "email"),
		AvatarURL: stringClaim(claims, "image_url"),
	}
	if !p.Authenticated() {
		return Principal{}, ErrMissingPrincipal
	}
	return p, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
