package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/deppfellow/taskmanagement/internal/model"
	"github.com/deppfellow/taskmanagement/internal/server"
)

// AuthService configures Clerk with the secret key and resolves Clerk
// subjects into identities.
type AuthService struct {
	server *server.Server
}

func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthService{
		server: s,
	}
}

// Lookup fetches the Clerk user behind a session subject.
func (a *AuthService) Lookup(ctx context.Context, externalID string) (model.Identity, error) {
	u, err := user.Get(ctx, externalID)
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to fetch clerk user %s: %w", externalID, err)
	}

	return identityFromClerk(u), nil
}

// identityFromClerk picks the primary e-mail address and falls back through
// username, first name and e-mail local part for the display name.
func identityFromClerk(u *clerk.User) model.Identity {
	identity := model.Identity{ExternalID: u.ID}

	for _, address := range u.EmailAddresses {
		if address == nil {
			continue
		}
		if identity.Email == "" || (u.PrimaryEmailAddressID != nil && address.ID == *u.PrimaryEmailAddressID) {
			identity.Email = address.EmailAddress
		}
	}

	switch {
	case u.Username != nil && *u.Username != "":
		identity.Username = *u.Username
	case u.FirstName != nil && *u.FirstName != "":
		identity.Username = *u.FirstName
	case identity.Email != "":
		identity.Username, _, _ = strings.Cut(identity.Email, "@")
	default:
		identity.Username = u.ID
	}

	return identity
}
