package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophledger/internal/common"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
)

// PrincipalLookup finds a user by login name.
type PrincipalLookup interface {
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

// Resolver turns a bearer token into the active user it was issued for.
type Resolver struct {
	codec *TokenCodec
	users PrincipalLookup
}

func NewResolver(codec *TokenCodec, users PrincipalLookup) *Resolver {
	return &Resolver{codec: codec, users: users}
}

// Resolve returns the user named by token.
//
// Invalid or expired tokens and unknown subjects yield
// common.ErrUnauthenticated; a deactivated account yields
// common.ErrInactive; lookup failures are wrapped in common.ErrorInternal.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	subject, err := r.codec.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	user, err := r.users.GetUserByLogin(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if !user.IsActive {
		return nil, common.ErrInactive
	}

	return user, nil
}
