package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/secmon-lab/ouvidoria/pkg/controller/http"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Auth modes
const (
	AuthHeader = "header"
	AuthNone   = "none"
)

// Auth selects how API callers are identified
type Auth struct {
	mode       string
	noAuthUser string
	noAuthRole string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth",
			Usage:       "Case API authentication (header: trusted proxy headers, none: fixed user). The case API is disabled when empty",
			Category:    "Auth",
			Sources:     cli.EnvVars("OUVIDORIA_AUTH"),
			Destination: &x.mode,
		},
		&cli.StringFlag{
			Name:        "no-auth-user",
			Usage:       "User ID acting on every request in none mode",
			Category:    "Auth",
			Value:       "local",
			Sources:     cli.EnvVars("OUVIDORIA_NO_AUTH_USER"),
			Destination: &x.noAuthUser,
		},
		&cli.StringFlag{
			Name:        "no-auth-role",
			Usage:       "Role of the no-auth user",
			Category:    "Auth",
			Value:       string(types.RoleAdmin),
			Sources:     cli.EnvVars("OUVIDORIA_NO_AUTH_ROLE"),
			Destination: &x.noAuthRole,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mode", x.mode),
		slog.String("no-auth-user", x.noAuthUser),
		slog.String("no-auth-role", x.noAuthRole),
	)
}

// Configure returns the authenticator for the case API, or nil when the API
// is disabled.
func (x *Auth) Configure() (httpctrl.Authenticator, error) {
	switch x.mode {
	case "":
		return nil, nil

	case AuthHeader:
		return httpctrl.NewHeaderAuthenticator(), nil

	case AuthNone:
		role := types.Role(x.noAuthRole)
		if !role.In(types.RoleAdmin, types.RoleCEO, types.RoleTriage, types.RoleInvestigator, types.RoleUser) {
			return nil, goerr.Wrap(ErrInvalidConfig, "invalid no-auth role", goerr.V(FlagKey, "no-auth-role"), goerr.V("role", x.noAuthRole))
		}
		if x.noAuthUser == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "no-auth-user is required in none mode", goerr.V(FlagKey, "no-auth-user"))
		}
		return httpctrl.NewNoAuthn(model.Actor{
			ID:   types.UserID(x.noAuthUser),
			Role: role,
			Name: x.noAuthUser,
		}), nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid auth mode", goerr.V("mode", x.mode))
	}
}
