package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

func errPermission(actor *model.Actor, msg string, opts ...goerr.Option) error {
	opts = append(opts,
		goerr.V(model.ActorIDKey, actorID(actor)),
		goerr.V(model.RoleKey, actorRole(actor)))
	return goerr.Wrap(model.ErrPermissionDenied, msg, opts...)
}

func errValidation(msg string, opts ...goerr.Option) error {
	return goerr.Wrap(model.ErrValidation, msg, opts...)
}

func actorID(actor *model.Actor) types.UserID {
	if actor == nil {
		return ""
	}
	return actor.ID
}

func actorRole(actor *model.Actor) types.Role {
	if actor == nil {
		return ""
	}
	return actor.Role
}

// requireRole fails unless the actor holds one of roles. It never touches storage.
func requireRole(actor *model.Actor, msg string, roles ...types.Role) error {
	if actor == nil || !actor.Role.In(roles...) {
		return errPermission(actor, msg)
	}
	return nil
}

// requirePrivileged fails unless the actor holds a privileged role
func requirePrivileged(actor *model.Actor, msg string) error {
	if actor == nil || !actor.Role.IsPrivileged() {
		return errPermission(actor, msg)
	}
	return nil
}
