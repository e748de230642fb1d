package authz

import (
	"context"

	"github.com/tanimitra/procurement-service/internal/models"
	"github.com/tanimitra/procurement-service/internal/repository"
)

const (
	ResourceAssignment = "assignment"
	ResourceOffering   = "offering"
	ResourceApproval   = "approval"
	ResourceSettings   = "settings"

	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionSubmit = "submit"
	ActionDecide = "decide"
)

// Request is one capability check: may this actor perform the action on the
// resource?
type Request struct {
	Resource string
	Action   string
	Actor    string
}

// Policy evaluates capability checks at the boundary of each workflow
// operation, decoupled from the workflow logic itself.
type Policy interface {
	Evaluate(ctx context.Context, req Request) error
}

// RolePolicy allows an action when the actor holds one of the roles mapped to
// it. The "admin" role passes every check.
type RolePolicy struct {
	actors repository.ActorRepository
	rules  map[string][]string
}

// NewRolePolicy creates a RolePolicy with the default capability table.
func NewRolePolicy(actors repository.ActorRepository) *RolePolicy {
	return &RolePolicy{
		actors: actors,
		rules: map[string][]string{
			ResourceAssignment + ":" + ActionCreate: {"consultant"},
			ResourceAssignment + ":" + ActionEdit:   {"consultant"},
			ResourceOffering + ":" + ActionSubmit:   {"partner"},
			ResourceApproval + ":" + ActionDecide:   {"approver"},
		},
	}
}

// Evaluate returns nil when allowed, a forbidden ErrorResponse otherwise.
func (p *RolePolicy) Evaluate(ctx context.Context, req Request) error {
	if req.Actor == "" {
		return models.NewForbiddenError("actor is required")
	}

	roles, err := p.actors.RolesForActor(ctx, req.Actor)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return models.NewForbiddenError("unknown actor: " + req.Actor)
	}

	allowed := p.rules[req.Resource+":"+req.Action]
	for _, role := range roles {
		if role == "admin" {
			return nil
		}
		for _, want := range allowed {
			if role == want {
				return nil
			}
		}
	}
	return models.NewForbiddenError("you are not authorized to " + req.Action + " " + req.Resource + "s")
}
