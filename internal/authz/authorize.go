// Package authz implements the request-time authorization decision.
// Every decision is a pure function of the principal snapshot and the
// target (module, action): no stored state is consulted and no side
// effects occur, so a decision may be evaluated any number of times per
// request. Super-admin bypass lives here and nowhere else.
package authz

import (
	"github.com/google/uuid"

	"accounts-service/internal/models"
	"accounts-service/internal/permissions"
)

// DenyCode classifies why a decision denied.
type DenyCode string

const (
	// DenyUnauthorized: no authenticated principal. Client error, never retried.
	DenyUnauthorized DenyCode = "UNAUTHORIZED"
	// DenyInvalidModuleOrAction: the route asked about a pair outside the
	// taxonomy. A programming error, not an access issue; the HTTP layer
	// should treat it as a 5xx.
	DenyInvalidModuleOrAction DenyCode = "INVALID_MODULE_OR_ACTION"
	// DenyPermissionDenied: the principal lacks the grant. Expected and frequent.
	DenyPermissionDenied DenyCode = "PERMISSION_DENIED"
)

// Principal is the already-authenticated actor, with its role tag and a
// snapshot of its stored permission set resolved by the auth layer.
type Principal struct {
	ID          uuid.UUID
	TenantID    string
	Role        models.AccountRole
	Permissions permissions.Set
}

// Decision is the outcome of an authorization check. Missing carries the
// denied "module.action" pairs for actionable client messaging.
type Decision struct {
	Allowed bool     `json:"allowed"`
	Code    DenyCode `json:"code,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(code DenyCode, missing ...string) Decision {
	return Decision{Allowed: false, Code: code, Missing: missing}
}

// Pair names one (module, action) target.
type Pair struct {
	Module permissions.Module
	Action permissions.Action
}

// Authorize decides whether principal may perform action on module.
// Super admins are allowed unconditionally, independent of any stored
// permission set, even an empty or malformed one.
func Authorize(principal *Principal, module permissions.Module, action permissions.Action) Decision {
	if principal == nil {
		return deny(DenyUnauthorized)
	}
	if principal.Role == models.RoleSuperAdmin {
		return allow()
	}
	if !permissions.IsValid(module, action) {
		return deny(DenyInvalidModuleOrAction, permissions.Key(module, action))
	}
	if principal.Permissions.Read(module, action) {
		return allow()
	}
	return deny(DenyPermissionDenied, permissions.Key(module, action))
}

// RequireAll allows only when every pair is granted; a denial lists all
// missing pairs, not just the first. An empty pair list is vacuously allowed.
func RequireAll(principal *Principal, pairs ...Pair) Decision {
	if principal == nil {
		return deny(DenyUnauthorized)
	}
	if principal.Role == models.RoleSuperAdmin {
		return allow()
	}
	var missing []string
	for _, pair := range pairs {
		d := Authorize(principal, pair.Module, pair.Action)
		if d.Allowed {
			continue
		}
		if d.Code != DenyPermissionDenied {
			return d
		}
		missing = append(missing, d.Missing...)
	}
	if len(missing) > 0 {
		return deny(DenyPermissionDenied, missing...)
	}
	return allow()
}

// RequireAny allows when at least one pair is granted. Super admins are
// allowed regardless of the pair list; for anyone else an empty list denies,
// since no grant can satisfy it.
func RequireAny(principal *Principal, pairs ...Pair) Decision {
	if principal == nil {
		return deny(DenyUnauthorized)
	}
	if principal.Role == models.RoleSuperAdmin {
		return allow()
	}
	var missing []string
	for _, pair := range pairs {
		d := Authorize(principal, pair.Module, pair.Action)
		if d.Allowed {
			return allow()
		}
		if d.Code != DenyPermissionDenied {
			return d
		}
		missing = append(missing, d.Missing...)
	}
	return deny(DenyPermissionDenied, missing...)
}

// RequireModuleAccess allows when any action in the module is granted,
// view or otherwise.
func RequireModuleAccess(principal *Principal, module permissions.Module) Decision {
	if principal == nil {
		return deny(DenyUnauthorized)
	}
	if principal.Role == models.RoleSuperAdmin {
		return allow()
	}
	actions := permissions.ActionsFor(module)
	if actions == nil {
		return deny(DenyInvalidModuleOrAction, string(module))
	}
	for _, action := range actions {
		if principal.Permissions.Read(module, action) {
			return allow()
		}
	}
	return deny(DenyPermissionDenied, string(module))
}
