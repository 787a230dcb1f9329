// Package authz decides whether a role may reach a scope.
//
// The decision runs through a casbin enforcer holding a flat role-to-scope
// policy in memory. Role names are owned by the identity module; this package
// only knows the scopes.
package authz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
)

// Scope is a class of operations guarded by the gate.
type Scope string

const (
	// ScopeAuthenticated covers every operation open to a signed-in user.
	ScopeAuthenticated Scope = "authenticated"
	// ScopePrivileged covers administrative operations.
	ScopePrivileged Scope = "privileged"
)

// ErrInvalidRule is returned for a policy entry not shaped "role:scope".
var ErrInvalidRule = errors.New("authz: policy rule must be role:scope")

const rbacModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj
`

// Rule grants Scope to Role.
type Rule struct {
	Role  string
	Scope Scope
}

// DefaultRules grant admin both scopes and owner the authenticated scope.
func DefaultRules() []Rule {
	return []Rule{
		{Role: "admin", Scope: ScopeAuthenticated},
		{Role: "admin", Scope: ScopePrivileged},
		{Role: "owner", Scope: ScopeAuthenticated},
	}
}

// ParseRules parses "role:scope" entries, such as the list read from the
// authz.policies setting.
func ParseRules(entries []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(entries))
	for _, e := range entries {
		role, scope, ok := strings.Cut(strings.TrimSpace(e), ":")
		role, scope = strings.TrimSpace(role), strings.TrimSpace(scope)
		if !ok || role == "" || scope == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRule, e)
		}
		rules = append(rules, Rule{Role: strings.ToLower(role), Scope: Scope(strings.ToLower(scope))})
	}
	return rules, nil
}

// Gate answers role/scope questions.
type Gate struct {
	enforcer *casbin.Enforcer
}

// New builds a Gate from rules. Nil or empty rules select DefaultRules.
func New(rules []Rule) (*Gate, error) {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	policies := make([][]string, 0, len(rules))
	for _, r := range rules {
		policies = append(policies, []string{r.Role, string(r.Scope)})
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}

	return &Gate{enforcer: e}, nil
}

// Allow reports whether role holds scope. Unknown roles hold nothing.
func (g *Gate) Allow(role string, scope Scope) (bool, error) {
	if role == "" {
		return false, nil
	}
	return g.enforcer.Enforce(strings.ToLower(role), string(scope))
}
