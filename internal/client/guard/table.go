package guard

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/dealership/internal/client/auth"
	"github.com/dmitrijs2005/dealership/internal/client/models"
	"github.com/go-chi/chi/v5"
)

// Route binds a chi pattern to the policy guarding it.
type Route struct {
	Pattern string
	Policy  Policy
}

// Storefront is the dealership's page map.
var Storefront = []Route{
	{"/", Public},
	{"/cars", Public},
	{"/cars/{id}", Public},
	{"/feedback", Authenticated},
	{"/orders", Authenticated},
	{"/orders/{id}", Authenticated},
	{"/favorites", Authenticated},
	{"/profile", Authenticated},
	{auth.PathSales, RequireRole(models.RoleSales)},
	{auth.PathSales + "/*", RequireRole(models.RoleSales)},
	{auth.PathAdmin, RequireRole(models.RoleAdmin)},
	{auth.PathAdmin + "/*", RequireRole(models.RoleAdmin)},
	{auth.PathLogin, Guest},
	{"/register", Guest},
	{auth.PathVerifyWaiting, Public},
	{"/reset-password", Public},
}

type policyKey struct{}

// Table resolves a path to its policy using chi's route matching. Paths that
// match no route need a signed-in user.
type Table struct {
	mux *chi.Mux
}

func NewTable(routes []Route) *Table {
	mux := chi.NewRouter()
	for _, r := range routes {
		policy := r.Policy
		mux.Get(r.Pattern, func(_ http.ResponseWriter, req *http.Request) {
			if slot, ok := req.Context().Value(policyKey{}).(*Policy); ok {
				*slot = policy
			}
		})
	}
	mux.NotFound(func(http.ResponseWriter, *http.Request) {})
	return &Table{mux: mux}
}

// Lookup returns the policy for path. ok is false when path is not a
// local absolute path.
func (t *Table) Lookup(path string) (Policy, bool) {
	if !isLocalPath(path) {
		return Policy{}, false
	}
	policy := Authenticated
	ctx := context.WithValue(context.Background(), policyKey{}, &policy)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Policy{}, false
	}
	t.mux.ServeHTTP(discard{}, req)
	return policy, true
}

// Decide evaluates the policy registered for path.
func (t *Table) Decide(snap auth.Snapshot, path string) Decision {
	p, ok := t.Lookup(path)
	if !ok {
		return Decision{Kind: Redirect, To: auth.PathHome}
	}
	return Evaluate(snap, p, path)
}

// Permits reports whether an account with role may be sent straight to path
// after signing in.
func (t *Table) Permits(role models.Role, path string) bool {
	p, ok := t.Lookup(path)
	if !ok || p.Access == AccessGuest {
		return false
	}
	snap := auth.Snapshot{State: auth.StateAuthenticated, Account: &models.Account{Role: role}}
	return Evaluate(snap, p, path).Kind == Render
}

type discard struct{}

func (discard) Header() http.Header { return http.Header{} }

func (discard) Write(b []byte) (int, error) { return len(b), nil }

func (discard) WriteHeader(int) {}
