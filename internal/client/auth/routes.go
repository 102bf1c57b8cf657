package auth

import "github.com/dmitrijs2005/dealership/internal/client/models"

// Entry points the controller navigates to.
const (
	PathHome          = "/"
	PathLogin         = "/login"
	PathAdmin         = "/admin"
	PathSales         = "/sales"
	PathVerifyWaiting = "/verify-email"
)

// HomeFor is where a freshly signed-in account lands.
func HomeFor(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return PathAdmin
	case models.RoleSales:
		return PathSales
	case models.RoleCustomer:
		return PathHome
	default:
		return PathHome
	}
}

// Navigator moves the host UI to path.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }
