// Package viewdata holds the view-model base embedded by every page.
package viewdata

import (
	"net/http"

	"github.com/dalemusser/rishtahub/internal/app/system/auth"
)

// BaseVM carries the chrome every template needs: page title, signed-in
// state, and where the Back link goes.
type BaseVM struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	IsPaid     bool
	HasProfile bool
	BackURL    string
}

// NewBaseVM builds the shared view-model chrome from the request context.
func NewBaseVM(r *http.Request, title, backURL string) BaseVM {
	vm := BaseVM{Title: title, BackURL: backURL}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Role = u.Role
		vm.UserName = u.Name
		vm.IsPaid = u.Paid
		vm.HasProfile = u.ProfileCompleted
	}
	return vm
}
