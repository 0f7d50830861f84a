package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/rishtahub/internal/app/system/auth"
	"github.com/dalemusser/rishtahub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	role, name, id, ok := authz.UserCtx(r)
	if ok {
		t.Error("expected ok=false with no user")
	}
	if role != "visitor" || name != "" || id != primitive.NilObjectID {
		t.Errorf("got role=%q name=%q id=%v", role, name, id)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: "not-an-objectid", Role: "user"})
	_, _, _, ok := authz.UserCtx(r)
	if ok {
		t.Error("expected ok=false for malformed user ID")
	}
}

func TestUserCtx_Valid(t *testing.T) {
	uid := primitive.NewObjectID()
	r := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: uid.Hex(), Name: "Ayesha", Role: "Admin"})

	role, name, id, ok := authz.UserCtx(r)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "admin" {
		t.Errorf("role = %q, want lowercased %q", role, "admin")
	}
	if name != "Ayesha" || id != uid {
		t.Errorf("name=%q id=%v", name, id)
	}
}

func TestIsAdmin(t *testing.T) {
	uid := primitive.NewObjectID()
	admin := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: uid.Hex(), Role: "admin"})
	user := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: uid.Hex(), Role: "user"})

	if !authz.IsAdmin(admin) {
		t.Error("admin should be admin")
	}
	if authz.IsAdmin(user) {
		t.Error("user should not be admin")
	}
}

func TestIsPaid(t *testing.T) {
	uid := primitive.NewObjectID()

	paid := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: uid.Hex(), Role: "user", Paid: true})
	unpaid := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: uid.Hex(), Role: "user"})
	admin := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: uid.Hex(), Role: "admin"})

	if !authz.IsPaid(paid) {
		t.Error("paid user should be paid")
	}
	if authz.IsPaid(unpaid) {
		t.Error("unpaid user should not be paid")
	}
	if !authz.IsPaid(admin) {
		t.Error("admin is always treated as paid")
	}
}

func TestIsOwnerOrAdmin(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	ownerReq := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: owner.Hex(), Role: "user"})
	otherReq := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: other.Hex(), Role: "user"})
	adminReq := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: other.Hex(), Role: "admin"})

	if !authz.IsOwnerOrAdmin(ownerReq, owner) {
		t.Error("owner should pass")
	}
	if authz.IsOwnerOrAdmin(otherReq, owner) {
		t.Error("non-owner should fail")
	}
	if !authz.IsOwnerOrAdmin(adminReq, owner) {
		t.Error("admin should pass")
	}
}
