package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return c, rec
}

func TestGetIdentityAuthenticated(t *testing.T) {
	c, _ := testContext()
	userID := uuid.New()
	c.Set(ContextUserIDKey, userID)
	c.Set(ContextRolesKey, []string{"admin"})

	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		t.Fatal("expected authenticated identity")
	}
	if id.UserID() != userID {
		t.Fatalf("expected user %s, got %s", userID, id.UserID())
	}
	if !id.HasRole("admin") || id.HasRole("tecnico") {
		t.Fatalf("roles wrong: %v", id.Roles())
	}
}

func TestGetIdentityMissingUser(t *testing.T) {
	c, _ := testContext()

	if GetIdentity(c).IsAuthenticated() {
		t.Fatal("identity without user ID must be unauthenticated")
	}
}

func TestGetIdentityBadUserIDType(t *testing.T) {
	c, _ := testContext()
	c.Set(ContextUserIDKey, "not-a-uuid")

	if GetIdentity(c).IsAuthenticated() {
		t.Fatal("non-UUID user ID must be unauthenticated")
	}
}

func TestMustGetIdentityAbortsUnauthenticated(t *testing.T) {
	c, rec := testContext()

	if id := MustGetIdentity(c); id != nil {
		t.Fatalf("expected nil identity, got %v", id)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !c.IsAborted() {
		t.Fatal("request should be aborted")
	}
}
