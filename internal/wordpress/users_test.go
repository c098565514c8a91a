package wordpress

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/tessirov/pressgate/internal/apperr"
	"github.com/tessirov/pressgate/internal/testutil"
)

func TestSetUserRoleReplaceIdempotent(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	id := site.SeedUser("alice", "Alice", "alice@example.com", []string{"author", "contributor"})

	for i := 0; i < 2; i++ {
		user, err := c.SetUserRole(context.Background(), SetUserRoleInput{
			UserID: id, Role: "editor", RemoveOtherRoles: true,
		})
		if err != nil {
			t.Fatalf("SetUserRole #%d: %v", i+1, err)
		}
		if !reflect.DeepEqual(user.Roles, []string{"editor"}) {
			t.Errorf("roles after call %d = %v, want [editor]", i+1, user.Roles)
		}
	}
}

func TestSetUserRoleAdditive(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	id := site.SeedUser("bob", "Bob", "bob@example.com", []string{"author"})

	user, err := c.SetUserRole(context.Background(), SetUserRoleInput{UserID: id, Role: "editor"})
	if err != nil {
		t.Fatalf("SetUserRole: %v", err)
	}
	if !reflect.DeepEqual(user.Roles, []string{"author", "editor"}) {
		t.Errorf("roles = %v", user.Roles)
	}
}

func TestSetUserRoleRequiresRole(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.SetUserRole(context.Background(), SetUserRoleInput{UserID: 1})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

func TestResetPasswordGeneratesTwelveChars(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	id := site.SeedUser("carol", "Carol", "carol@example.com", []string{"author"})

	res, err := c.ResetUserPassword(context.Background(), ResetUserPasswordInput{
		UserID: id, RevealPassword: true,
	})
	if err != nil {
		t.Fatalf("ResetUserPassword: %v", err)
	}
	if !res.Generated {
		t.Error("password should be generated")
	}
	if len(res.Password) != 12 {
		t.Errorf("password length = %d, want 12", len(res.Password))
	}
	for _, r := range res.Password {
		if !strings.ContainsRune(passwordAlphabet, r) {
			t.Errorf("password contains non-alphanumeric %q", r)
		}
	}
	u, _ := site.User(id)
	if u.Password != res.Password {
		t.Error("remote password should match the returned one")
	}
}

func TestResetPasswordRefusesHiddenGeneration(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.ResetUserPassword(context.Background(), ResetUserPasswordInput{UserID: 5})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

func TestResetPasswordResolvesByEmail(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	id := site.SeedUser("dave", "Dave", "dave@example.com", []string{"author"})

	res, err := c.ResetUserPassword(context.Background(), ResetUserPasswordInput{
		Email: "dave@example.com", NewPassword: "s3cret-enough",
	})
	if err != nil {
		t.Fatalf("ResetUserPassword: %v", err)
	}
	if res.UserID != id {
		t.Errorf("userId = %d, want %d", res.UserID, id)
	}
	if res.Generated || res.Password != "" {
		t.Errorf("caller-supplied password must not be echoed: %+v", res)
	}
	u, _ := site.User(id)
	if u.Password != "s3cret-enough" {
		t.Errorf("remote password = %q", u.Password)
	}
}

func TestResetPasswordUnknownEmail(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.ResetUserPassword(context.Background(), ResetUserPasswordInput{
		Email: "ghost@example.com", NewPassword: "whatever",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestResetPasswordNeedsIdentifier(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.ResetUserPassword(context.Background(), ResetUserPasswordInput{NewPassword: "x"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}

func TestUserCRUD(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	ctx := context.Background()

	user, err := c.CreateUser(ctx, CreateUserInput{
		Username: "erin", Email: "erin@example.com", Password: "pw", Roles: []string{"editor"},
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 || user.Username != "erin" {
		t.Errorf("user = %+v", user)
	}

	name := "Erin Q."
	user, err = c.UpdateUser(ctx, user.ID, UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if user.Name != "Erin Q." {
		t.Errorf("name = %q", user.Name)
	}

	got, err := c.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "erin@example.com" {
		t.Errorf("email = %q", got.Email)
	}

	res, err := c.DeleteUser(ctx, user.ID, 1)
	if err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if !res.Deleted {
		t.Error("user delete should be forced")
	}
}

func TestListUsersDefaultsOrdering(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)
	site.SeedUser("u1", "User One", "u1@example.com", []string{"author"})

	in := ListUsersInput{}
	in.normalize()
	if in.OrderBy != "registered_date" || in.Order != "desc" {
		t.Errorf("defaults = %s/%s, want registered_date/desc", in.OrderBy, in.Order)
	}

	list, err := c.ListUsers(context.Background(), ListUsersInput{})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if list.Total != 1 || len(list.Users) != 1 {
		t.Errorf("list = %+v", list)
	}
}

func TestListUsersPerPageCap(t *testing.T) {
	site := testutil.NewSite(t)
	c := testClient(t, site)

	_, err := c.ListUsers(context.Background(), ListUsersInput{PerPage: 200})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if site.Requests() != 0 {
		t.Errorf("requests = %d, want 0", site.Requests())
	}
}
