package controller

import (
	"net/http"
	"testing"

	"salesforge/models"
)

func TestUpdateMemberRole(t *testing.T) {
	app, db := setupTestApp(t)
	admin, adminToken := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	member, _ := seedUserInCompany(t, db, "member@example.com", models.RoleMember, *admin.CompanyID)

	resp := doJSON(t, app, "PUT", "/api/v1/team/members/"+itoa(member.ID)+"/role", adminToken, map[string]interface{}{
		"role": models.RoleManager,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var updated models.User
	db.First(&updated, member.ID)
	if updated.Role != models.RoleManager {
		t.Errorf("role = %q, want %q", updated.Role, models.RoleManager)
	}
}

func TestUpdateMemberRoleRequiresAdmin(t *testing.T) {
	app, db := setupTestApp(t)
	admin, _ := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	_, memberToken := seedUserInCompany(t, db, "member@example.com", models.RoleMember, *admin.CompanyID)
	other, _ := seedUserInCompany(t, db, "other@example.com", models.RoleMember, *admin.CompanyID)

	resp := doJSON(t, app, "PUT", "/api/v1/team/members/"+itoa(other.ID)+"/role", memberToken, map[string]interface{}{
		"role": models.RoleAdmin,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", resp.StatusCode)
	}
}

func TestUpdateOwnRoleIsRejected(t *testing.T) {
	app, db := setupTestApp(t)
	admin, adminToken := seedUser(t, db, "admin@example.com", models.RoleAdmin)

	resp := doJSON(t, app, "PUT", "/api/v1/team/members/"+itoa(admin.ID)+"/role", adminToken, map[string]interface{}{
		"role": models.RoleMember,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpdateMemberRoleRejectsUnknownRole(t *testing.T) {
	app, db := setupTestApp(t)
	admin, adminToken := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	member, _ := seedUserInCompany(t, db, "member@example.com", models.RoleMember, *admin.CompanyID)

	resp := doJSON(t, app, "PUT", "/api/v1/team/members/"+itoa(member.ID)+"/role", adminToken, map[string]interface{}{
		"role": "overlord",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRemoveMember(t *testing.T) {
	app, db := setupTestApp(t)
	admin, adminToken := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	member, _ := seedUserInCompany(t, db, "member@example.com", models.RoleMember, *admin.CompanyID)

	resp := doJSON(t, app, "DELETE", "/api/v1/team/members/"+itoa(member.ID), adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var updated models.User
	db.First(&updated, member.ID)
	if updated.CompanyID != nil {
		t.Error("removed member still attached to company")
	}

	// Removing yourself is rejected
	resp = doJSON(t, app, "DELETE", "/api/v1/team/members/"+itoa(admin.ID), adminToken, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("self removal: expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateInvite(t *testing.T) {
	app, db := setupTestApp(t)
	_, adminToken := seedUser(t, db, "admin@example.com", models.RoleAdmin)

	resp := doJSON(t, app, "POST", "/api/v1/team/invites", adminToken, map[string]interface{}{
		"email": "newhire@example.com",
		"role":  models.RoleMember,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var invite models.Invite
	if err := db.Where("email = ?", "newhire@example.com").First(&invite).Error; err != nil {
		t.Fatalf("invite not created: %v", err)
	}
	if invite.Token == "" {
		t.Error("invite has no token")
	}
	if !invite.Usable() {
		t.Error("fresh invite should be usable")
	}
}

func TestCreateInviteRejectsExistingMember(t *testing.T) {
	app, db := setupTestApp(t)
	admin, adminToken := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	seedUserInCompany(t, db, "member@example.com", models.RoleMember, *admin.CompanyID)

	resp := doJSON(t, app, "POST", "/api/v1/team/invites", adminToken, map[string]interface{}{
		"email": "member@example.com",
		"role":  models.RoleMember,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %d", resp.StatusCode)
	}
}

func TestGetMembersIsTenantScoped(t *testing.T) {
	app, db := setupTestApp(t)
	admin, adminToken := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	seedUserInCompany(t, db, "member@example.com", models.RoleMember, *admin.CompanyID)
	seedUser(t, db, "stranger@other.com", models.RoleAdmin)

	resp := doJSON(t, app, "GET", "/api/v1/team/members", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var members []models.User
	decodeData(t, resp, &members)
	if len(members) != 2 {
		t.Errorf("member count = %d, want 2", len(members))
	}
	for _, m := range members {
		if m.Email == "stranger@other.com" {
			t.Error("member list leaked a user from another company")
		}
	}
}
