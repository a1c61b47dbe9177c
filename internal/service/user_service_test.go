package service

import (
	"strings"
	"testing"

	"agora/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	ana := h.user("Ana")
	bruno := h.user("Bruno")
	admin := h.admin("Carla")

	_, err := h.userSvc.UpdateProfile(h.ctx, actorOf(bruno), ana.ID, UpdateProfileInput{Bio: ptr("hacked")})
	assertForbiddenError(t, err)

	updated, err := h.userSvc.UpdateProfile(h.ctx, actorOf(ana), ana.ID, UpdateProfileInput{
		Name:      ptr("Ana Souza"),
		Bio:       ptr(" Urbanista "),
		Interests: []string{"parques", " ", "mobilidade"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", updated.Name)
	require.NotNil(t, updated.Profile)
	assert.Equal(t, "Urbanista", updated.Profile.Bio)
	assert.Equal(t, []string{"parques", "mobilidade"}, []string(updated.Profile.Interests))

	_, err = h.userSvc.UpdateProfile(h.ctx, actorOf(admin), ana.ID, UpdateProfileInput{Occupation: ptr("Arquiteta")})
	require.NoError(t, err)

	reloaded, err := h.userSvc.GetUserByID(h.ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", reloaded.Name)
	assert.Equal(t, "Arquiteta", reloaded.Profile.Occupation)
	assert.Equal(t, "Urbanista", reloaded.Profile.Bio)

	_, err = h.userSvc.UpdateProfile(h.ctx, actorOf(ana), ana.ID, UpdateProfileInput{Name: ptr("A")})
	assertValidationError(t, err)
}

func TestUploadAvatar(t *testing.T) {
	h := newHarness(t)
	ana := h.user("Ana")

	updated, err := h.userSvc.UploadAvatar(h.ctx, actorOf(ana), ana.ID, UploadImageInput{
		Filename:    "me.png",
		ContentType: "image/png",
		Content:     testutil.TinyPNG(t, 300, 200),
	})
	require.NoError(t, err)
	assert.Contains(t, updated.Avatar, "/uploads/avatars/")
	require.NotNil(t, updated.Profile)
	assert.Equal(t, updated.Avatar, updated.Profile.Avatar)

	_, err = h.userSvc.UploadAvatar(h.ctx, actorOf(h.user("Bruno")), ana.ID, UploadImageInput{
		Content: testutil.TinyPNG(t, 10, 10),
	})
	assertForbiddenError(t, err)
}

func TestDeleteUser(t *testing.T) {
	h := newHarness(t)
	ana := h.user("Ana")
	bruno := h.user("Bruno")
	admin := h.admin("Carla")

	assertForbiddenError(t, h.userSvc.DeleteUser(h.ctx, actorOf(bruno), ana.ID))
	require.NoError(t, h.userSvc.DeleteUser(h.ctx, actorOf(admin), ana.ID))
	assertNotFoundError(t, h.userSvc.DeleteUser(h.ctx, actorOf(admin), ana.ID))

	_, err := h.userSvc.GetActiveUser(h.ctx, ana.ID)
	assertNotFoundError(t, err)

	page, err := h.userSvc.ListUsers(h.ctx, ListUsersInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestAdminRoles(t *testing.T) {
	h := newHarness(t)
	ana := h.user("Ana")

	promoted, err := h.userSvc.SetAdmin(h.ctx, ana.ID, true)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	admins, err := h.userSvc.ListAdmins(h.ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, ana.ID, admins[0].ID)

	_, err = h.userSvc.SetAdmin(h.ctx, uuid.New(), true)
	assertNotFoundError(t, err)
}

func TestUpdateProfileRejectedLeavesUserUntouched(t *testing.T) {
	h := newHarness(t)
	ana := h.user("Ana")

	_, err := h.userSvc.UpdateProfile(h.ctx, actorOf(ana), ana.ID, UpdateProfileInput{
		Name: ptr("Ana Renomeada"),
		Bio:  ptr(strings.Repeat("b", 600)),
	})
	assertValidationError(t, err)

	reloaded, err := h.userSvc.GetUserByID(h.ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", reloaded.Name)
	require.NotNil(t, reloaded.Profile)
	assert.Empty(t, reloaded.Profile.Bio)
}
