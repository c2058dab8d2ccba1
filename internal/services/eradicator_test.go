package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/monocle-dev/hackhub/internal/models"
	"github.com/monocle-dev/hackhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// world is a fixture touching every table that references a profile.
type world struct {
	target  models.Profile // the profile being deleted
	other   models.Profile // owns a project the target is a member of
	invitee models.Profile // member of the target's project
	banned  models.Profile // banned and hidden by the target

	ownedProject models.Project
	otherProject models.Project

	ownedInvite     models.TeamInvite // target -> invitee on ownedProject
	receivedInvite  models.TeamInvite // other -> target on otherProject
	sentForOther    models.TeamInvite // target -> invitee on otherProject
	inviteeOnOther  models.ProjectMember
	targetOnOther   models.ProjectMember
	inviteeOnOwned  models.ProjectMember
	event           models.Event
	ownedSubmission models.EventProject
	otherSubmission models.EventProject

	mentorApp   models.MentorApplication
	sponsorship models.SponsorshipInquiry

	actedAsActor  models.AuditLogEntry
	actedOnTarget models.AuditLogEntry
}

func buildWorld(t *testing.T, conn *gorm.DB) *world {
	t.Helper()

	w := &world{}
	w.target = testutil.CreateProfile(t, conn, "user_target")
	w.other = testutil.CreateProfile(t, conn, "user_other")
	w.invitee = testutil.CreateProfile(t, conn, "user_invitee")
	w.banned = testutil.CreateProfile(t, conn, "user_banned")

	require.NoError(t, conn.Model(&w.target).Update("role", models.RoleAdmin).Error)
	require.NoError(t, conn.Model(&w.banned).Updates(map[string]interface{}{
		"is_banned":    true,
		"banned_by_id": w.target.ID,
		"is_hidden":    true,
		"hidden_by_id": w.target.ID,
	}).Error)

	w.ownedProject = testutil.CreateProject(t, conn, w.target.ID, "owned")
	w.otherProject = testutil.CreateProject(t, conn, w.other.ID, "other")

	w.ownedInvite = models.TeamInvite{ProjectID: w.ownedProject.ID, SenderID: w.target.ID, RecipientID: &w.invitee.ID, Status: models.InviteStatusAccepted}
	testutil.MustCreate(t, conn, &w.ownedInvite)

	w.receivedInvite = models.TeamInvite{ProjectID: w.otherProject.ID, SenderID: w.other.ID, RecipientID: &w.target.ID, Status: models.InviteStatusAccepted}
	testutil.MustCreate(t, conn, &w.receivedInvite)

	w.sentForOther = models.TeamInvite{ProjectID: w.otherProject.ID, SenderID: w.target.ID, RecipientID: &w.invitee.ID, Status: models.InviteStatusAccepted}
	testutil.MustCreate(t, conn, &w.sentForOther)

	w.inviteeOnOwned = models.ProjectMember{ProjectID: w.ownedProject.ID, ProfileID: w.invitee.ID, Role: models.MemberRoleMember, InviteID: &w.ownedInvite.ID}
	testutil.MustCreate(t, conn, &w.inviteeOnOwned)

	w.targetOnOther = models.ProjectMember{ProjectID: w.otherProject.ID, ProfileID: w.target.ID, Role: models.MemberRoleMember, InviteID: &w.receivedInvite.ID}
	testutil.MustCreate(t, conn, &w.targetOnOther)

	w.inviteeOnOther = models.ProjectMember{ProjectID: w.otherProject.ID, ProfileID: w.invitee.ID, Role: models.MemberRoleMember, InviteID: &w.sentForOther.ID}
	testutil.MustCreate(t, conn, &w.inviteeOnOther)

	w.event = testutil.CreateEvent(t, conn, "spring-jam")
	w.ownedSubmission = models.EventProject{EventID: w.event.ID, ProjectID: w.ownedProject.ID}
	testutil.MustCreate(t, conn, &w.ownedSubmission)
	w.otherSubmission = models.EventProject{EventID: w.event.ID, ProjectID: w.otherProject.ID}
	testutil.MustCreate(t, conn, &w.otherSubmission)

	testutil.MustCreate(t, conn, &models.EventRegistration{EventID: w.event.ID, ProfileID: w.target.ID})
	testutil.MustCreate(t, conn, &models.EventRegistration{EventID: w.event.ID, ProfileID: w.other.ID})

	w.mentorApp = models.MentorApplication{Name: "Mentor", Email: "m@example.com", Status: models.ApplicationStatusApproved, ReviewedByID: &w.target.ID}
	testutil.MustCreate(t, conn, &w.mentorApp)
	w.sponsorship = models.SponsorshipInquiry{CompanyName: "Acme", ContactEmail: "s@acme.test", Status: models.ApplicationStatusApproved, ReviewedByID: &w.target.ID}
	testutil.MustCreate(t, conn, &w.sponsorship)

	w.actedAsActor = models.AuditLogEntry{ActorID: w.target.ID, Action: models.AuditActionBan, TargetProfileID: &w.banned.ID}
	testutil.MustCreate(t, conn, &w.actedAsActor)
	w.actedOnTarget = models.AuditLogEntry{ActorID: w.other.ID, Action: models.AuditActionHide, TargetProfileID: &w.target.ID}
	testutil.MustCreate(t, conn, &w.actedOnTarget)

	return w
}

// tableCounts snapshots row counts of every table.
func tableCounts(t *testing.T, conn *gorm.DB) map[string]int64 {
	t.Helper()

	counts := map[string]int64{}
	for name, model := range map[string]interface{}{
		"profiles":              &models.Profile{},
		"projects":              &models.Project{},
		"team_invites":          &models.TeamInvite{},
		"project_members":       &models.ProjectMember{},
		"event_projects":        &models.EventProject{},
		"event_registrations":   &models.EventRegistration{},
		"mentor_applications":   &models.MentorApplication{},
		"sponsorship_inquiries": &models.SponsorshipInquiry{},
		"audit_log_entries":     &models.AuditLogEntry{},
	} {
		counts[name] = testutil.Count(t, conn, model, "")
	}

	return counts
}

// assertNoReferences checks every profile-referencing column for id.
func assertNoReferences(t *testing.T, conn *gorm.DB, id string) {
	t.Helper()

	checks := []struct {
		model interface{}
		query string
	}{
		{&models.Profile{}, "id = ? OR banned_by_id = ? OR hidden_by_id = ?"},
		{&models.Project{}, "owner_id = ?"},
		{&models.TeamInvite{}, "sender_id = ? OR recipient_id = ?"},
		{&models.ProjectMember{}, "profile_id = ?"},
		{&models.EventRegistration{}, "profile_id = ?"},
		{&models.MentorApplication{}, "reviewed_by_id = ?"},
		{&models.SponsorshipInquiry{}, "reviewed_by_id = ?"},
		{&models.AuditLogEntry{}, "actor_id = ? OR target_profile_id = ?"},
	}

	for _, c := range checks {
		args := make([]interface{}, 0, 3)
		for i := 0; i < strings.Count(c.query, "?"); i++ {
			args = append(args, id)
		}
		assert.Zero(t, testutil.Count(t, conn, c.model, c.query, args...), "%T still references %s", c.model, id)
	}

	var violations []map[string]interface{}
	require.NoError(t, conn.Raw("PRAGMA foreign_key_check").Scan(&violations).Error)
	assert.Empty(t, violations)
}

func TestEradicator_StepOrder(t *testing.T) {
	e := NewEradicator(nil)

	assert.Equal(t, []string{
		StepOwnedProjects,
		StepMemberships,
		StepInvites,
		StepEventRegistrations,
		StepReviews,
		StepAuditLog,
		StepModerationRefs,
		StepProfile,
	}, e.Steps())
}

func TestDeleteProfileCascade_Complete(t *testing.T) {
	conn := testutil.NewDB(t)
	w := buildWorld(t, conn)

	require.NoError(t, NewEradicator(conn).DeleteProfileCascade(context.Background(), w.target.ID))

	// The profile and what it owned are gone.
	assert.Zero(t, testutil.Count(t, conn, &models.Profile{}, "id = ?", w.target.ID))
	assert.Zero(t, testutil.Count(t, conn, &models.Project{}, "id = ?", w.ownedProject.ID))
	assert.Zero(t, testutil.Count(t, conn, &models.ProjectMember{}, "project_id = ?", w.ownedProject.ID))
	assert.Zero(t, testutil.Count(t, conn, &models.TeamInvite{}, "project_id = ?", w.ownedProject.ID))
	assert.Zero(t, testutil.Count(t, conn, &models.EventProject{}, "project_id = ?", w.ownedProject.ID))
	assert.Zero(t, testutil.Count(t, conn, &models.EventRegistration{}, "profile_id = ?", w.target.ID))

	// Invites it sent or received on other projects are gone, and the
	// membership created from one of them survives with no invite.
	assert.Zero(t, testutil.Count(t, conn, &models.TeamInvite{}, "id IN ?", []string{w.receivedInvite.ID, w.sentForOther.ID}))
	var inviteeOnOther models.ProjectMember
	require.NoError(t, conn.Where("id = ?", w.inviteeOnOther.ID).First(&inviteeOnOther).Error)
	assert.Nil(t, inviteeOnOther.InviteID)

	// Its own membership on someone else's project is gone.
	assert.Zero(t, testutil.Count(t, conn, &models.ProjectMember{}, "id = ?", w.targetOnOther.ID))

	// Reviews survive without a reviewer.
	var mentorApp models.MentorApplication
	require.NoError(t, conn.First(&mentorApp, "id = ?", w.mentorApp.ID).Error)
	assert.Nil(t, mentorApp.ReviewedByID)
	var sponsorship models.SponsorshipInquiry
	require.NoError(t, conn.First(&sponsorship, "id = ?", w.sponsorship.ID).Error)
	assert.Nil(t, sponsorship.ReviewedByID)

	// Audit: entries it authored go, entries about it lose their target.
	assert.Zero(t, testutil.Count(t, conn, &models.AuditLogEntry{}, "id = ?", w.actedAsActor.ID))
	var onTarget models.AuditLogEntry
	require.NoError(t, conn.First(&onTarget, "id = ?", w.actedOnTarget.ID).Error)
	assert.Nil(t, onTarget.TargetProfileID)
	assert.Equal(t, w.other.ID, onTarget.ActorID)

	// Moderation references on other profiles are cleared, flags kept.
	var banned models.Profile
	require.NoError(t, conn.First(&banned, "id = ?", w.banned.ID).Error)
	assert.True(t, banned.IsBanned)
	assert.True(t, banned.IsHidden)
	assert.Nil(t, banned.BannedByID)
	assert.Nil(t, banned.HiddenByID)

	// Unrelated rows are untouched.
	assert.Equal(t, int64(1), testutil.Count(t, conn, &models.Project{}, "id = ?", w.otherProject.ID))
	assert.Equal(t, int64(1), testutil.Count(t, conn, &models.EventProject{}, "id = ?", w.otherSubmission.ID))
	assert.Equal(t, int64(1), testutil.Count(t, conn, &models.EventRegistration{}, "profile_id = ?", w.other.ID))
	assert.Equal(t, int64(3), testutil.Count(t, conn, &models.Profile{}, ""))

	assertNoReferences(t, conn, w.target.ID)
}

func TestDeleteProfileCascade_NoDanglingReferencesForAnyProfile(t *testing.T) {
	for _, pick := range []func(w *world) models.Profile{
		func(w *world) models.Profile { return w.target },
		func(w *world) models.Profile { return w.other },
		func(w *world) models.Profile { return w.invitee },
		func(w *world) models.Profile { return w.banned },
	} {
		conn := testutil.NewDB(t)
		w := buildWorld(t, conn)
		victim := pick(w)

		require.NoError(t, NewEradicator(conn).DeleteProfileCascade(context.Background(), victim.ID), victim.ClerkID)
		assertNoReferences(t, conn, victim.ID)
	}
}

func TestDeleteProfileCascade_OwnerAndInvitedMember(t *testing.T) {
	setup := func(t *testing.T) (*gorm.DB, models.Profile, models.Profile, models.Project, models.TeamInvite, models.ProjectMember) {
		conn := testutil.NewDB(t)
		a := testutil.CreateProfile(t, conn, "user_a")
		b := testutil.CreateProfile(t, conn, "user_b")
		p := testutil.CreateProject(t, conn, a.ID, "P")

		invite := models.TeamInvite{ProjectID: p.ID, SenderID: a.ID, RecipientID: &b.ID, Status: models.InviteStatusAccepted}
		testutil.MustCreate(t, conn, &invite)
		member := models.ProjectMember{ProjectID: p.ID, ProfileID: b.ID, Role: models.MemberRoleMember, InviteID: &invite.ID}
		testutil.MustCreate(t, conn, &member)

		return conn, a, b, p, invite, member
	}

	t.Run("DeleteOwner", func(t *testing.T) {
		conn, a, b, p, invite, member := setup(t)

		require.NoError(t, NewEradicator(conn).DeleteProfileCascade(context.Background(), a.ID))

		assert.Zero(t, testutil.Count(t, conn, &models.Project{}, "id = ?", p.ID))
		assert.Zero(t, testutil.Count(t, conn, &models.TeamInvite{}, "id = ?", invite.ID))
		assert.Zero(t, testutil.Count(t, conn, &models.ProjectMember{}, "id = ?", member.ID))
		assert.Zero(t, testutil.Count(t, conn, &models.Profile{}, "id = ?", a.ID))
		assert.Equal(t, int64(1), testutil.Count(t, conn, &models.Profile{}, "id = ?", b.ID))
	})

	t.Run("DeleteMember", func(t *testing.T) {
		conn, a, b, p, invite, member := setup(t)

		require.NoError(t, NewEradicator(conn).DeleteProfileCascade(context.Background(), b.ID))

		assert.Zero(t, testutil.Count(t, conn, &models.ProjectMember{}, "id = ?", member.ID))
		assert.Zero(t, testutil.Count(t, conn, &models.Profile{}, "id = ?", b.ID))
		// B was the recipient, so the invite addressed to B goes with it.
		assert.Zero(t, testutil.Count(t, conn, &models.TeamInvite{}, "id = ?", invite.ID))
		assert.Equal(t, int64(1), testutil.Count(t, conn, &models.Project{}, "id = ?", p.ID))
		assert.Equal(t, int64(1), testutil.Count(t, conn, &models.Profile{}, "id = ?", a.ID))
	})
}

func TestDeleteProfileCascade_UnknownProfileIsNoop(t *testing.T) {
	conn := testutil.NewDB(t)
	buildWorld(t, conn)
	before := tableCounts(t, conn)

	require.NoError(t, NewEradicator(conn).DeleteProfileCascade(context.Background(), "does-not-exist"))

	assert.Equal(t, before, tableCounts(t, conn))
}

func TestDeleteProfileCascade_SecondRunIsNoop(t *testing.T) {
	conn := testutil.NewDB(t)
	w := buildWorld(t, conn)
	e := NewEradicator(conn)

	require.NoError(t, e.DeleteProfileCascade(context.Background(), w.target.ID))
	after := tableCounts(t, conn)

	require.NoError(t, e.DeleteProfileCascade(context.Background(), w.target.ID))
	assert.Equal(t, after, tableCounts(t, conn))
}

func TestDeleteProfileCascade_AtomicOnFailure(t *testing.T) {
	for _, failAfter := range []string{StepOwnedProjects, StepInvites, StepModerationRefs, StepProfile} {
		t.Run(failAfter, func(t *testing.T) {
			conn := testutil.NewDB(t)
			w := buildWorld(t, conn)
			before := tableCounts(t, conn)

			injected := errors.New("injected failure")
			e := NewEradicator(conn)
			e.afterStep = func(step string) error {
				if step == failAfter {
					return injected
				}
				return nil
			}

			err := e.DeleteProfileCascade(context.Background(), w.target.ID)
			require.ErrorIs(t, err, injected)
			assert.Contains(t, err.Error(), failAfter)

			assert.Equal(t, before, tableCounts(t, conn))

			var banned models.Profile
			require.NoError(t, conn.First(&banned, "id = ?", w.banned.ID).Error)
			require.NotNil(t, banned.BannedByID)
			assert.Equal(t, w.target.ID, *banned.BannedByID)

			var member models.ProjectMember
			require.NoError(t, conn.First(&member, "id = ?", w.inviteeOnOther.ID).Error)
			require.NotNil(t, member.InviteID)
			assert.Equal(t, w.sentForOther.ID, *member.InviteID)
		})
	}
}

func TestDeleteProfileCascade_CancelledContext(t *testing.T) {
	conn := testutil.NewDB(t)
	w := buildWorld(t, conn)
	before := tableCounts(t, conn)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewEradicator(conn).DeleteProfileCascade(ctx, w.target.ID)
	assert.Error(t, err)
	assert.Equal(t, before, tableCounts(t, conn))
}

func TestEradicate_ReportsRemovedProjects(t *testing.T) {
	conn := testutil.NewDB(t)
	w := buildWorld(t, conn)
	second := testutil.CreateProject(t, conn, w.target.ID, "Second")

	removal, err := NewEradicator(conn).Eradicate(context.Background(), w.target.ID)
	require.NoError(t, err)
	assert.Equal(t, w.target.ID, removal.ProfileID)
	assert.ElementsMatch(t, []string{w.ownedProject.ID, second.ID}, removal.ProjectIDs)

	for _, id := range removal.ProjectIDs {
		assert.Zero(t, testutil.Count(t, conn, &models.Project{}, "id = ?", id))
	}
}

func TestEradicate_NothingReportedOnFailure(t *testing.T) {
	conn := testutil.NewDB(t)
	w := buildWorld(t, conn)

	e := NewEradicator(conn)
	e.afterStep = func(step string) error {
		if step == StepProfile {
			return errors.New("boom")
		}
		return nil
	}

	removal, err := e.Eradicate(context.Background(), w.target.ID)
	assert.Error(t, err)
	assert.Nil(t, removal)
	assert.Equal(t, int64(1), testutil.Count(t, conn, &models.Project{}, "id = ?", w.ownedProject.ID))
}

func TestEradicate_UnknownProfileReportsNothing(t *testing.T) {
	conn := testutil.NewDB(t)

	removal, err := NewEradicator(conn).Eradicate(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, removal.ProjectIDs)
}
