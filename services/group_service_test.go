package services

import (
	"context"
	"testing"

	"github.com/walpass/health-tracker-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCreatePromotesFounder(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	founder := seedUser(t, db, "alice")

	group, err := svc.Create(context.Background(), founder.ID, "Team A")
	require.NoError(t, err)
	require.NotNil(t, group.LeaderID)
	assert.Equal(t, founder.ID, *group.LeaderID)

	var stored models.User
	require.NoError(t, db.First(&stored, founder.ID).Error)
	assert.Equal(t, models.RoleLeader, stored.Role)
	require.NotNil(t, stored.GroupID)
	assert.Equal(t, group.ID, *stored.GroupID)
}

func TestGroupCreateDuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.Create(context.Background(), alice.ID, "Team A")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), bob.ID, "Team A")
	assert.ErrorIs(t, err, models.ErrConflict)

	var count int64
	require.NoError(t, db.Model(&models.Group{}).Where("name = ?", "Team A").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// the failed founder was not promoted
	var stored models.User
	require.NoError(t, db.First(&stored, bob.ID).Error)
	assert.Equal(t, models.RoleMember, stored.Role)
	assert.Nil(t, stored.GroupID)
}

func TestGroupCreateByExistingLeader(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	alice := seedUser(t, db, "alice")
	seedGroup(t, db, "Team A", alice)

	_, err := svc.Create(context.Background(), alice.ID, "Team B")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestGroupMutatorsRequireLeader(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	ctx := context.Background()

	_, err := svc.SearchCandidates(ctx, alice.ID, "bob")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.Invite(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	err = svc.Remove(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = svc.MemberLatestRecords(ctx, alice.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestSearchCandidates(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	leader := seedUser(t, db, "alice")
	group := seedGroup(t, db, "Team A", leader)
	ctx := context.Background()

	member := seedUser(t, db, "bobby")
	member.GroupID = &group.ID
	require.NoError(t, db.Save(member).Error)

	seedUser(t, db, "bobcat")

	other := seedUser(t, db, "carol")
	otherLeader := seedUser(t, db, "dave")
	otherGroup := seedGroup(t, db, "Team B", otherLeader)
	other.GroupID = &otherGroup.ID
	require.NoError(t, db.Save(other).Error)

	// empty query is rejected, not treated as match-all
	_, err := svc.SearchCandidates(ctx, leader.ID, "  ")
	assert.ErrorIs(t, err, models.ErrValidation)

	// case-insensitive substring, own members excluded
	found, err := svc.SearchCandidates(ctx, leader.ID, "BOB")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "bobcat", found[0].Username)

	// members of other groups are fair game
	found, err = svc.SearchCandidates(ctx, leader.ID, "carol")
	require.NoError(t, err)
	require.Len(t, found, 1)

	// the leader never shows up, even on a self match
	found, err = svc.SearchCandidates(ctx, leader.ID, "alice")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestInviteMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	leader := seedUser(t, db, "alice")
	group := seedGroup(t, db, "Team A", leader)
	target := seedUser(t, db, "bob")

	res, err := svc.Invite(context.Background(), leader.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyMember)

	var stored models.User
	require.NoError(t, db.First(&stored, target.ID).Error)
	require.NotNil(t, stored.GroupID)
	assert.Equal(t, group.ID, *stored.GroupID)
	assert.Equal(t, models.RoleMember, stored.Role)
}

func TestInviteMemberIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	leader := seedUser(t, db, "alice")
	group := seedGroup(t, db, "Team A", leader)
	target := seedUser(t, db, "bob")
	ctx := context.Background()

	_, err := svc.Invite(ctx, leader.ID, target.ID)
	require.NoError(t, err)

	var before int64
	require.NoError(t, db.Model(&models.User{}).Where("group_id = ?", group.ID).Count(&before).Error)

	res, err := svc.Invite(ctx, leader.ID, target.ID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyMember)

	var after int64
	require.NoError(t, db.Model(&models.User{}).Where("group_id = ?", group.ID).Count(&after).Error)
	assert.Equal(t, before, after)
}

func TestInviteTransfersFromOtherGroup(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	alice := seedUser(t, db, "alice")
	teamA := seedGroup(t, db, "Team A", alice)
	dave := seedUser(t, db, "dave")
	teamB := seedGroup(t, db, "Team B", dave)

	target := seedUser(t, db, "bob")
	target.GroupID = &teamB.ID
	require.NoError(t, db.Save(target).Error)

	res, err := svc.Invite(context.Background(), alice.ID, target.ID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyMember)

	var stored models.User
	require.NoError(t, db.First(&stored, target.ID).Error)
	require.NotNil(t, stored.GroupID)
	assert.Equal(t, teamA.ID, *stored.GroupID)
}

func TestInviteMissingUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	leader := seedUser(t, db, "alice")
	seedGroup(t, db, "Team A", leader)

	_, err := svc.Invite(context.Background(), leader.ID, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRemoveMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	leader := seedUser(t, db, "alice")
	group := seedGroup(t, db, "Team A", leader)
	member := seedUser(t, db, "bob")
	member.GroupID = &group.ID
	require.NoError(t, db.Save(member).Error)

	require.NoError(t, svc.Remove(context.Background(), leader.ID, member.ID))

	var stored models.User
	require.NoError(t, db.First(&stored, member.ID).Error)
	assert.Nil(t, stored.GroupID)
	assert.Equal(t, models.RoleMember, stored.Role)
}

func TestRemoveSelf(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	leader := seedUser(t, db, "alice")
	seedGroup(t, db, "Team A", leader)

	err := svc.Remove(context.Background(), leader.ID, leader.ID)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRemoveMemberOfOtherGroup(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	alice := seedUser(t, db, "alice")
	seedGroup(t, db, "Team A", alice)
	dave := seedUser(t, db, "dave")
	teamB := seedGroup(t, db, "Team B", dave)

	stranger := seedUser(t, db, "bob")
	stranger.GroupID = &teamB.ID
	require.NoError(t, db.Save(stranger).Error)

	err := svc.Remove(context.Background(), alice.ID, stranger.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	err = svc.Remove(context.Background(), alice.ID, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemberLatestRecords(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	records := NewRecordService(db, nil)
	ctx := context.Background()

	leader := seedUser(t, db, "zoe")
	group := seedGroup(t, db, "Team A", leader)

	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	for _, u := range []*models.User{bob, carol} {
		u.GroupID = &group.ID
		require.NoError(t, db.Save(u).Error)
	}

	_, err := records.Create(ctx, bob.ID, RecordInput{Date: "2024-01-01", Weight: 80, Height: floatPtr(180)})
	require.NoError(t, err)
	_, err = records.Create(ctx, bob.ID, RecordInput{Date: "2024-02-01", Weight: 78, Height: floatPtr(180)})
	require.NoError(t, err)

	// the leader's own records must not show up
	_, err = records.Create(ctx, leader.ID, RecordInput{Date: "2024-03-01", Weight: 60})
	require.NoError(t, err)

	summaries, err := svc.MemberLatestRecords(ctx, leader.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// sorted by username ascending
	assert.Equal(t, "bob", summaries[0].Username)
	assert.Equal(t, "carol", summaries[1].Username)

	require.True(t, summaries[0].HasRecord)
	assert.Equal(t, 78.0, *summaries[0].Weight)
	assert.Equal(t, "2024-02-01", summaries[0].Date.Format("2006-01-02"))

	// carol never recorded anything: explicit no-record entry
	assert.False(t, summaries[1].HasRecord)
	assert.Nil(t, summaries[1].Weight)
}

func TestMemberRecords(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)
	records := NewRecordService(db, nil)
	ctx := context.Background()

	leader := seedUser(t, db, "alice")
	group := seedGroup(t, db, "Team A", leader)
	bob := seedUser(t, db, "bob")
	bob.GroupID = &group.ID
	require.NoError(t, db.Save(bob).Error)

	_, err := records.Create(ctx, bob.ID, RecordInput{Date: "2024-01-01", Weight: 80})
	require.NoError(t, err)
	_, err = records.Create(ctx, bob.ID, RecordInput{Date: "2024-02-01", Weight: 78})
	require.NoError(t, err)

	history, err := svc.MemberRecords(ctx, leader.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2024-02-01", history[0].Date.Format("2006-01-02"))

	outsider := seedUser(t, db, "carol")
	_, err = svc.MemberRecords(ctx, leader.ID, outsider.ID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
