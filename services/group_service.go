package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/walpass/health-tracker-app/config"
	"github.com/walpass/health-tracker-app/models"
	"github.com/walpass/health-tracker-app/utils"

	"gorm.io/gorm"
)

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// InviteResult reports the outcome of an invitation. AlreadyMember marks
// the no-op case: the target was in the leader's group before the call.
type InviteResult struct {
	User          *models.User
	AlreadyMember bool
}

// MemberRecordSummary is one row of the leader overview: a member plus
// their newest measurement, or an explicit no-record marker.
type MemberRecordSummary struct {
	UserID    uint       `json:"user_id"`
	Username  string     `json:"username"`
	HasRecord bool       `json:"has_record"`
	Date      *time.Time `json:"date,omitempty"`
	Weight    *float64   `json:"weight,omitempty"`
	Height    *float64   `json:"height,omitempty"`
	BMI       *float64   `json:"bmi,omitempty"`
}

// Create founds a group and promotes the founder to its leader. The group
// insert and the founder's role/group update are one transaction, so a
// failure of either leaves no half-founded group behind.
func (s *GroupService) Create(ctx context.Context, founderID uint, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", models.ErrValidation)
	}

	var group models.Group
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var founder models.User
		if err := tx.First(&founder, founderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", models.ErrNotFound, founderID)
			}
			return storageErr(err)
		}
		if founder.IsLeader() {
			return fmt.Errorf("%w: user already leads a group", models.ErrConflict)
		}

		// Name uniqueness is case-sensitive.
		var count int64
		if err := tx.Model(&models.Group{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return storageErr(err)
		}
		if count > 0 {
			return fmt.Errorf("%w: group name %q is taken", models.ErrConflict, name)
		}

		group = models.Group{Name: name, LeaderID: &founder.ID}
		if err := tx.Create(&group).Error; err != nil {
			return storageErr(err)
		}

		founder.GroupID = &group.ID
		founder.Role = models.RoleLeader
		if err := tx.Save(&founder).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &group, nil
}

// SearchCandidates finds users a leader could invite: username or email
// contains query (case-insensitive), excluding the leader and anyone
// already in the leader's group. An empty query is rejected rather than
// treated as "everyone".
func (s *GroupService) SearchCandidates(ctx context.Context, leaderID uint, query string) ([]models.User, error) {
	db := s.db.WithContext(ctx)

	leader, err := requireLeader(db, leaderID)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query must not be empty", models.ErrValidation)
	}

	pattern := "%" + strings.ToLower(query) + "%"
	var users []models.User
	err = db.
		Where("(LOWER(username) LIKE ? OR LOWER(email) LIKE ?)", pattern, pattern).
		Where("id <> ?", leader.ID).
		Where("group_id IS NULL OR group_id <> ?", *leader.GroupID).
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return users, nil
}

// Invite puts the target user into the leader's group as a member. Someone
// already in the group is reported back as AlreadyMember with nothing
// written. A user belonging to a different group is transferred silently,
// matching the behaviour the web app always had; the notification mail at
// least tells them it happened.
func (s *GroupService) Invite(ctx context.Context, leaderID, targetID uint) (*InviteResult, error) {
	var res InviteResult
	var group models.Group
	var leader *models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		leader, err = requireLeader(tx, leaderID)
		if err != nil {
			return err
		}

		var target models.User
		if err := tx.First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", models.ErrNotFound, targetID)
			}
			return storageErr(err)
		}

		if target.GroupID != nil && *target.GroupID == *leader.GroupID {
			res = InviteResult{User: &target, AlreadyMember: true}
			return nil
		}

		target.GroupID = leader.GroupID
		target.Role = models.RoleMember
		if err := tx.Save(&target).Error; err != nil {
			return storageErr(err)
		}
		if err := tx.First(&group, *leader.GroupID).Error; err != nil {
			return storageErr(err)
		}

		res = InviteResult{User: &target}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !res.AlreadyMember {
		if err := utils.SendGroupInviteEmail(res.User.Email, group.Name, leader.Username); err != nil {
			config.Log.Warn().Err(err).Uint("user_id", res.User.ID).Msg("invite notification failed")
		}
	}
	return &res, nil
}

// Remove takes a member out of the leader's group and resets their role.
// Leaders cannot remove themselves.
func (s *GroupService) Remove(ctx context.Context, leaderID, targetID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leader, err := requireLeader(tx, leaderID)
		if err != nil {
			return err
		}
		if targetID == leader.ID {
			return fmt.Errorf("%w: cannot remove self", models.ErrValidation)
		}

		var target models.User
		if err := tx.First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", models.ErrNotFound, targetID)
			}
			return storageErr(err)
		}
		if target.GroupID == nil || *target.GroupID != *leader.GroupID {
			return fmt.Errorf("%w: user is not a member of this group", models.ErrUnauthorized)
		}

		target.GroupID = nil
		target.Role = models.RoleMember
		if err := tx.Save(&target).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
}

// MemberLatestRecords returns, for every member of the leader's group
// (leader excluded), the newest record or an explicit no-record entry,
// sorted by username.
func (s *GroupService) MemberLatestRecords(ctx context.Context, leaderID uint) ([]MemberRecordSummary, error) {
	db := s.db.WithContext(ctx)

	leader, err := requireLeader(db, leaderID)
	if err != nil {
		return nil, err
	}

	var members []models.User
	err = db.
		Where("group_id = ? AND id <> ?", *leader.GroupID, leader.ID).
		Order("username ASC").
		Find(&members).Error
	if err != nil {
		return nil, storageErr(err)
	}

	summaries := make([]MemberRecordSummary, 0, len(members))
	for _, m := range members {
		summary := MemberRecordSummary{UserID: m.ID, Username: m.Username}

		var rec models.HealthRecord
		err := db.
			Where("user_id = ?", m.ID).
			Order("date DESC").Order("id DESC").
			First(&rec).Error
		switch {
		case err == nil:
			summary.HasRecord = true
			summary.Date = &rec.Date
			summary.Weight = &rec.Weight
			summary.Height = rec.Height
			summary.BMI = rec.BMI
		case errors.Is(err, gorm.ErrRecordNotFound):
			// keep the explicit no-record entry
		default:
			return nil, storageErr(err)
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// MemberRecords lets a leader read the full record history of one of their
// members, newest first.
func (s *GroupService) MemberRecords(ctx context.Context, leaderID, memberID uint) ([]models.HealthRecord, error) {
	db := s.db.WithContext(ctx)

	leader, err := requireLeader(db, leaderID)
	if err != nil {
		return nil, err
	}

	var member models.User
	if err := db.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", models.ErrNotFound, memberID)
		}
		return nil, storageErr(err)
	}
	if member.GroupID == nil || *member.GroupID != *leader.GroupID {
		return nil, fmt.Errorf("%w: user is not a member of this group", models.ErrUnauthorized)
	}

	var records []models.HealthRecord
	err = db.
		Where("user_id = ?", member.ID).
		Order("date DESC").Order("id DESC").
		Find(&records).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return records, nil
}

// requireLeader loads the caller and enforces the shared group-service
// invariant: leader role with a group reference set, checked before any
// other validation.
func requireLeader(tx *gorm.DB, callerID uint) (*models.User, error) {
	var caller models.User
	if err := tx.First(&caller, callerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: caller is not a group leader", models.ErrUnauthorized)
		}
		return nil, storageErr(err)
	}
	if !caller.IsLeader() {
		return nil, fmt.Errorf("%w: caller is not a group leader", models.ErrUnauthorized)
	}
	return &caller, nil
}
