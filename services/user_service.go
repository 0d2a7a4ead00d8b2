package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/walpass/health-tracker-app/models"
	"github.com/walpass/health-tracker-app/utils"

	"gorm.io/gorm"
)

// ProfileUpdate enumerates which profile fields the client supplied. Nil
// pointers are left untouched; the Clear flags set an optional column back
// to NULL, replacing the old habit of probing the form for missing keys.
type ProfileUpdate struct {
	Username          *string
	Gender            *string
	BirthDate         *string // YYYY-MM-DD
	Height            *float64
	ClearHeight       bool
	TargetWeight      *float64
	ClearTargetWeight bool
	ProfilePicture    *string // data URL, uploaded to S3
}

type ProfileView struct {
	ID             uint     `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Gender         *string  `json:"gender,omitempty"`
	Height         *float64 `json:"height,omitempty"`
	BirthDate      *string  `json:"birth_date,omitempty"`
	Age            *int     `json:"age,omitempty"`
	Role           string   `json:"role"`
	GroupID        *uint    `json:"group_id,omitempty"`
	GroupName      *string  `json:"group_name,omitempty"`
	LeadsGroup     bool     `json:"leads_group"`
	TargetWeight   *float64 `json:"target_weight,omitempty"`
	TargetBMI      *float64 `json:"target_bmi,omitempty"`
	ProfilePicture string   `json:"profile_picture,omitempty"`
	LatestBMI      *float64 `json:"latest_bmi,omitempty"`
	BMICategory    string   `json:"bmi_category,omitempty"`
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Profile assembles the profile view: stored fields plus derived age and
// the BMI category of the newest record.
func (s *UserService) Profile(ctx context.Context, userID uint) (*ProfileView, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", models.ErrNotFound, userID)
		}
		return nil, storageErr(err)
	}

	view := ProfileView{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Gender:         user.Gender,
		Height:         user.Height,
		Role:           user.Role,
		GroupID:        user.GroupID,
		LeadsGroup:     user.IsLeader(),
		TargetWeight:   user.TargetWeight,
		TargetBMI:      user.TargetBMI,
		ProfilePicture: user.ProfilePicture,
	}

	if user.BirthDate != nil {
		birth := user.BirthDate.Format(dateLayout)
		age := utils.CalculateAge(*user.BirthDate)
		view.BirthDate = &birth
		view.Age = &age
	}

	if user.GroupID != nil {
		var group models.Group
		if err := db.First(&group, *user.GroupID).Error; err == nil {
			view.GroupName = &group.Name
		}
	}

	var latest models.HealthRecord
	err := db.
		Where("user_id = ?", user.ID).
		Order("date DESC").Order("id DESC").
		First(&latest).Error
	if err == nil && latest.BMI != nil {
		view.LatestBMI = latest.BMI
		view.BMICategory = utils.BMICategory(*latest.BMI)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr(err)
	}

	return &view, nil
}

// UpdateProfile applies the supplied fields and re-derives the target BMI
// from target weight and height. The avatar upload happens before the
// transaction: an S3 failure aborts the whole update.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input ProfileUpdate) (*models.User, error) {
	if input.Username != nil && strings.TrimSpace(*input.Username) == "" {
		return nil, fmt.Errorf("%w: username must not be empty", models.ErrValidation)
	}
	if input.Height != nil && *input.Height <= 0 {
		return nil, fmt.Errorf("%w: height must be greater than zero", models.ErrValidation)
	}
	if input.TargetWeight != nil && *input.TargetWeight <= 0 {
		return nil, fmt.Errorf("%w: target weight must be greater than zero", models.ErrValidation)
	}

	var birthDate *string
	if input.BirthDate != nil {
		if _, err := parseDate(*input.BirthDate); err != nil {
			return nil, err
		}
		birthDate = input.BirthDate
	}

	var avatarURL string
	if input.ProfilePicture != nil && *input.ProfilePicture != "" {
		url, err := utils.UploadBase64ImageToS3(*input.ProfilePicture, fmt.Sprintf("user-%d", userID))
		if err != nil {
			return nil, fmt.Errorf("uploading avatar: %w", err)
		}
		avatarURL = url
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", models.ErrNotFound, userID)
			}
			return storageErr(err)
		}

		if input.Username != nil {
			name := strings.TrimSpace(*input.Username)
			if name != user.Username {
				var count int64
				if err := tx.Model(&models.User{}).
					Where("username = ? AND id <> ?", name, user.ID).
					Count(&count).Error; err != nil {
					return storageErr(err)
				}
				if count > 0 {
					return fmt.Errorf("%w: username %q is taken", models.ErrConflict, name)
				}
				user.Username = name
			}
		}
		if input.Gender != nil {
			user.Gender = input.Gender
		}
		if birthDate != nil {
			d, _ := parseDate(*birthDate)
			user.BirthDate = &d
		}
		switch {
		case input.ClearHeight:
			user.Height = nil
		case input.Height != nil:
			user.Height = input.Height
		}
		switch {
		case input.ClearTargetWeight:
			user.TargetWeight = nil
		case input.TargetWeight != nil:
			user.TargetWeight = input.TargetWeight
		}
		if avatarURL != "" {
			user.ProfilePicture = avatarURL
		}

		deriveTargetBMI(&user)

		if err := tx.Save(&user).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// deriveTargetBMI keeps the stored target BMI a pure function of target
// weight and height. Values outside the plausible 10..40 band are not
// surfaced, same rule the dashboard always applied.
func deriveTargetBMI(u *models.User) {
	u.TargetBMI = nil
	if u.TargetWeight == nil || u.Height == nil {
		return
	}
	t, err := utils.CalculateBMI(*u.Height, *u.TargetWeight)
	if err != nil {
		return
	}
	if t >= 10 && t <= 40 {
		u.TargetBMI = &t
	}
}
