package controllers

import (
	"net/http"

	"github.com/walpass/health-tracker-app/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	profile, err := uc.users.Profile(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ProfileBody mirrors services.ProfileUpdate: absent fields stay untouched,
// the clear flags reset an optional field.
type ProfileBody struct {
	Username          *string  `json:"username"`
	Gender            *string  `json:"gender"`
	BirthDate         *string  `json:"birth_date"`
	Height            *float64 `json:"height"`
	ClearHeight       bool     `json:"clear_height"`
	TargetWeight      *float64 `json:"target_weight"`
	ClearTargetWeight bool     `json:"clear_target_weight"`
	ProfilePicture    *string  `json:"profile_picture"`
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	var body ProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.users.UpdateProfile(c.Request.Context(), c.GetUint("userID"), services.ProfileUpdate{
		Username:          body.Username,
		Gender:            body.Gender,
		BirthDate:         body.BirthDate,
		Height:            body.Height,
		ClearHeight:       body.ClearHeight,
		TargetWeight:      body.TargetWeight,
		ClearTargetWeight: body.ClearTargetWeight,
		ProfilePicture:    body.ProfilePicture,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
