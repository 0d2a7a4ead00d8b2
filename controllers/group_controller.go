package controllers

import (
	"net/http"
	"strconv"

	"github.com/walpass/health-tracker-app/services"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	groups *services.GroupService
}

func NewGroupController(groups *services.GroupService) *GroupController {
	return &GroupController{groups: groups}
}

type CreateGroupInput struct {
	Name string `json:"name" binding:"required,min=2,max=80"`
}

func (gc *GroupController) Create(c *gin.Context) {
	var input CreateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := gc.groups.Create(c.Request.Context(), c.GetUint("userID"), input.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

func (gc *GroupController) SearchCandidates(c *gin.Context) {
	users, err := gc.groups.SearchCandidates(c.Request.Context(), c.GetUint("userID"), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

type InviteInput struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (gc *GroupController) Invite(c *gin.Context) {
	var input InviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := gc.groups.Invite(c.Request.Context(), c.GetUint("userID"), input.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	if res.AlreadyMember {
		c.JSON(http.StatusOK, gin.H{"message": "user is already a member of this group"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member added", "user_id": res.User.ID})
}

func (gc *GroupController) Remove(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := gc.groups.Remove(c.Request.Context(), c.GetUint("userID"), uint(id)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}

func (gc *GroupController) MemberLatestRecords(c *gin.Context) {
	summaries, err := gc.groups.MemberLatestRecords(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

func (gc *GroupController) MemberRecords(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	records, err := gc.groups.MemberRecords(c.Request.Context(), c.GetUint("userID"), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}
