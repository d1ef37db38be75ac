package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"friendgraph/friendship"
	"friendgraph/middleware"
	"friendgraph/models"
	"friendgraph/utils"
)

type FriendService interface {
	GetFriendView(ctx context.Context, requesterID, targetID string) (*models.FriendView, error)
	GetAllFriendViews(ctx context.Context, requesterID string) ([]models.FriendView, error)
	MutualFriendCount(ctx context.Context, userID, friendUserID string) (int, error)
	MutualFriendCountsFor(ctx context.Context, userID string, otherIDs []string) (map[string]int, error)
	OutgoingRequests(ctx context.Context, userID string) ([]models.Friendship, error)
	SendRequest(ctx context.Context, userID, friendID string) error
	AcceptRequest(ctx context.Context, userID, friendID string) error
	DeclineRequest(ctx context.Context, userID, friendID string) error
}

// Notifier is told about friendships that just became accepted.
type Notifier interface {
	FriendshipAccepted(ctx context.Context, userID, friendID string)
}

type FriendRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type MutualCountsRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,min=1,max=100,dive,uuid"`
}

type FriendHandler struct {
	svc      FriendService
	notifier Notifier
	timeout  time.Duration
}

func NewFriendHandler(svc FriendService, notifier Notifier, timeout time.Duration) *FriendHandler {
	return &FriendHandler{svc: svc, notifier: notifier, timeout: timeout}
}

func (h *FriendHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// targetID reads and validates the :user_id path parameter.
func targetID(c *gin.Context) (string, bool) {
	id := c.Param("user_id")
	if !utils.ValidID(id) {
		utils.BadRequest(c, "invalid user id")
		return "", false
	}
	return id, true
}

func (h *FriendHandler) GetFriends(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	friends, err := h.svc.GetAllFriendViews(ctx, middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, friends)
}

func (h *FriendHandler) GetFriend(c *gin.Context) {
	friendID, ok := targetID(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	friend, err := h.svc.GetFriendView(ctx, middleware.GetUserID(c), friendID)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, friend)
}

func (h *FriendHandler) GetMutualFriendCount(c *gin.Context) {
	friendID, ok := targetID(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	userID := middleware.GetUserID(c)
	count, err := h.svc.MutualFriendCount(ctx, userID, friendID)
	if err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, models.MutualFriendCount{UserID: userID, FriendID: friendID, MutualFriendCount: count})
}

func (h *FriendHandler) GetMutualFriendCounts(c *gin.Context) {
	var req MutualCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	userID := middleware.GetUserID(c)
	counts, err := h.svc.MutualFriendCountsFor(ctx, userID, req.UserIDs)
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]models.MutualFriendCount, 0, len(req.UserIDs))
	for _, id := range req.UserIDs {
		results = append(results, models.MutualFriendCount{UserID: userID, FriendID: id, MutualFriendCount: counts[id]})
	}

	utils.Success(c, results)
}

func (h *FriendHandler) GetOutgoingRequests(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	requests, err := h.svc.OutgoingRequests(ctx, middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, requests)
}

func (h *FriendHandler) SendFriendRequest(c *gin.Context) {
	var req FriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.svc.SendRequest(ctx, middleware.GetUserID(c), req.UserID); err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "friend request sent"})
}

func (h *FriendHandler) AcceptFriendRequest(c *gin.Context) {
	friendID, ok := targetID(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	userID := middleware.GetUserID(c)
	if err := h.svc.AcceptRequest(ctx, userID, friendID); err != nil {
		writeError(c, err)
		return
	}

	if h.notifier != nil {
		h.notifier.FriendshipAccepted(ctx, userID, friendID)
	}

	utils.Success(c, gin.H{"message": "friend request accepted"})
}

func (h *FriendHandler) DeclineFriendRequest(c *gin.Context) {
	friendID, ok := targetID(c)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if err := h.svc.DeclineRequest(ctx, middleware.GetUserID(c), friendID); err != nil {
		writeError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "friend request declined"})
}

func writeError(c *gin.Context, err error) {
	var shapeErr *friendship.ShapeError

	switch {
	case errors.Is(err, friendship.ErrFriendNotFound):
		utils.NotFound(c, "friend not found")
	case errors.Is(err, friendship.ErrUserNotFound):
		utils.NotFound(c, "user not found")
	case errors.Is(err, friendship.ErrRequestNotFound):
		utils.NotFound(c, "friend request not found")
	case errors.Is(err, friendship.ErrSelfFriendship):
		utils.BadRequest(c, "cannot add yourself as friend")
	case errors.Is(err, friendship.ErrSamePair):
		utils.BadRequest(c, "user_id must not be your own id")
	case errors.Is(err, friendship.ErrAlreadyFriends):
		utils.BadRequest(c, "already friends")
	case errors.As(err, &shapeErr):
		slog.Error("friend view invariant violated", "error", err, "user_id", middleware.GetUserID(c))
		c.Error(err)
		utils.InternalError(c, "internal error")
	case errors.Is(err, context.DeadlineExceeded):
		c.Error(err)
		utils.Error(c, http.StatusGatewayTimeout, "query timed out")
	default:
		slog.Error("friend query failed", "error", err, "path", c.FullPath())
		c.Error(err)
		utils.InternalError(c, "database error")
	}
}
