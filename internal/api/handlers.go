package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"questboard/internal/model"
	"questboard/internal/service"
)

// Handler exposes the engines over HTTP. It holds no state of its own;
// every operation is a single service call.
type Handler struct {
	users    *service.UserService
	tasks    *service.TaskService
	missions *service.MissionService
	shop     *service.ShopService
	ledger   *service.LedgerService
	logger   *zap.Logger
}

func NewHandler(
	users *service.UserService,
	tasks *service.TaskService,
	missions *service.MissionService,
	shop *service.ShopService,
	ledger *service.LedgerService,
	logger *zap.Logger,
) *Handler {
	return &Handler{users: users, tasks: tasks, missions: missions, shop: shop, ledger: ledger, logger: logger}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		writeError(c, service.ErrInvalidInput)
		return 0, false
	}
	return uint(id), true
}

// --- users ---

type createUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrInvalidInput)
		return
	}
	user, err := h.users.Register(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type adjustPointsRequest struct {
	Delta       int    `json:"delta" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) adjustPoints(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req adjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrInvalidInput)
		return
	}
	if req.Description == "" {
		req.Description = "Manual adjustment"
	}
	record, err := h.ledger.ApplyDelta(c.Request.Context(), id, req.Delta, model.TransactionManual, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *Handler) listTransactions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	records, err := h.ledger.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// --- tasks ---

type createTaskRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=0"`
	Energy          int    `json:"energy" binding:"omitempty,min=0"`
}

func (h *Handler) createTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrInvalidInput)
		return
	}
	task, err := h.tasks.CreateTask(c.Request.Context(), id, service.TaskInput{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Energy:          req.Energy,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) listTasks(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tasks, err := h.tasks.ListTasks(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) startTask(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskID")
	if !ok {
		return
	}
	task, err := h.tasks.StartTask(c.Request.Context(), userID, taskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

type completeTaskRequest struct {
	DurationMinutes int `json:"duration_minutes" binding:"omitempty,min=0"`
}

func (h *Handler) completeTask(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskID")
	if !ok {
		return
	}
	var req completeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		writeError(c, service.ErrInvalidInput)
		return
	}
	task, err := h.tasks.CompleteTask(c.Request.Context(), userID, taskID, req.DurationMinutes)
	if err != nil {
		writeError(c, err)
		return
	}
	// Out-of-band progress check so claimed missions complete without
	// waiting for the sweep. Best effort: the sweep corrects misses.
	if _, err := h.missions.EvaluateUserMissions(c.Request.Context(), userID); err != nil {
		h.logger.Warn("evaluate missions after task completion", zap.Uint("user_id", userID), zap.Error(err))
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) deleteTask(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskID")
	if !ok {
		return
	}
	if err := h.tasks.DeleteTask(c.Request.Context(), userID, taskID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- missions ---

type createMissionRequest struct {
	Title                   string    `json:"title" binding:"required"`
	Description             string    `json:"description"`
	RewardPoints            int       `json:"reward_points" binding:"omitempty,min=0"`
	RequiredTaskCount       int       `json:"required_task_count" binding:"omitempty,min=0"`
	RequiredDurationMinutes int       `json:"required_duration_minutes" binding:"omitempty,min=0"`
	IsTaskOnly              bool      `json:"is_task_only"`
	IsDurationOnly          bool      `json:"is_duration_only"`
	StartDate               time.Time `json:"start_date" binding:"required"`
	EndDate                 time.Time `json:"end_date" binding:"required"`
}

func (h *Handler) createMission(c *gin.Context) {
	var req createMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrInvalidInput)
		return
	}
	mission, err := h.missions.CreateMission(c.Request.Context(), service.MissionInput{
		Title:                   req.Title,
		Description:             req.Description,
		RewardPoints:            req.RewardPoints,
		RequiredTaskCount:       req.RequiredTaskCount,
		RequiredDurationMinutes: req.RequiredDurationMinutes,
		IsTaskOnly:              req.IsTaskOnly,
		IsDurationOnly:          req.IsDurationOnly,
		StartDate:               req.StartDate,
		EndDate:                 req.EndDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mission)
}

func (h *Handler) listMissions(c *gin.Context) {
	missions, err := h.missions.ListMissions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, missions)
}

func (h *Handler) listUserMissions(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	ums, err := h.missions.ListUserMissions(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ums)
}

func (h *Handler) claimMission(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	missionID, ok := parseID(c, "missionID")
	if !ok {
		return
	}
	um, err := h.missions.Claim(c.Request.Context(), userID, missionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, um)
}

func (h *Handler) evaluateMission(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	missionID, ok := parseID(c, "missionID")
	if !ok {
		return
	}
	um, err := h.missions.EvaluateCompletion(c.Request.Context(), userID, missionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, um)
}

func (h *Handler) claimMissionReward(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	missionID, ok := parseID(c, "missionID")
	if !ok {
		return
	}
	um, err := h.missions.ClaimReward(c.Request.Context(), userID, missionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, um)
}

// --- shop ---

type createItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int    `json:"price" binding:"omitempty,min=0"`
	Stock       int    `json:"stock" binding:"omitempty,min=0"`
}

func (h *Handler) createItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrInvalidInput)
		return
	}
	item, err := h.shop.CreateItem(c.Request.Context(), service.ShopItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) listItems(c *gin.Context) {
	items, err := h.shop.ListItems(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type purchaseRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

func (h *Handler) purchase(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, service.ErrInvalidInput)
		return
	}
	record, err := h.shop.Purchase(c.Request.Context(), userID, req.ItemID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *Handler) listPurchases(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	purchases, err := h.shop.ListPurchases(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}
