package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/services"
)

// RegisterRequest is the body of Register
type RegisterRequest struct {
	Username    string  `json:"username" binding:"required,max=256"`
	Email       string  `json:"email" binding:"required,email"`
	PhoneNumber *string `json:"phone_number"`
	Password    string  `json:"password" binding:"required,min=6,max=100"`
}

// LoginRequest is the body of Login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest represents the request body for updating the caller's profile
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`
	Password    *string `json:"password" binding:"omitempty,min=6,max=100"`
}

// UpdateBonusRequest is the body of UpdateBonus
type UpdateBonusRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	BonusPoints *int   `json:"bonus_points" binding:"required,gte=0"`
}

// UpdateUserRoleRequest is the body of UpdateUserRole
type UpdateUserRoleRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// UserController serves /api/PizzeriaUser
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Register handles POST /api/PizzeriaUser/Register - opens a RegularUser account
func (h *UserController) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.Register(c.Request.Context(), services.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, user, "User registered")
}

// Login handles POST /api/PizzeriaUser/Login - exchanges credentials for a token
func (h *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, result, "Login successful")
}

// UpdateUser handles PUT /api/PizzeriaUser/UpdateUser - updates the caller's profile
func (h *UserController) UpdateUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.Update(c.Request.Context(), userID, services.UserPatch{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, user, "User updated")
}

func (h *UserController) DeleteMyUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"id": userID}, "User deleted")
}

// GetMyUser handles GET /api/PizzeriaUser/GetMyUser - gets the caller's profile
func (h *UserController) GetMyUser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, user, "User found")
}

func (h *UserController) CanUseMyBonus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	can, err := h.users.CanUseBonus(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, can, "Bonus eligibility checked")
}

func (h *UserController) GetMyBonus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	points, err := h.users.Bonus(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, points, "Bonus retrieved")
}

// DeleteUser handles DELETE /api/PizzeriaUser/DeleteUser?id=. Admin accounts
// cannot be deleted.
func (h *UserController) DeleteUser(c *gin.Context) {
	id, ok := queryString(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"id": id}, "User deleted")
}

func (h *UserController) GetUserWithId(c *gin.Context) {
	id, ok := queryString(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, user, "User found")
}

func (h *UserController) GetUserByUsername(c *gin.Context) {
	username, ok := queryString(c, "username")
	if !ok {
		return
	}
	user, err := h.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, user, "User found")
}

func (h *UserController) GetUserByEmail(c *gin.Context) {
	email, ok := queryString(c, "email")
	if !ok {
		return
	}
	user, err := h.users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, user, "User found")
}

func (h *UserController) GetPremiumUsers(c *gin.Context) {
	h.listByRole(c, models.RolePremiumUser)
}

func (h *UserController) GetRegularUsers(c *gin.Context) {
	h.listByRole(c, models.RoleRegularUser)
}

func (h *UserController) listByRole(c *gin.Context, role models.Role) {
	users, err := h.users.ListByRole(c.Request.Context(), role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, users, "Users retrieved")
}

func (h *UserController) GetUsersWithOrders(c *gin.Context) {
	users, err := h.users.ListWithOrders(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, users, "Users retrieved")
}

func (h *UserController) GetUsersWithNoOrders(c *gin.Context) {
	users, err := h.users.ListWithoutOrders(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, users, "Users retrieved")
}

func (h *UserController) GetUsersByOrderStatus(c *gin.Context) {
	status, ok := queryString(c, "status")
	if !ok {
		return
	}
	users, err := h.users.ListByOrderStatus(c.Request.Context(), status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, users, "Users retrieved")
}

func (h *UserController) GetBonusByUserId(c *gin.Context) {
	id, ok := queryString(c, "id")
	if !ok {
		return
	}
	points, err := h.users.Bonus(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, points, "Bonus retrieved")
}

func (h *UserController) UpdateBonus(c *gin.Context) {
	var req UpdateBonusRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.SetBonus(c.Request.Context(), req.UserID, *req.BonusPoints)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, user, "Bonus updated")
}

func (h *UserController) UserCanUseBonus(c *gin.Context) {
	id, ok := queryString(c, "id")
	if !ok {
		return
	}
	can, err := h.users.CanUseBonus(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, can, "Bonus eligibility checked")
}

func (h *UserController) GetAllUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, users, "Users retrieved")
}

// UpdateUserRole handles PUT /api/PizzeriaUser/UpdateUserRole. Only
// RegularUser and PremiumUser can be assigned.
func (h *UserController) UpdateUserRole(c *gin.Context) {
	var req UpdateUserRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.users.UpdateRole(c.Request.Context(), req.UserID, req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, user, "User role updated")
}
