package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/okavango-bank/corebank/internal/crypto"
	"github.com/okavango-bank/corebank/internal/domain"
)

const minPasswordLength = 6

// LoginController manages authentication, the façade session and user
// management.
type LoginController struct {
	users   domain.UserRepository
	session *Session
	logger  *slog.Logger
}

// NewLoginController creates a LoginController bound to the given session.
func NewLoginController(users domain.UserRepository, session *Session, logger *slog.Logger) *LoginController {
	return &LoginController{users: users, session: session, logger: logger}
}

// Session returns the session this controller drives.
func (c *LoginController) Session() *Session {
	return c.session
}

// CurrentUser returns the logged-in principal, or nil.
func (c *LoginController) CurrentUser() *domain.User {
	return c.session.User()
}

// IsLoggedIn reports whether a principal is logged in.
func (c *LoginController) IsLoggedIn() bool {
	return c.session.IsAuthenticated()
}

// HasPermission reports whether the logged-in principal holds the permission.
func (c *LoginController) HasPermission(permission domain.Permission) bool {
	return c.session.HasPermission(permission)
}

// Login authenticates a user and binds it as the session principal.
func (c *LoginController) Login(ctx context.Context, userID, password string) LoginResult {
	if strings.TrimSpace(userID) == "" {
		return LoginResult{Message: "User ID cannot be empty"}
	}
	if strings.TrimSpace(password) == "" {
		return LoginResult{Message: "Password cannot be empty"}
	}

	user, err := c.users.FindByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return LoginResult{Message: "Invalid user ID or password"}
		}
		c.logger.Error("login lookup failed", "user_id", userID, "error", err)
		return LoginResult{Message: "Login is currently unavailable"}
	}

	if !user.Authenticate(user.ID, password) {
		return LoginResult{Message: "Invalid user ID or password"}
	}

	c.session.Bind(user)
	c.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return LoginResult{Success: true, Message: "Login successful", User: user}
}

// Logout clears the session principal. Logging out an empty session is a
// no-op.
func (c *LoginController) Logout() {
	if user := c.session.User(); user != nil {
		c.logger.Info("user logged out", "user_id", user.ID)
	}
	c.session.Clear()
}

// RegisterUser creates a staff user. Only principals holding CREATE_USER may
// do this.
func (c *LoginController) RegisterUser(ctx context.Context, userID, username, password string, role domain.Role) Result {
	if !c.session.HasPermission(domain.PermCreateUser) {
		return Result{Message: "You don't have permission to create users"}
	}
	if strings.TrimSpace(userID) == "" {
		return Result{Message: "User ID cannot be empty"}
	}
	if strings.TrimSpace(username) == "" {
		return Result{Message: "Username cannot be empty"}
	}
	if len(password) < minPasswordLength {
		return Result{Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLength)}
	}
	if !domain.ValidRole(role) {
		return Result{Message: "Invalid role. Must be TELLER, MANAGER, or ADMIN"}
	}

	userID = strings.TrimSpace(userID)
	exists, err := c.users.Exists(ctx, userID)
	if err != nil {
		c.logger.Error("user existence check failed", "user_id", userID, "error", err)
		return Result{Message: "Failed to register user. Please try again"}
	}
	if exists {
		return Result{Message: "User ID already exists"}
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		c.logger.Error("password hashing failed", "user_id", userID, "error", err)
		return Result{Message: "Failed to register user. Please try again"}
	}

	user := domain.NewUser(userID, strings.TrimSpace(username), hash, role, crypto.VerifyPassword)
	if err := c.users.Save(ctx, user); err != nil {
		c.logger.Error("user save failed", "user_id", userID, "error", err)
		return Result{Message: "Failed to register user. Please try again"}
	}

	c.logger.Info("user registered", "user_id", userID, "role", role)
	return Result{Success: true, Message: "User registered successfully"}
}

// DeleteUser removes a staff user. Only principals holding DELETE_USER may
// do this; the current principal cannot delete itself.
func (c *LoginController) DeleteUser(ctx context.Context, userID string) Result {
	if !c.session.HasPermission(domain.PermDeleteUser) {
		return Result{Message: "You don't have permission to delete users"}
	}
	if strings.TrimSpace(userID) == "" {
		return Result{Message: "User ID cannot be empty"}
	}
	userID = strings.TrimSpace(userID)
	if current := c.session.User(); current != nil && current.ID == userID {
		return Result{Message: "You cannot delete the user you are logged in as"}
	}

	if err := c.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Result{Message: "User not found: " + userID}
		}
		c.logger.Error("user delete failed", "user_id", userID, "error", err)
		return Result{Message: "Failed to delete user"}
	}
	return Result{Success: true, Message: "User deleted successfully"}
}

// ChangePassword replaces the current principal's password after verifying
// the old one.
func (c *LoginController) ChangePassword(ctx context.Context, currentPassword, newPassword string) Result {
	user := c.session.User()
	if user == nil || !user.IsAuthenticated(user.ID) {
		return Result{Message: "You must be logged in to change your password"}
	}
	if !crypto.VerifyPassword(currentPassword, user.PasswordHash) {
		return Result{Message: "Current password is incorrect"}
	}
	if len(newPassword) < minPasswordLength {
		return Result{Message: fmt.Sprintf("Password must be at least %d characters", minPasswordLength)}
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		c.logger.Error("password hashing failed", "user_id", user.ID, "error", err)
		return Result{Message: "Failed to change password"}
	}
	user.PasswordHash = hash
	if err := c.users.Update(ctx, user); err != nil {
		c.logger.Error("password update failed", "user_id", user.ID, "error", err)
		return Result{Message: "Failed to change password"}
	}
	return Result{Success: true, Message: "Password changed successfully"}
}
