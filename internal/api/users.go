package api

import (
	"context"
	"fmt"

	"ktrn/internal/models"
)

// CreateUserInput carries the fields for a new account. Password is
// only ever sent on creation; updates never touch it.
type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserInput carries the mutable account fields.
type UpdateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ListUsers fetches all accounts.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.get(ctx, "/users", &users)
	return users, err
}

// CreateUser registers a new account and returns the created record.
func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) (models.User, error) {
	var user models.User
	err := c.post(ctx, "/users", in, &user)
	return user, err
}

// UpdateUser modifies an account.
func (c *Client) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (models.User, error) {
	var user models.User
	err := c.put(ctx, fmt.Sprintf("/users/%d", id), in, &user)
	return user, err
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.delete(ctx, fmt.Sprintf("/users/%d", id))
}
