package api

import (
	"context"

	"ktrn/internal/models"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	UserID uint   `json:"userId"`
}

// Login authenticates with a username or email plus password and
// returns the session triple the backend issued.
func (c *Client) Login(ctx context.Context, identifier, password string) (models.Session, error) {
	var resp loginResponse
	err := c.post(ctx, "/login", loginRequest{Identifier: identifier, Password: password}, &resp)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{
		Token:  resp.Token,
		Role:   models.ParseRole(resp.Role),
		UserID: resp.UserID,
	}, nil
}
