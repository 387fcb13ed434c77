package websockets

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const authTimeout = 5 * time.Second

// handleAuthResponse validates the token the client supplied and promotes
// the connection to authenticated.
func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Status != STATUS_UNAUTHENTICATED {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		log.Warn("Invalid token in auth response", "clientID", c.ID)
		c.sendAuthFailure("Invalid token format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
	defer cancel()

	userID, _, err := c.Manager.authService.ValidateToken(ctx, token)
	if err != nil {
		log.Warn("Token validation failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Invalid token")
		return
	}

	user, err := c.Manager.userRepo.GetByID(ctx, c.Manager.db.SQL, userID)
	if err != nil || !user.IsActive {
		log.Warn("User lookup failed during websocket auth", "clientID", c.ID, "userID", userID)
		c.sendAuthFailure("User not found")
		return
	}

	c.UserID = userID
	c.Status = STATUS_AUTHENTICATED

	log.Info("Client authenticated", "clientID", c.ID, "userID", c.UserID)

	c.send <- Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_SUCCESS,
		Channel:   "system",
		Action:    "authenticated",
		Data:      map[string]any{"userId": c.UserID.String()},
		Timestamp: time.Now(),
	}
}

func (c *Client) sendAuthFailure(reason string) {
	log := c.Manager.log.Function("sendAuthFailure")

	c.send <- Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_FAILURE,
		Channel:   "system",
		Action:    "authentication_failed",
		Data:      map[string]any{"reason": reason},
		Timestamp: time.Now(),
	}

	log.Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = c.Connection.Close()
	}()
}
