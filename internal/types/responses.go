package types

import "time"

type ProfileResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Username  *string `json:"username"`
	AvatarURL string  `json:"avatar_url"`
	Role      string  `json:"role"`
	IsBanned  bool    `json:"is_banned"`
	IsHidden  bool    `json:"is_hidden"`
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	RepoURL     string    `json:"repo_url"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type InviteResponse struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"project_id"`
	SenderID    string  `json:"sender_id"`
	RecipientID *string `json:"recipient_id"`
	Status      string  `json:"status"`
}

type MemberResponse struct {
	ID        string  `json:"id"`
	ProjectID string  `json:"project_id"`
	ProfileID string  `json:"profile_id"`
	Role      string  `json:"role"`
	InviteID  *string `json:"invite_id"`
}

// RealtimeMessage is pushed to every websocket subscribed to a project.
type RealtimeMessage struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	ProjectID string `json:"project_id"`
}
