package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/monocle-dev/hackhub/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username  string         `json:"username"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	Embeds    []DiscordEmbed `json:"embeds"`
}

const (
	ColorRed    = 16711680 // #FF0000 - profile deleted
	ColorOrange = 16753920 // #FFA500 - moderation

	Username = "HackHub"
	Footer   = "HackHub Admin"
)

// DiscordNotifier posts admin notifications to a channel webhook. An empty
// URL turns every call into a no-op.
type DiscordNotifier struct {
	URL    string
	Client *http.Client
}

func NewDiscordNotifier(url string) *DiscordNotifier {
	return &DiscordNotifier{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *DiscordNotifier) NotifyProfileDeleted(ctx context.Context, profile models.Profile, projectsRemoved int) error {
	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "🗑️ **PROFILE DELETED**",
				Description: fmt.Sprintf("**%s** was removed after their account was deleted upstream.", profile.Name),
				Color:       ColorRed,
				Fields: []DiscordWebhookField{
					{Name: "👤 Profile", Value: profile.ID, Inline: true},
					{Name: "🔑 Identity", Value: profile.ClerkID, Inline: true},
					{Name: "📁 Projects Removed", Value: fmt.Sprintf("%d", projectsRemoved), Inline: true},
				},
				Footer:    &DiscordFooter{Text: Footer},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}

	return n.send(ctx, payload)
}

func (n *DiscordNotifier) NotifyModeration(ctx context.Context, action string, actor, target models.Profile, reason string) error {
	if reason == "" {
		reason = "No reason given"
	}

	payload := DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "🛡️ **MODERATION**",
				Description: fmt.Sprintf("**%s** applied `%s` to **%s**.", actor.Name, action, target.Name),
				Color:       ColorOrange,
				Fields: []DiscordWebhookField{
					{Name: "⚙️ Action", Value: action, Inline: true},
					{Name: "👮 Admin", Value: actor.Name, Inline: true},
					{Name: "👤 Target", Value: target.Name, Inline: true},
					{Name: "📝 Reason", Value: reason, Inline: false},
				},
				Footer:    &DiscordFooter{Text: Footer},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}

	return n.send(ctx, payload)
}

func (n *DiscordNotifier) send(ctx context.Context, payload DiscordWebhookRequest) error {
	if n == nil || n.URL == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build Discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}
