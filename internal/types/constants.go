package types

const (
	ContextIdentityKey = "identity"
	ContextProfileKey  = "profile"
	ContextLoggerKey   = "logger"
)

const (
	// SessionCookie carries the identity provider's session token.
	SessionCookie = "__session"

	// ProfileSyncedCookie holds the external id whose profile was already
	// provisioned in this browser session.
	ProfileSyncedCookie = "hh_profile_synced"
)

// Realtime message types.
const (
	MessageConnected      = "connected"
	MessageProjectDeleted = "project_deleted"
	MessageMemberJoined   = "member_joined"
)
