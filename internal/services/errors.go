package services

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrInviteNotFound  = errors.New("invite not found")
	ErrEventNotFound   = errors.New("event not found")

	ErrNotAdmin         = errors.New("actor is not an admin")
	ErrSelfModeration   = errors.New("admins cannot moderate themselves")
	ErrInviteNotOpen    = errors.New("invite is no longer pending")
	ErrAlreadyInvited   = errors.New("profile already has a pending invite")
	ErrAlreadyMember    = errors.New("profile is already on this project")
	ErrCannotInviteSelf = errors.New("cannot invite yourself")
)
