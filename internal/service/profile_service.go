package service

import (
	"context"
	"errors"
	"strings"

	"greenpulse"
	"greenpulse/internal/repository"
)

var ErrInvalidUnits = errors.New("units must be metric or imperial")

// ProfileService mutates the signed-in user's record. It owns the rename
// cascade: when the email changes, the session and every per-email storage
// namespace follow so the caller stays authenticated and keeps their data.
type ProfileService struct {
	users         repository.Users
	sessions      repository.Sessions
	plants        repository.Plants
	history       repository.History
	telemetry     repository.Telemetry
	notifications repository.Notifications
}

func NewProfileService(
	users repository.Users,
	sessions repository.Sessions,
	plants repository.Plants,
	history repository.History,
	telemetry repository.Telemetry,
	notifications repository.Notifications,
) *ProfileService {
	return &ProfileService{
		users:         users,
		sessions:      sessions,
		plants:        plants,
		history:       history,
		telemetry:     telemetry,
		notifications: notifications,
	}
}

// Get returns the account the email resolves to. The email comes from the
// caller's token, never from the session singleton, so concurrent sign-ins
// under other accounts cannot redirect a profile read.
func (s *ProfileService) Get(ctx context.Context, email string) (*greenpulse.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}
	return user, nil
}

// Update applies a partial profile update and returns the stored record.
func (s *ProfileService) Update(ctx context.Context, email string, p ProfileParams) (*greenpulse.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}

	if p.Name != nil {
		user.Name = strings.TrimSpace(*p.Name)
	}
	if p.Country != nil {
		user.Country = strings.TrimSpace(*p.Country)
	}
	if p.City != nil {
		user.City = strings.TrimSpace(*p.City)
	}
	if p.About != nil {
		user.About = strings.TrimSpace(*p.About)
	}
	if p.Units != nil {
		switch *p.Units {
		case greenpulse.UnitsMetric, greenpulse.UnitsImperial:
			user.Units = *p.Units
		default:
			return nil, ErrInvalidUnits
		}
	}

	if p.Email != nil {
		newEmail := strings.TrimSpace(*p.Email)
		if repository.NormalizeEmail(newEmail) != repository.NormalizeEmail(user.Email) {
			if err := s.renameEmail(ctx, user, newEmail); err != nil {
				return nil, err
			}
		}
	}

	if err := s.users.Update(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePhoto stores a ready-made image data-URL on the user record.
func (s *ProfileService) UpdatePhoto(ctx context.Context, email, photo string) (*greenpulse.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}
	user.Photo = photo
	if err := s.users.Update(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// renameEmail moves the account and everything keyed by its email. The plant
// id set is collected before the move so per-plant history logs follow too.
func (s *ProfileService) renameEmail(ctx context.Context, user *greenpulse.User, newEmail string) error {
	oldEmail := user.Email

	plantIDs := map[string]struct{}{}
	for _, p := range user.Plants {
		plantIDs[p.ID] = struct{}{}
	}
	monitored, err := s.plants.List(ctx, oldEmail)
	if err != nil {
		return err
	}
	for _, p := range monitored {
		plantIDs[p.ID] = struct{}{}
	}

	if err := s.users.RenameEmail(ctx, oldEmail, newEmail); err != nil {
		return err
	}
	// the caller stays signed in under the new address
	if err := s.sessions.Set(ctx, newEmail); err != nil {
		return err
	}
	if err := s.plants.Rekey(ctx, oldEmail, newEmail); err != nil {
		return err
	}
	ids := make([]string, 0, len(plantIDs))
	for id := range plantIDs {
		ids = append(ids, id)
	}
	if err := s.history.Rekey(ctx, oldEmail, newEmail, ids); err != nil {
		return err
	}
	if err := s.telemetry.Rekey(ctx, oldEmail, newEmail, ids); err != nil {
		return err
	}
	if err := s.notifications.Rekey(ctx, oldEmail, newEmail); err != nil {
		return err
	}

	user.Email = newEmail
	return nil
}
