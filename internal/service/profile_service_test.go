package service

import (
	"context"
	"errors"
	"testing"

	"greenpulse"
)

func signUpAndIn(t *testing.T, s *Service, name, email, password string) {
	t.Helper()
	if err := s.SignUp(context.Background(), name, email, password); err != nil {
		t.Fatalf("SignUp(%s) error = %v", email, err)
	}
	if _, err := s.SignIn(context.Background(), email, password); err != nil {
		t.Fatalf("SignIn(%s) error = %v", email, err)
	}
}

func TestProfileService_GetResolvesByEmail(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	signUpAndIn(t, s, "Alice", "alice@x.com", "pw1")

	user, err := s.Profile.Get(ctx, "Alice@X.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if user == nil || user.Email != "alice@x.com" {
		t.Fatalf("Get() = %+v, want alice's record", user)
	}

	if _, err := s.Profile.Get(ctx, "ghost@x.com"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("Get() error = %v, want ErrAccountNotFound", err)
	}
}

func TestProfileService_UpdateMergesFields(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	signUpAndIn(t, s, "Alice", "alice@x.com", "pw1")

	user, err := s.Profile.Update(ctx, "alice@x.com", ProfileParams{
		Name:    strPtr("  Alice B "),
		Country: strPtr("Indonesia"),
		Units:   strPtr(greenpulse.UnitsImperial),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if user.Name != "Alice B" || user.Country != "Indonesia" || user.Units != greenpulse.UnitsImperial {
		t.Fatalf("Update() = %+v, want merged fields", user)
	}
	// untouched fields survive
	if user.Email != "alice@x.com" {
		t.Fatalf("email changed without being asked: %q", user.Email)
	}
}

func TestProfileService_UpdateRejectsUnknownUnits(t *testing.T) {
	s, _ := newTestService()
	signUpAndIn(t, s, "Alice", "alice@x.com", "pw1")

	_, err := s.Profile.Update(context.Background(), "alice@x.com", ProfileParams{Units: strPtr("stone")})
	if !errors.Is(err, ErrInvalidUnits) {
		t.Fatalf("Update() error = %v, want ErrInvalidUnits", err)
	}
}

func TestProfileService_RenameEmailCascades(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	signUpAndIn(t, s, "Alice", "alice@x.com", "pw1")

	// data in the old per-email namespaces
	plant, err := s.Plants.Upsert(ctx, "alice@x.com", greenpulse.Plant{Name: "Basil"})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, err := s.History.Append(ctx, "alice@x.com",
		SensorInput{SoilMoisture: 20, SoilTemperature: 21, AirHumidity: 50},
		Prediction{NeedWater: true, Probability: 0.9}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Telemetry.IngestSensor(ctx, "alice@x.com", plant.ID,
		greenpulse.SensorSnapshot{MoistPct: 20}); err != nil {
		t.Fatalf("IngestSensor() error = %v", err)
	}
	if err := s.Telemetry.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	user, err := s.Profile.Update(ctx, "alice@x.com", ProfileParams{Email: strPtr("alice@y.com")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if user.Email != "alice@y.com" {
		t.Fatalf("user email = %q, want alice@y.com", user.Email)
	}

	// session follows the rename so the caller stays authenticated
	cur, err := s.Authorization.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if cur == nil || cur.Email != "alice@y.com" {
		t.Fatalf("session did not follow rename: %+v", cur)
	}

	// the old address no longer resolves
	if _, err := s.SignIn(ctx, "alice@x.com", "pw1"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("old email still signs in: %v", err)
	}

	// per-email data is reachable under the new address
	plants, err := s.Plants.List(ctx, "alice@y.com")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(plants) != 1 || plants[0].ID != plant.ID {
		t.Fatalf("plants not rekeyed: %+v", plants)
	}
	recent, err := s.History.Recent(ctx, "alice@y.com", 1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("history not rekeyed: %+v", recent)
	}
	rows, err := s.Notifications.Rows(ctx, "alice@y.com")
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("notifications not rekeyed: %+v", rows)
	}
	tele, err := s.Telemetry.Current(ctx, "alice@y.com")
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if tele == nil || tele.SoilMoisture != 20 {
		t.Fatalf("telemetry not rekeyed: %+v", tele)
	}
}

func TestProfileService_RenameToTakenEmailFails(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	signUpAndIn(t, s, "Bob", "bob@x.com", "pw2")
	signUpAndIn(t, s, "Alice", "alice@x.com", "pw1")

	_, err := s.Profile.Update(ctx, "alice@x.com", ProfileParams{Email: strPtr("BOB@x.com")})
	if !errors.Is(err, greenpulse.ErrDuplicateEmail) {
		t.Fatalf("Update() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestProfileService_UpdatePhoto(t *testing.T) {
	s, _ := newTestService()
	signUpAndIn(t, s, "Alice", "alice@x.com", "pw1")

	const dataURL = "data:image/png;base64,iVBORw0KGgo="
	user, err := s.Profile.UpdatePhoto(context.Background(), "alice@x.com", dataURL)
	if err != nil {
		t.Fatalf("UpdatePhoto() error = %v", err)
	}
	if user.Photo != dataURL {
		t.Fatalf("photo = %q, want stored data-URL", user.Photo)
	}
}
