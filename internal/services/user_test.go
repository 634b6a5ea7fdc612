package services

import (
	"context"
	"errors"
	"testing"

	"locator-backend/internal/models"
	"locator-backend/internal/repository"
)

func TestUserServiceCreateThenGet(t *testing.T) {
	store := repository.NewMemoryRepository()
	svc := NewUserService(store)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "u1", "Dana", nil, nil, "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.ID != "u1" || created.Name != "Dana" {
		t.Errorf("created %q/%q, want u1/Dana", created.ID, created.Name)
	}

	got, err := svc.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.ID != "u1" || got.Name != "Dana" {
		t.Errorf("got %q/%q, want u1/Dana", got.ID, got.Name)
	}
	if got.Location != nil {
		t.Errorf("user created without coordinates has a location: %+v", got.Location)
	}
}

func TestUserServiceCreateValidation(t *testing.T) {
	lat, lon := 10.0, 20.0
	badLat := 91.0

	tests := []struct {
		name     string
		id       string
		userName string
		lat      *float64
		lon      *float64
	}{
		{"missing id", "", "Dana", nil, nil},
		{"missing name", "u1", "", nil, nil},
		{"lat without lon", "u1", "Dana", &lat, nil},
		{"lon without lat", "u1", "Dana", nil, &lon},
		{"lat out of range", "u1", "Dana", &badLat, &lon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(repository.NewMemoryRepository())
			_, err := svc.CreateUser(context.Background(), tt.id, tt.userName, tt.lat, tt.lon, "")
			if !errors.Is(err, models.ErrInvalidArgument) {
				t.Errorf("got %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestUserServiceCreateDuplicate(t *testing.T) {
	svc := NewUserService(repository.NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "u1", "Dana", nil, nil, ""); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	_, err := svc.CreateUser(ctx, "u1", "Dana", nil, nil, "")
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}
}

func TestUserServiceCreateWithInitialState(t *testing.T) {
	svc := NewUserService(repository.NewMemoryRepository())
	ctx := context.Background()

	lat, lon := 31.8, 35.2
	user, err := svc.CreateUser(ctx, "u1", "Dana", &lat, &lon, "fcm-token-1")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Location == nil || user.Location.Lat != 31.8 || user.Location.Lon != 35.2 {
		t.Errorf("initial location not stored: %+v", user.Location)
	}
	if user.FCMToken == nil || *user.FCMToken != "fcm-token-1" {
		t.Errorf("initial token not stored: %+v", user.FCMToken)
	}
}

func TestUserServiceLastSeen(t *testing.T) {
	store := repository.NewMemoryRepository()
	userSvc := NewUserService(store)
	locSvc := NewLocationService(store)
	ctx := context.Background()

	if _, err := userSvc.CreateUser(ctx, "u1", "Dana", nil, nil, ""); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// No location reported yet
	_, err := userSvc.GetLastSeen(ctx, "u1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound before first report", err)
	}

	if _, err := locSvc.Report(ctx, "u1", 31.8, 35.2); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	lastSeen, err := userSvc.GetLastSeen(ctx, "u1")
	if err != nil {
		t.Fatalf("GetLastSeen failed: %v", err)
	}
	if lastSeen.Name != "Dana" || lastSeen.Lat != 31.8 || lastSeen.Lon != 35.2 {
		t.Errorf("unexpected projection: %+v", lastSeen)
	}
	if lastSeen.Timestamp.IsZero() {
		t.Error("projection missing timestamp")
	}
}

func TestUserServiceUpdateToken(t *testing.T) {
	svc := NewUserService(repository.NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "u1", "Dana", nil, nil, ""); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	user, err := svc.UpdateToken(ctx, "u1", "fcm-token-1")
	if err != nil {
		t.Fatalf("UpdateToken failed: %v", err)
	}
	if !user.HasToken() || *user.FCMToken != "fcm-token-1" {
		t.Errorf("token not stored: %+v", user.FCMToken)
	}

	// Rotation overwrites, empty clears
	user, err = svc.UpdateToken(ctx, "u1", "fcm-token-2")
	if err != nil {
		t.Fatalf("UpdateToken failed: %v", err)
	}
	if *user.FCMToken != "fcm-token-2" {
		t.Errorf("token not rotated: %q", *user.FCMToken)
	}

	user, err = svc.UpdateToken(ctx, "u1", "")
	if err != nil {
		t.Fatalf("UpdateToken(clear) failed: %v", err)
	}
	if user.HasToken() {
		t.Errorf("token not cleared: %+v", user.FCMToken)
	}

	_, err = svc.UpdateToken(ctx, "missing", "fcm-token-1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
