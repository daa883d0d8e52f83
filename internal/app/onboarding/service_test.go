package onboarding

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"testing"

	"hearts/internal/ports"
)

type fakeAccountPort struct {
	updateErr error
	names     []string
}

func (f *fakeAccountPort) UpdateProfile(_ context.Context, _, username, displayName string) error {
	f.names = append(f.names, username, displayName)
	return f.updateErr
}

type fakeStatsPort struct {
	err     error
	created bool
	calls   []string
}

func (f *fakeStatsPort) InitStatsOnce(_ context.Context, userID string) (bool, error) {
	f.calls = append(f.calls, userID)
	return f.created, f.err
}

func (f *fakeStatsPort) GetStats(context.Context, string) (ports.PlayerStats, error) {
	return ports.PlayerStats{}, nil
}

var friendlyName = regexp.MustCompile(`^[A-Z][a-z]+[A-Z][a-z]+\d{4}$`)

func TestOnboardNewUser(t *testing.T) {
	accounts := &fakeAccountPort{}
	stats := &fakeStatsPort{created: true}
	service := NewService(accounts, stats, rand.New(rand.NewSource(1)))

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if !friendlyName.MatchString(result.DisplayName) {
		t.Errorf("display name %q does not look friendly", result.DisplayName)
	}
	if len(accounts.names) != 2 || accounts.names[0] != result.DisplayName {
		t.Errorf("profile update = %v", accounts.names)
	}
	if !result.StatsCreated || len(stats.calls) != 1 || stats.calls[0] != "user-1" {
		t.Errorf("stats calls = %v created = %v", stats.calls, result.StatsCreated)
	}
}

func TestOnboardNewUser_ProfileFailureIsNotFatal(t *testing.T) {
	accounts := &fakeAccountPort{updateErr: errors.New("update failed")}
	service := NewService(accounts, &fakeStatsPort{}, rand.New(rand.NewSource(1)))

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if result.ProfileUpdateErr == nil {
		t.Fatal("Expected profile update error to be captured")
	}
	if result.StatsCreated {
		t.Error("existing stats reported as created")
	}
}

func TestOnboardNewUser_StatsFailure(t *testing.T) {
	boom := errors.New("storage down")
	service := NewService(&fakeAccountPort{}, &fakeStatsPort{err: boom}, nil)

	if _, err := service.OnboardNewUser(context.Background(), "user-1"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped storage error", err)
	}
}

func TestOnboardNewUser_NotConfigured(t *testing.T) {
	if _, err := NewService(nil, nil, nil).OnboardNewUser(context.Background(), "u"); err == nil {
		t.Fatal("expected error for missing ports")
	}
}
