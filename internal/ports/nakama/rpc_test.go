package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/go-cmp/cmp"
	"github.com/heroiclabs/nakama-common/runtime"

	"hearts/internal/ports"
)

type fakeStats struct {
	records map[string]ports.PlayerStats
	err     error
}

func (f *fakeStats) InitStatsOnce(context.Context, string) (bool, error) { return true, nil }

func (f *fakeStats) GetStats(_ context.Context, userID string) (ports.PlayerStats, error) {
	if f.err != nil {
		return ports.PlayerStats{}, f.err
	}
	return f.records[userID], nil
}

func TestGetStats(t *testing.T) {
	stats := &fakeStats{records: map[string]ports.PlayerStats{
		"user-1": {GamesPlayed: 3, GamesWon: 1},
		"user-2": {GamesPlayed: 9, MoonsShot: 2},
	}}

	tests := []struct {
		name     string
		callerID string
		payload  string
		want     StatsResponse
	}{
		{name: "Caller", callerID: "user-1", want: StatsResponse{UserID: "user-1", Stats: ports.PlayerStats{GamesPlayed: 3, GamesWon: 1}}},
		{name: "OtherUser", callerID: "user-1", payload: `{"user_id":"user-2"}`, want: StatsResponse{UserID: "user-2", Stats: ports.PlayerStats{GamesPlayed: 9, MoonsShot: 2}}},
		{name: "Unknown", callerID: "user-3", payload: `{}`, want: StatsResponse{UserID: "user-3"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := getStats(context.Background(), noopLogger{}, stats, test.callerID, test.payload)
			if err != nil {
				t.Fatalf("getStats() error = %v", err)
			}
			var got StatsResponse
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("response mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetStats_Errors(t *testing.T) {
	tests := []struct {
		name     string
		stats    *fakeStats
		callerID string
		payload  string
		wantCode int
	}{
		{name: "BadPayload", stats: &fakeStats{}, callerID: "user-1", payload: "{", wantCode: codeInvalidArgument},
		{name: "NoUser", stats: &fakeStats{}, wantCode: codeUnauthenticated},
		{name: "StorageFailure", stats: &fakeStats{err: errBoom}, callerID: "user-1", wantCode: codeInternal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := getStats(context.Background(), noopLogger{}, test.stats, test.callerID, test.payload)
			var rtErr *runtime.Error
			if !errors.As(err, &rtErr) {
				t.Fatalf("getStats() error = %v, want *runtime.Error", err)
			}
			if rtErr.Code != test.wantCode {
				t.Fatalf("code = %d, want %d", rtErr.Code, test.wantCode)
			}
		})
	}
}

func TestExtractUserIDFromToken(t *testing.T) {
	signed := func(claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-key"))
		if err != nil {
			t.Fatal(err)
		}
		return token
	}

	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{name: "Valid", token: signed(jwt.MapClaims{"uid": "user-1", "usn": "ann"}), want: "user-1"},
		{name: "MissingUID", token: signed(jwt.MapClaims{"usn": "ann"}), wantErr: true},
		{name: "Malformed", token: "not-a-token", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := extractUserIDFromToken(test.token)
			if (err != nil) != test.wantErr {
				t.Fatalf("extractUserIDFromToken() error = %v, wantErr %t", err, test.wantErr)
			}
			if got != test.want {
				t.Fatalf("extractUserIDFromToken() = %q, want %q", got, test.want)
			}
		})
	}
}
