// Package integration drives a running Nakama server with the Hearts module
// loaded. Tests are skipped unless HEARTS_INTEGRATION is set.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/heroiclabs/nakama-common/rtapi"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServerKey = "defaultkey"
	Host      = "127.0.0.1"
	Port      = 7350
)

// Op codes mirrored from the server module.
const (
	OpStartGame      int64 = 1
	OpSelectPassCard int64 = 2
	OpPlayCard       int64 = 3
	OpStateSnapshot  int64 = 100
	OpGameStarted    int64 = 101
	OpHandDealt      int64 = 102
	OpGameError      int64 = 109
)

func requireServer(t *testing.T) {
	t.Helper()
	if os.Getenv("HEARTS_INTEGRATION") == "" {
		t.Skip("set HEARTS_INTEGRATION=1 to run against a local Nakama server")
	}
}

type TestClient struct {
	Token  string
	UserID string
	conn   *websocket.Conn
	frames chan *rtapi.Envelope
	cid    int
}

type sessionResponse struct {
	Token string `json:"token"`
}

type rpcResponse struct {
	ID      string `json:"id"`
	Payload string `json:"payload"`
}

func baseURL() string {
	return fmt.Sprintf("http://%s:%d", Host, Port)
}

func NewTestClient(t *testing.T) *TestClient {
	t.Helper()
	deviceID := fmt.Sprintf("test_device_%d", time.Now().UnixNano())

	body, _ := json.Marshal(map[string]string{"id": deviceID})
	req, err := http.NewRequest(http.MethodPost, baseURL()+"/v2/account/authenticate/device?create=true", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.SetBasicAuth(ServerKey, "")
	req.Header.Set("Content-Type", "application/json")

	var session sessionResponse
	doJSON(t, req, &session)

	wsURL := url.URL{
		Scheme:   "ws",
		Host:     fmt.Sprintf("%s:%d", Host, Port),
		Path:     "/ws",
		RawQuery: url.Values{"token": {session.Token}, "format": {"json"}, "status": {"true"}}.Encode(),
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}

	tc := &TestClient{Token: session.Token, conn: conn, frames: make(chan *rtapi.Envelope, 256)}
	go tc.readLoop()
	return tc
}

func doJSON(t *testing.T, req *http.Request, out interface{}) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s %s returned %s", req.Method, req.URL.Path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode %s response: %v", req.URL.Path, err)
	}
}

func (tc *TestClient) readLoop() {
	defer close(tc.frames)
	for {
		_, data, err := tc.conn.ReadMessage()
		if err != nil {
			return
		}
		env := &rtapi.Envelope{}
		if err := protojson.Unmarshal(data, env); err != nil {
			continue
		}
		tc.frames <- env
	}
}

func (tc *TestClient) Close() {
	if tc.conn != nil {
		tc.conn.Close()
	}
}

func (tc *TestClient) send(t *testing.T, env *rtapi.Envelope) {
	t.Helper()
	tc.cid++
	env.Cid = strconv.Itoa(tc.cid)
	data, err := protojson.MarshalOptions{UseProtoNames: true}.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	if err := tc.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("Failed to write to socket: %v", err)
	}
}

// QuickMatch calls the quick_match RPC and returns the match id.
func (tc *TestClient) QuickMatch(t *testing.T) string {
	t.Helper()
	// RPC bodies are JSON-encoded strings.
	body, _ := json.Marshal("{}")
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, baseURL()+"/v2/rpc/quick_match", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+tc.Token)
	req.Header.Set("Content-Type", "application/json")

	var rpc rpcResponse
	doJSON(t, req, &rpc)

	var resp struct {
		MatchID string `json:"match_id"`
	}
	if err := json.Unmarshal([]byte(rpc.Payload), &resp); err != nil || resp.MatchID == "" {
		t.Fatalf("quick_match returned %q: %v", rpc.Payload, err)
	}
	return resp.MatchID
}

// JoinMatch joins matchID and waits for the join acknowledgement.
func (tc *TestClient) JoinMatch(t *testing.T, matchID string) {
	t.Helper()
	tc.send(t, &rtapi.Envelope{Message: &rtapi.Envelope_MatchJoin{MatchJoin: &rtapi.MatchJoin{
		Id: &rtapi.MatchJoin_MatchId{MatchId: matchID},
	}}})
	deadline := time.After(5 * time.Second)
	for {
		select {
		case env, ok := <-tc.frames:
			if !ok {
				t.Fatal("socket closed while joining")
			}
			if e := env.GetError(); e != nil {
				t.Fatalf("Failed to join match %s: %s", matchID, e.GetMessage())
			}
			if m := env.GetMatch(); m != nil {
				tc.UserID = m.GetSelf().GetUserId()
				return
			}
		case <-deadline:
			t.Fatalf("Timeout joining match %s", matchID)
		}
	}
}

// Send sends a match message with a Struct payload.
func (tc *TestClient) Send(t *testing.T, matchID string, opCode int64, fields map[string]interface{}) {
	t.Helper()
	st, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatal(err)
	}
	data, err := proto.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}
	tc.send(t, &rtapi.Envelope{Message: &rtapi.Envelope_MatchDataSend{MatchDataSend: &rtapi.MatchDataSend{
		MatchId:  matchID,
		OpCode:   opCode,
		Data:     data,
		Reliable: true,
	}}})
}

// WaitFor returns the decoded payload of the next message with opCode.
func (tc *TestClient) WaitFor(t *testing.T, opCode int64, timeout time.Duration) map[string]interface{} {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case env, ok := <-tc.frames:
			if !ok {
				t.Fatalf("socket closed waiting for op %d", opCode)
			}
			md := env.GetMatchData()
			if md == nil || md.GetOpCode() != opCode {
				continue
			}
			st := &structpb.Struct{}
			if err := proto.Unmarshal(md.GetData(), st); err != nil {
				t.Fatalf("Failed to decode op %d: %v", opCode, err)
			}
			return st.AsMap()
		case <-deadline:
			t.Fatalf("Timeout waiting for op %d", opCode)
			return nil
		}
	}
}
