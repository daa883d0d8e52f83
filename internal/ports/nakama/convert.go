package nakama

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"hearts/internal/app"
	"hearts/internal/domain"
)

func cardValue(c domain.Card) map[string]interface{} {
	return map[string]interface{}{
		"id":   c.ID,
		"rank": int(c.Rank),
		"suit": c.Suit.String(),
	}
}

func cardsValue(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardValue(c))
	}
	return out
}

func stringsValue(list []string) []interface{} {
	out := make([]interface{}, 0, len(list))
	for _, s := range list {
		out = append(out, s)
	}
	return out
}

// encodeMessage wraps fields in a structpb.Struct and marshals it to protobuf wire format.
func encodeMessage(fields map[string]interface{}) ([]byte, error) {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}
	return proto.Marshal(st)
}

// decodeMessage accepts either a protobuf-encoded or a JSON-encoded Struct.
func decodeMessage(data []byte) (*structpb.Struct, error) {
	st := &structpb.Struct{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return st, nil
	}
	if trimmed[0] == '{' {
		if err := protojson.Unmarshal(trimmed, st); err == nil {
			return st, nil
		}
	}
	if err := proto.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return st, nil
}

func stringField(st *structpb.Struct, key string) string {
	return st.GetFields()[key].GetStringValue()
}

// buildLabel renders the match label JSON used by quick match queries.
func buildLabel(open bool, phase string, openSeats int) (string, error) {
	st, err := structpb.NewStruct(map[string]interface{}{
		MatchLabelKeyOpen:      open,
		MatchLabelKeyGame:      GameLabel,
		MatchLabelKeyPhase:     phase,
		MatchLabelKeyOpenSeats: openSeats,
	})
	if err != nil {
		return "", err
	}
	b, err := protojson.Marshal(st)
	if err != nil {
		return "", err
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, b); err != nil {
		return "", err
	}
	return compact.String(), nil
}

var (
	errNotOwner         = errors.New("only the match owner can start the game")
	errNotSeated        = errors.New("sender is not seated")
	errGameInProgress   = errors.New("game already in progress")
	errNoGame           = errors.New("game not started")
	errNotEnoughPlayers = errors.New("not enough players")
	errBadRequest       = errors.New("bad request")
)

// errorCode maps a rejected action to the stable code sent to clients.
// Errors matching several kinds report the first listed here.
func errorCode(err error) string {
	codes := []struct {
		target error
		code   string
	}{
		{domain.ErrNotYourTurn, "not_your_turn"},
		{domain.ErrPlayersNotReady, "players_not_ready"},
		{domain.ErrWrongPhase, "wrong_phase"},
		{domain.ErrCardNotInHand, "card_not_in_hand"},
		{domain.ErrIllegalPlay, "illegal_play"},
		{domain.ErrTooManySelected, "too_many_selected"},
		{domain.ErrTrickNotComplete, "trick_not_complete"},
		{domain.ErrTrickFull, "trick_full"},
		{domain.ErrUnknownPlayer, "unknown_player"},
		{app.ErrGameOver, "game_over"},
		{app.ErrNoGame, "no_game"},
		{errNoGame, "no_game"},
		{errNotOwner, "not_owner"},
		{errNotSeated, "not_seated"},
		{errGameInProgress, "game_in_progress"},
		{errNotEnoughPlayers, "not_enough_players"},
		{errBadRequest, "bad_request"},
	}
	for _, c := range codes {
		if errors.Is(err, c.target) {
			return c.code
		}
	}
	return "internal"
}
