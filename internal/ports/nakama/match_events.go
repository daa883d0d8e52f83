package nakama

import (
	"context"

	"github.com/heroiclabs/nakama-common/runtime"

	"hearts/internal/app"
	"hearts/internal/domain"
	"hearts/internal/ports"
)

func (mh *matchHandler) dispatchEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// seatOfPlayer maps a domain player id back to its seat, or -1.
func (ms *MatchState) seatOfPlayer(playerID string) int {
	if ms.Game == nil {
		return -1
	}
	return ms.Game.State.PlayerIndex(playerID)
}

func scoresValue(scores map[string]int) map[string]interface{} {
	out := make(map[string]interface{}, len(scores))
	for id, score := range scores {
		out[id] = score
	}
	return out
}

func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var fields map[string]interface{}

	switch ev.Kind {
	case app.EventGameStarted:
		opCode = OpGameStarted
		p := ev.Payload.(app.GameStartedPayload)
		players := make([]interface{}, 0, len(p.Players))
		for _, info := range p.Players {
			seat := state.seatOfPlayer(info.PlayerID)
			players = append(players, map[string]interface{}{
				"seat":      seat,
				"player_id": info.PlayerID,
				"user_id":   state.userForPlayer(info.PlayerID),
				"name":      info.Name,
			})
		}
		fields = map[string]interface{}{"game_id": p.GameID, "players": players}

	case app.EventHandStarted:
		// Clients rebuild the table from a fresh snapshot at the start of each hand.
		p := ev.Payload.(app.HandStartedPayload)
		logger.Debug("Event: hand_started (hand=%d, pass=%s, first=%s)", p.HandNumber, p.PassDirection, p.FirstPlayerID)
		mh.broadcastMatchState(state, dispatcher, logger, nil)
		return

	case app.EventHandDealt:
		opCode = OpHandDealt
		p := ev.Payload.(app.HandDealtPayload)
		fields = map[string]interface{}{
			"player_id": p.PlayerID,
			"seat":      state.seatOfPlayer(p.PlayerID),
			"hand":      cardsValue(p.Hand),
		}

	case app.EventPassSelection:
		opCode = OpPassSelection
		p := ev.Payload.(app.PassSelectionPayload)
		fields = map[string]interface{}{
			"player_id":      p.PlayerID,
			"selected_cards": stringsValue(p.SelectedCards),
			"is_ready":       p.IsReady,
		}

	case app.EventCardsPassed:
		opCode = OpCardsPassed
		p := ev.Payload.(app.CardsPassedPayload)
		fields = map[string]interface{}{
			"player_id": p.PlayerID,
			"given":     cardsValue(p.Given),
			"received":  cardsValue(p.Received),
			"hand":      cardsValue(p.Hand),
		}

	case app.EventCardPlayed:
		opCode = OpCardPlayed
		p := ev.Payload.(app.CardPlayedPayload)
		fields = map[string]interface{}{
			"seat":          state.seatOfPlayer(p.PlayerID),
			"player_id":     p.PlayerID,
			"card":          cardValue(p.Card),
			"next_seat":     state.seatOfPlayer(p.NextPlayerID),
			"hearts_broken": p.HeartsBroken,
			"trick_full":    p.TrickFull,
		}

	case app.EventTrickCompleted:
		opCode = OpTrickCompleted
		p := ev.Payload.(app.TrickCompletedPayload)
		cards := make([]interface{}, 0, len(p.Cards))
		for _, pc := range p.Cards {
			cards = append(cards, map[string]interface{}{
				"seat": state.seatOfPlayer(pc.PlayerID),
				"card": cardValue(pc.Card),
			})
		}
		fields = map[string]interface{}{
			"winner_seat": state.seatOfPlayer(p.WinnerID),
			"winner_id":   p.WinnerID,
			"cards":       cards,
			"points":      p.Points,
		}

	case app.EventHandScored:
		opCode = OpHandScored
		p := ev.Payload.(app.HandScoredPayload)
		fields = map[string]interface{}{
			"hand_number":  p.HandNumber,
			"hand_scores":  scoresValue(p.HandScores),
			"scores":       scoresValue(p.Scores),
			"moon_shooter": p.MoonShooter,
		}

	case app.EventGameEnded:
		opCode = OpGameEnded
		p := ev.Payload.(app.GameEndedPayload)
		standings := make([]interface{}, 0, len(p.Standings))
		for _, s := range p.Standings {
			standings = append(standings, map[string]interface{}{
				"place":     s.Place,
				"seat":      state.seatOfPlayer(s.PlayerID),
				"player_id": s.PlayerID,
				"user_id":   state.userForPlayer(s.PlayerID),
				"name":      s.Name,
				"score":     s.Score,
			})
		}
		fields = map[string]interface{}{"standings": standings}

	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := encodeMessage(fields)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, playerID := range ev.Recipients {
			if p, ok := state.Presences[state.userForPlayer(playerID)]; ok {
				recipients = append(recipients, p)
			}
		}

		// Private events for bots or absent players must never fall back to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

// recordResults persists the finished game once.
func (mh *matchHandler) recordResults(ctx context.Context, state *MatchState, logger runtime.Logger, standings []domain.Standing) {
	if state.Results == nil || state.ResultsRecorded || state.Game == nil {
		return
	}
	state.ResultsRecorded = true

	result := ports.GameResult{
		GameID: state.Game.ID,
		Hands:  state.Game.State.HandNumber + 1,
	}
	for _, s := range standings {
		seat := state.seatOfPlayer(s.PlayerID)
		if seat < 0 {
			continue
		}
		userID := state.Seats[seat]
		result.Players = append(result.Players, ports.PlayerResult{
			UserID:    userID,
			Username:  s.Name,
			Place:     s.Place,
			Score:     s.Score,
			MoonsShot: state.MoonsShot[seat],
			IsBot:     state.isBot(userID),
		})
	}
	if err := state.Results.RecordGame(ctx, result); err != nil {
		logger.Error("Failed to record results for game %s: %v", result.GameID, err)
	}
}

// snapshotFields renders the public table state. Hands are never included.
func (ms *MatchState) snapshotFields() map[string]interface{} {
	phase := labelPhaseLobby
	var gs *domain.GameState
	if ms.Game != nil {
		gs = &ms.Game.State
		phase = string(gs.Phase)
	}

	players := make([]interface{}, 0, domain.NumPlayers)
	for i, userID := range ms.Seats {
		if userID == "" {
			continue
		}
		player := map[string]interface{}{
			"seat":      i,
			"user_id":   userID,
			"name":      ms.Names[i],
			"is_bot":    ms.isBot(userID),
			"is_owner":  i == ms.OwnerSeat,
			"connected": ms.connectedHuman(userID),
		}
		if gs != nil {
			p := gs.Players[i]
			player["player_id"] = p.ID
			player["score"] = p.Score
			player["hand_score"] = p.HandScore
			player["cards_remaining"] = len(p.Hand)
			player["is_ready"] = p.IsReady
		}
		players = append(players, player)
	}

	fields := map[string]interface{}{
		"tick":       ms.Tick,
		"owner_seat": ms.OwnerSeat,
		"phase":      phase,
		"seats":      stringsValue(ms.Seats[:]),
		"players":    players,
	}
	if gs != nil {
		trick := make([]interface{}, 0, len(gs.CurrentTrick.Cards))
		for _, pc := range gs.CurrentTrick.Cards {
			trick = append(trick, map[string]interface{}{
				"seat": gs.PlayerIndex(pc.PlayerID),
				"card": cardValue(pc.Card),
			})
		}
		fields["game_id"] = ms.Game.ID
		fields["hand_number"] = gs.HandNumber
		fields["pass_direction"] = string(gs.PassDirection)
		fields["hearts_broken"] = gs.HeartsBroken
		fields["current_seat"] = gs.CurrentPlayerIndex
		fields["trick"] = trick
	}
	return fields
}

// broadcastMatchState sends the public snapshot to recipients, or to everyone when nil.
func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, recipients []runtime.Presence) {
	bytes, err := encodeMessage(state.snapshotFields())
	if err != nil {
		logger.Error("Failed to marshal match snapshot: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpStateSnapshot, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to broadcast match snapshot: %v", err)
	}
}

// sendPrivateHand resyncs a reconnecting player with their hand and pass selection.
func (mh *matchHandler) sendPrivateHand(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, presence runtime.Presence) {
	seat := state.seatOf(presence.GetUserId())
	if state.Game == nil || seat < 0 {
		return
	}
	p := state.Game.State.Players[seat]
	bytes, err := encodeMessage(map[string]interface{}{
		"player_id":      p.ID,
		"seat":           seat,
		"hand":           cardsValue(p.Hand),
		"selected_cards": stringsValue(p.SelectedCards),
	})
	if err != nil {
		logger.Error("Failed to marshal hand for %s: %v", presence.GetUserId(), err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpHandDealt, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send hand to %s: %v", presence.GetUserId(), err)
	}
}

// sendError sends a game error event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, cause error) {
	bytes, err := encodeMessage(map[string]interface{}{
		"code":    errorCode(cause),
		"message": cause.Error(),
	})
	if err != nil {
		logger.Error("Failed to marshal game error: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	if err := dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send error to %s: %v", userID, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := labelPhaseLobby
	if state.Game != nil {
		phase = string(state.Game.State.Phase)
	}
	label, err := buildLabel(!state.gameRunning(), phase, state.GetOpenSeatsCount())
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}
