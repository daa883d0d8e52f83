package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"hearts/internal/app"
	"hearts/internal/bot"
	"hearts/internal/domain"
)

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	// Payload is currently empty; reject garbage early to catch client mismatches.
	if _, err := decodeMessage(msg.GetData()); err != nil {
		mh.sendError(state, dispatcher, logger, senderID, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if senderSeat < 0 || senderSeat != state.OwnerSeat {
		mh.sendError(state, dispatcher, logger, senderID, errNotOwner)
		return
	}
	if state.gameRunning() {
		mh.sendError(state, dispatcher, logger, senderID, errGameInProgress)
		return
	}
	if humans := state.GetHumanPlayerCount(); humans < app.MinHumansToStartGame {
		mh.sendError(state, dispatcher, logger, senderID, fmt.Errorf("%w: %d humans seated", errNotEnoughPlayers, humans))
		return
	}
	if open := state.GetOpenSeatsCount(); open > 0 {
		if !state.BotsEnabled {
			mh.sendError(state, dispatcher, logger, senderID, fmt.Errorf("%w: %d seats open", errNotEnoughPlayers, open))
			return
		}
		mh.fillWithBots(state, logger)
	}

	if err := mh.startGame(ctx, state, dispatcher, logger); err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, err)
	}
}

// startGame deals a fresh game for the four seated players.
func (mh *matchHandler) startGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) error {
	game, events, err := state.App.NewGame(state.seatNames())
	if err != nil {
		return err
	}

	state.Game = game
	state.MoonsShot = [domain.NumPlayers]int{}
	state.ResultsRecorded = false
	state.BotWaitUntil = 0
	state.PauseUntil = 0
	state.resetTurnTimer()

	mh.updateLabel(state, dispatcher, logger)
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	logger.Info("StartGame: Game %s started.", game.ID)
	return nil
}

// seatNames returns one unique display name per seat.
func (ms *MatchState) seatNames() []string {
	names := make([]string, domain.NumPlayers)
	seen := make(map[string]bool, domain.NumPlayers)
	for i, userID := range ms.Seats {
		name := ms.Names[i]
		if p, ok := ms.Presences[userID]; ok && p.GetUsername() != "" {
			name = p.GetUsername()
		}
		if name == "" {
			name = userID
		}
		if name == "" {
			name = fmt.Sprintf("Seat %d", i+1)
		}
		if seen[name] {
			name = fmt.Sprintf("%s (%d)", name, i+1)
		}
		seen[name] = true
		names[i] = name
	}
	return names
}

// fillWithBots seats a bot in every empty seat. Returns true if any seat changed.
func (mh *matchHandler) fillWithBots(state *MatchState, logger runtime.Logger) bool {
	added := false
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		identity, ok := state.botIdentityFor(i)
		if !ok {
			logger.Error("Failed to find a free bot identity for seat %d", i)
			continue
		}
		agent, err := state.newBotAgent(identity.UserID, i)
		if err != nil {
			logger.Error("Failed to create bot agent for %s: %v", identity.UserID, err)
			continue
		}
		agent.Name = identity.DisplayName
		state.Seats[i] = identity.UserID
		state.Names[i] = identity.DisplayName
		state.Bots[identity.UserID] = agent
		logger.Info("Added bot %s (%s) to seat %d", identity.DisplayName, identity.UserID, i)
		added = true
	}
	return added
}

// botIdentityFor picks a bot identity for seat whose user id is set and not
// already seated.
func (ms *MatchState) botIdentityFor(seat int) (bot.BotIdentity, bool) {
	for _, index := range []int{seat, seat + domain.NumPlayers} {
		identity := ms.identities(index)
		if identity.UserID != "" && ms.seatOf(identity.UserID) < 0 {
			return identity, true
		}
	}
	return bot.BotIdentity{}, false
}

func (ms *MatchState) newBotAgent(userID string, seat int) (*bot.Agent, error) {
	brain, err := bot.NewBrain(bot.LevelFor(userID, ms.BotLevel), ms.rng)
	if err != nil {
		return nil, err
	}
	return &bot.Agent{ID: domain.PlayerIDForSeat(seat), Name: ms.Names[seat], Strategy: brain}, nil
}

// autoFillLobby fills a lobby with bots once a lone human has waited long enough.
func (mh *matchHandler) autoFillLobby(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.gameRunning() || state.GetOpenSeatsCount() == 0 || state.GetHumanPlayerCount() != 1 {
		state.LastSinglePlayerTick = 0
		return
	}
	if state.LastSinglePlayerTick == 0 {
		state.LastSinglePlayerTick = state.Tick
		logger.Debug("autoFillLobby: Single player detected, starting auto-fill timer.")
		return
	}
	if state.Tick-state.LastSinglePlayerTick < int64(state.BotAutoFillDelay) {
		return
	}
	state.LastSinglePlayerTick = 0
	if mh.fillWithBots(state, logger) {
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastMatchState(state, dispatcher, logger, nil)
	}
}

// senderPlayer resolves the domain player id for a message sender.
func (mh *matchHandler) senderPlayer(state *MatchState, msg runtime.MatchData) (string, error) {
	if state.Game == nil {
		return "", errNoGame
	}
	seat := state.seatOf(msg.GetUserId())
	if seat < 0 {
		return "", errNotSeated
	}
	return domain.PlayerIDForSeat(seat), nil
}

func cardIDFrom(msg runtime.MatchData) (string, error) {
	req, err := decodeMessage(msg.GetData())
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	cardID := stringField(req, "card_id")
	if cardID == "" {
		return "", fmt.Errorf("%w: missing card_id", errBadRequest)
	}
	return cardID, nil
}

func (mh *matchHandler) handleSelectPassCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	playerID, err := mh.senderPlayer(state, msg)
	if err == nil {
		var cardID string
		if cardID, err = cardIDFrom(msg); err == nil {
			err = mh.selectPassCard(ctx, state, dispatcher, logger, playerID, cardID)
		}
	}
	if err != nil {
		logger.Warn("SelectPassCard: Rejected for %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
	}
}

func (mh *matchHandler) selectPassCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, playerID, cardID string) error {
	events, err := state.App.SelectPassCard(state.Game, playerID, cardID)
	if err != nil {
		return err
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	if state.Game.AllReady() {
		return mh.executePass(ctx, state, dispatcher, logger)
	}
	return nil
}

func (mh *matchHandler) executePass(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) error {
	events, err := state.App.ExecutePass(state.Game)
	if err != nil {
		return err
	}
	logger.Debug("ExecutePass: Cards passed %s.", state.Game.State.PassDirection)
	state.BotWaitUntil = 0
	state.resetTurnTimer()
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	mh.broadcastMatchState(state, dispatcher, logger, nil)
	return nil
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	playerID, err := mh.senderPlayer(state, msg)
	if err == nil {
		var cardID string
		if cardID, err = cardIDFrom(msg); err == nil {
			err = mh.playCard(ctx, state, dispatcher, logger, playerID, cardID)
		}
	}
	if err != nil {
		logger.Warn("PlayCard: Rejected for %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
	}
}

func (mh *matchHandler) playCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, playerID, cardID string) error {
	events, err := state.App.PlayCard(state.Game, playerID, cardID)
	if err != nil {
		return err
	}
	state.BotWaitUntil = 0
	state.resetTurnTimer()
	if state.Game.State.CurrentTrick.IsComplete() {
		state.PauseUntil = state.Tick + int64(state.TrickPauseTicks)
	}
	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	return nil
}

// processGame advances everything that does not wait on a human message:
// trick and hand pauses, bot moves, and moves for absent or timed-out humans.
func (mh *matchHandler) processGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if !state.gameRunning() {
		return
	}
	gs := state.Game.State

	switch gs.Phase {
	case domain.PhasePassing:
		var pending []int
		for i, p := range gs.Players {
			if !p.IsReady {
				pending = append(pending, i)
			}
		}
		mh.automate(ctx, state, dispatcher, logger, domain.PhasePassing, pending)

	case domain.PhasePlaying:
		if gs.CurrentTrick.IsComplete() {
			if state.Tick >= state.PauseUntil {
				mh.completeTrick(ctx, state, dispatcher, logger)
			}
			return
		}
		mh.automate(ctx, state, dispatcher, logger, domain.PhasePlaying, []int{gs.CurrentPlayerIndex})

	case domain.PhaseHandComplete:
		if state.Tick < state.PauseUntil {
			return
		}
		events, err := state.App.StartNextHand(state.Game)
		if err != nil {
			logger.Error("processGame: Failed to start next hand: %v", err)
			return
		}
		state.BotWaitUntil = 0
		state.resetTurnTimer()
		mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	}
}

func (mh *matchHandler) completeTrick(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	events, err := state.App.CompleteTrick(state.Game)
	if err != nil {
		logger.Error("processGame: Failed to complete trick: %v", err)
		return
	}
	state.BotWaitUntil = 0
	state.resetTurnTimer()

	var ended *app.GameEndedPayload
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.HandScoredPayload:
			if seat := state.seatOfPlayer(p.MoonShooter); seat >= 0 {
				state.MoonsShot[seat]++
				logger.Info("completeTrick: %s shot the moon in hand %d", p.MoonShooter, p.HandNumber)
			}
			state.PauseUntil = state.Tick + int64(state.HandPauseTicks)
		case app.GameEndedPayload:
			ended = &p
		}
	}

	mh.dispatchEvents(ctx, state, dispatcher, logger, events)
	if ended != nil {
		mh.finishGame(ctx, state, dispatcher, logger, ended.Standings)
	}
}

// finishGame records the result, then frees seats of humans who left during
// the game so they are not dealt into the next one.
func (mh *matchHandler) finishGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, standings []domain.Standing) {
	mh.recordResults(ctx, state, logger, standings)

	if freed := state.releaseDepartedSeats(); len(freed) > 0 {
		logger.Info("finishGame: Released seats %v held by departed players.", freed)
		mh.refreshOwner(state, logger)
		mh.broadcastMatchState(state, dispatcher, logger, nil)
	}
	mh.updateLabel(state, dispatcher, logger)
}

// automate acts for seats in the given phase. Bots and disconnected humans act
// after a random bot delay; connected humans are played for once the turn timer runs out.
func (mh *matchHandler) automate(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, phase domain.Phase, seats []int) {
	var automated, timedOut []int
	for _, seat := range seats {
		if state.connectedHuman(state.Seats[seat]) {
			if state.TurnDuration > 0 && state.Tick >= state.TurnDeadline {
				timedOut = append(timedOut, seat)
			}
			continue
		}
		automated = append(automated, seat)
	}

	for _, seat := range timedOut {
		logger.Info("automate: Turn timer expired for seat %d, playing automatically.", seat)
		mh.actFor(ctx, state, dispatcher, logger, phase, seat)
	}

	if len(automated) == 0 {
		state.BotWaitUntil = 0
		return
	}
	if state.BotWaitUntil == 0 {
		state.BotWaitUntil = state.Tick + state.botDelay()
		logger.Debug("automate: Seats %v will act at tick %d (current %d)", automated, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0
	for _, seat := range automated {
		mh.actFor(ctx, state, dispatcher, logger, phase, seat)
	}
}

// agentFor returns the bot agent for a seat, or an autopilot agent for humans.
func (mh *matchHandler) agentFor(state *MatchState, seat int) (*bot.Agent, error) {
	userID := state.Seats[seat]
	if agent, ok := state.Bots[userID]; ok {
		return agent, nil
	}
	if state.isBot(userID) {
		agent, err := state.newBotAgent(userID, seat)
		if err != nil {
			return nil, err
		}
		state.Bots[userID] = agent
		return agent, nil
	}
	return &bot.Agent{ID: domain.PlayerIDForSeat(seat), Name: state.Names[seat], Strategy: state.autopilot}, nil
}

// actFor makes one move for seat if the game is still in phase and it is still
// that seat's move.
func (mh *matchHandler) actFor(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, phase domain.Phase, seat int) {
	if !state.gameRunning() || state.Game.State.Phase != phase {
		return
	}
	agent, err := mh.agentFor(state, seat)
	if err != nil {
		logger.Error("actFor: No agent for seat %d: %v", seat, err)
		return
	}
	gs := state.Game.State

	switch phase {
	case domain.PhasePassing:
		player := gs.Players[seat]
		if player.IsReady {
			return
		}
		cards, err := agent.ChoosePass(gs)
		if err != nil {
			logger.Error("actFor: Seat %d failed to choose pass: %v", seat, err)
			return
		}
		// Clear a partial manual selection before applying the chosen cards.
		for _, id := range player.SelectedCards {
			if _, err := state.App.SelectPassCard(state.Game, player.ID, id); err != nil {
				logger.Error("actFor: Failed to clear selection for seat %d: %v", seat, err)
				return
			}
		}
		for _, c := range cards {
			if err := mh.selectPassCard(ctx, state, dispatcher, logger, player.ID, c.ID); err != nil {
				logger.Error("actFor: Seat %d failed to select %s: %v", seat, c.ID, err)
				return
			}
		}

	case domain.PhasePlaying:
		if gs.CurrentPlayerIndex != seat || gs.CurrentTrick.IsComplete() {
			return
		}
		card, err := agent.Play(gs)
		if err != nil {
			logger.Error("actFor: Seat %d failed to choose a card: %v", seat, err)
			return
		}
		if err := mh.playCard(ctx, state, dispatcher, logger, agent.ID, card.ID); err != nil {
			logger.Error("actFor: Seat %d played %s and was rejected: %v", seat, card.ID, err)
		}
	}
}
