package websocket

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/hub"
)

var (
	errMalformed     = fmt.Errorf("%w: malformed request", apperror.ErrValidation)
	errUnknownAction = fmt.Errorf("%w: unknown action", apperror.ErrValidation)
	errNotConnected  = fmt.Errorf("%w: send connect first", apperror.ErrValidation)
	errMatchRequired = fmt.Errorf("%w: match_id is required", apperror.ErrValidation)
	errCellRequired  = fmt.Errorf("%w: cell is required", apperror.ErrValidation)
)

func (that *Server) handleConnect(ctx context.Context, c *client, payload *Payload) (*ResponsePayload, error) {
	profile := entity.Profile{}
	if payload.Player != nil {
		profile = *payload.Player
	}

	player, err := that.manager.RegisterPlayer(ctx, profile)
	if err != nil {
		return nil, err
	}

	c.setParticipant(player.ID)

	that.logger.Info("successfully connected player", "method", "handleConnect", "participantID", player.ID)

	return &ResponsePayload{Player: player}, nil
}

func (that *Server) handleNewMatch(ctx context.Context, c *client, payload *Payload) (*ResponsePayload, error) {
	participantID, err := connected(c)
	if err != nil {
		return nil, err
	}

	snapshot, err := that.manager.CreateMatch(ctx, participantID, payload.AI, payload.Tier)
	if err != nil {
		return nil, err
	}

	that.watch(ctx, c, snapshot.MatchID, participantID)

	return &ResponsePayload{Match: &snapshot}, nil
}

func (that *Server) handleJoinMatch(ctx context.Context, c *client, payload *Payload) (*ResponsePayload, error) {
	participantID, err := connected(c)
	if err != nil {
		return nil, err
	}

	if payload.MatchID == "" {
		return nil, errMatchRequired
	}

	snapshot, err := that.manager.JoinMatch(ctx, payload.MatchID, participantID, payload.Role)
	if err != nil {
		return nil, err
	}

	that.watch(ctx, c, snapshot.MatchID, participantID)

	return &ResponsePayload{Match: &snapshot}, nil
}

func (that *Server) handleWatchMatch(ctx context.Context, c *client, payload *Payload) (*ResponsePayload, error) {
	participantID, err := connected(c)
	if err != nil {
		return nil, err
	}

	if payload.MatchID == "" {
		return nil, errMatchRequired
	}

	snapshot, err := that.manager.JoinMatch(ctx, payload.MatchID, participantID, hub.RoleSpectator)
	if err != nil {
		return nil, err
	}

	that.watch(ctx, c, snapshot.MatchID, participantID)

	return &ResponsePayload{Match: &snapshot}, nil
}

func (that *Server) handleMove(ctx context.Context, c *client, payload *Payload) (*ResponsePayload, error) {
	participantID, err := connected(c)
	if err != nil {
		return nil, err
	}

	if payload.MatchID == "" {
		return nil, errMatchRequired
	}

	if payload.Cell == nil {
		return nil, errCellRequired
	}

	snapshot, err := that.manager.MakeMove(ctx, payload.MatchID, participantID, *payload.Cell)
	if err != nil {
		return nil, err
	}

	return &ResponsePayload{Match: &snapshot}, nil
}

func (that *Server) handleSkill(ctx context.Context, c *client, payload *Payload) (*ResponsePayload, error) {
	participantID, err := connected(c)
	if err != nil {
		return nil, err
	}

	if payload.MatchID == "" {
		return nil, errMatchRequired
	}

	snapshot, err := that.manager.UseSkill(ctx, payload.MatchID, payload.Skill, entity.SkillRequest{
		ParticipantID: participantID,
		Target:        payload.Target,
		Params:        payload.Params,
	})
	if err != nil {
		return nil, err
	}

	return &ResponsePayload{Match: &snapshot}, nil
}

func (that *Server) handleLeave(ctx context.Context, c *client, payload *Payload) (*ResponsePayload, error) {
	participantID, err := connected(c)
	if err != nil {
		return nil, err
	}

	if payload.MatchID == "" {
		return nil, errMatchRequired
	}

	snapshot, err := that.manager.LeaveMatch(ctx, payload.MatchID, participantID)
	if err != nil {
		return nil, err
	}

	if subscription := c.unwatch(payload.MatchID); subscription != nil {
		that.manager.Unwatch(subscription)
	}

	return &ResponsePayload{Match: &snapshot}, nil
}

// watch - subscribes the connection to the match and starts forwarding.
func (that *Server) watch(ctx context.Context, c *client, matchID, participantID string) {
	subscription, _, err := that.manager.Watch(ctx, matchID, participantID)
	if err != nil {
		that.logger.Error("failed to watch match", "method", "watch", "matchID", matchID, "error", err)
		return
	}

	if previous := c.watch(subscription); previous != nil && previous != subscription {
		that.manager.Unwatch(previous)
	}

	go that.pump(c, subscription)
}

func (that *Server) sendError(c *client, action string, err error) {
	message := err.Error()
	category := apperror.Category(err)

	if category == apperror.CategoryInternal {
		that.logger.Error("action failed", "method", "sendError", "action", action, "error", err)
		message = "internal error"
	}

	that.sendMessage(c, action, &ResponsePayload{Error: message, Category: category})
}

func connected(c *client) (string, error) {
	participantID := c.participantID()
	if participantID == "" {
		return "", errNotConnected
	}

	return participantID, nil
}
