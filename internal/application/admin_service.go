package application

import (
	"context"

	"deepsea/internal/models"

	"go.uber.org/zap"
)

// AdminService holds the operator-only commands.
type AdminService struct {
	adminVK int64
	players *PlayerService
	logger  *zap.Logger
}

func NewAdminService(adminVK int64, players *PlayerService, logger *zap.Logger) *AdminService {
	return &AdminService{adminVK: adminVK, players: players, logger: logger}
}

func (s *AdminService) IsAdmin(vkID int64) bool {
	return s.adminVK != 0 && vkID == s.adminVK
}

func (s *AdminService) GrantStones(ctx context.Context, fromVK, targetVK int64, amount int) (*models.Player, error) {
	if !s.IsAdmin(fromVK) {
		return nil, ErrNotAdmin
	}
	p, err := s.players.GrantStones(ctx, targetVK, amount)
	if err != nil {
		return nil, err
	}
	s.logger.Info("admin grant",
		zap.Int64("admin", fromVK),
		zap.Int64("target", targetVK),
		zap.Int("amount", amount),
		zap.Int("balance", p.Stones),
	)
	return p, nil
}
