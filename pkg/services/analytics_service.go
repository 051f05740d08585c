package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kodinet/kodibot-engine/pkg/repositories"
)

const popularIntentsLimit = 10

// AnalyticsService exposes read-only aggregates over the conversation log.
type AnalyticsService interface {
	PopularIntents(ctx context.Context) ([]repositories.IntentCount, error)
}

type analyticsService struct {
	chatLogs repositories.ChatLogRepository
	logger   *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(chatLogs repositories.ChatLogRepository, logger *zap.Logger) AnalyticsService {
	return &analyticsService{
		chatLogs: chatLogs,
		logger:   logger.Named("analytics"),
	}
}

var _ AnalyticsService = (*analyticsService)(nil)

func (s *analyticsService) PopularIntents(ctx context.Context) ([]repositories.IntentCount, error) {
	counts, err := s.chatLogs.PopularIntents(ctx, popularIntentsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate intents: %w", err)
	}
	return counts, nil
}
