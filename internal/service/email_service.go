package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/domain"
)

// EmailService delivers invitation emails. A token bucket paces sends so
// that bulk batches respect the provider's rate limit; the orchestrator
// itself stays plainly sequential.
type EmailService struct {
	logger      *zap.Logger
	cfg         config.EmailConfig
	frontendURL string
	limiter     *rate.Limiter
}

// NewEmailService creates the service.
func NewEmailService(logger *zap.Logger, emailCfg config.EmailConfig, inviteCfg config.InviteConfig) *EmailService {
	perSecond := emailCfg.SendPerSecond
	if perSecond <= 0 {
		perSecond = 10
	}
	burst := emailCfg.SendBurst
	if burst <= 0 {
		burst = 1
	}
	return &EmailService{
		logger:      logger,
		cfg:         emailCfg,
		frontendURL: strings.TrimRight(inviteCfg.FrontendURL, "/"),
		limiter:     rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// SendInvitation emails the onboarding link carrying the raw invite token.
// This is the only place the raw token leaves the process.
func (s *EmailService) SendInvitation(ctx context.Context, invite *domain.HiringInvite, rawToken string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	inviteURL := fmt.Sprintf("%s/onboarding/invite/%s", s.frontendURL, rawToken)

	// Stub provider: log the delivery. Production wiring swaps in a real
	// transactional email provider behind the same method.
	s.logger.Info("invitation email sent",
		zap.String("to", invite.Email),
		zap.String("from", s.cfg.From),
		zap.String("subject", "New Hire Onboarding"),
		zap.String("first_name", invite.FirstName))
	s.logger.Debug("invitation link", zap.String("url", inviteURL))
	return nil
}
