package payment

import (
	"context"
	"log/slog"
	"strings"

	"stayops/internal/pkg/errs"
	"stayops/internal/usecase/commands"
)

// Gateway confirms checkout payments. The real processor lives elsewhere;
// this implementation accepts any non-empty token and exists so the checkout
// path has a concrete collaborator to exercise end to end. Tokens prefixed
// "declined" are rejected, which is enough for tests and demos.
type Gateway struct {
	logger *slog.Logger
}

func NewGateway(logger *slog.Logger) *Gateway {
	return &Gateway{logger: logger}
}

var _ commands.PaymentGateway = (*Gateway)(nil)

func (g *Gateway) Confirm(_ context.Context, confirmationToken string, amountCents int64) error {
	if confirmationToken == "" || strings.HasPrefix(confirmationToken, "declined") {
		g.logger.Warn("payment declined", slog.Int64("amount_cents", amountCents))
		return errs.ErrPaymentFailed
	}
	g.logger.Info("payment confirmed", slog.Int64("amount_cents", amountCents))
	return nil
}
