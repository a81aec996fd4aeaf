// Package entitlement decides whether a purchase reference entitles the buyer
// to plan generation, and at which tier.
package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"fitplan"
)

// tierMetadataKey is the checkout session metadata key that carries the
// purchased tier. Missing or unknown values fall back to the base tier.
const tierMetadataKey = "tier"

type checkoutSessionGetter interface {
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type StripeVerifier struct {
	sessions checkoutSessionGetter
}

func NewStripeVerifier(apiKey string) *StripeVerifier {
	sc := client.New(apiKey, nil)
	return &StripeVerifier{sessions: sc.CheckoutSessions}
}

// Verify resolves a checkout session reference and confirms payment. Any
// failure to confirm surfaces as an entitlement error so callers refuse
// generation rather than guessing.
func (v *StripeVerifier) Verify(ctx context.Context, sessionRef string) (fitplan.Entitlement, error) {
	slog.Info("ENTITLEMENT: Verifying purchase", "session_ref", sessionRef)

	sessionRef = strings.TrimSpace(sessionRef)
	if sessionRef == "" {
		return fitplan.Entitlement{}, fitplan.NewEntitlementError("empty purchase reference")
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := v.sessions.Get(sessionRef, params)
	if err != nil {
		slog.Error("ENTITLEMENT: Checkout session lookup failed", "error", err)
		return fitplan.Entitlement{}, fitplan.NewEntitlementError(fmt.Sprintf("checkout session lookup failed: %v", err))
	}

	if s.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		slog.Warn("ENTITLEMENT: Session not paid", "session_ref", sessionRef, "payment_status", s.PaymentStatus)
		return fitplan.Entitlement{}, fitplan.NewEntitlementError(fmt.Sprintf("session %s has payment status %s", sessionRef, s.PaymentStatus))
	}

	ent := fitplan.Entitlement{
		Paid:       true,
		Tier:       tierFromMetadata(s.Metadata),
		SessionRef: sessionRef,
	}
	if s.CustomerDetails != nil {
		ent.Email = s.CustomerDetails.Email
	}

	slog.Info("ENTITLEMENT: Purchase verified", "session_ref", sessionRef, "tier", ent.Tier)
	return ent, nil
}

func tierFromMetadata(md map[string]string) fitplan.Tier {
	switch strings.ToLower(md[tierMetadataKey]) {
	case "pro":
		return fitplan.TierPro
	default:
		return fitplan.TierBase
	}
}
