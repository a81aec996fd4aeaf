package entitlement

import (
	"context"

	"fitplan"
)

// StaticVerifier grants a fixed entitlement regardless of the reference.
// Useful for local development and tests where no payment provider is wired.
type StaticVerifier struct {
	Tier  fitplan.Tier
	Email string
}

func (v StaticVerifier) Verify(ctx context.Context, sessionRef string) (fitplan.Entitlement, error) {
	tier := v.Tier
	if tier == "" {
		tier = fitplan.TierBase
	}
	return fitplan.Entitlement{
		Paid:       true,
		Tier:       tier,
		SessionRef: sessionRef,
		Email:      v.Email,
	}, nil
}
