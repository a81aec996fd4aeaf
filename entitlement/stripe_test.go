package entitlement

import (
	"context"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v81"
	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"

	"fitplan"
)

type mockSessionGetter struct {
	gotID   string
	session *stripe.CheckoutSession
	err     error
}

func (m *mockSessionGetter) Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	m.gotID = id
	return m.session, m.err
}

func paidSession(tier string) *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		PaymentStatus:   stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:        map[string]string{"tier": tier},
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "buyer@example.com"},
	}
}

func TestStripeVerifier_Verify(t *testing.T) {
	tests := []struct {
		name       string
		sessionRef string
		session    *stripe.CheckoutSession
		err        error
		wantTier   fitplan.Tier
		wantErr    bool
	}{
		{
			name:       "paid pro session",
			sessionRef: "cs_test_123",
			session:    paidSession("pro"),
			wantTier:   fitplan.TierPro,
		},
		{
			name:       "paid base session",
			sessionRef: "cs_test_123",
			session:    paidSession("base"),
			wantTier:   fitplan.TierBase,
		},
		{
			name:       "unknown tier falls back to base",
			sessionRef: "cs_test_123",
			session:    paidSession("platinum"),
			wantTier:   fitplan.TierBase,
		},
		{
			name:       "missing tier metadata falls back to base",
			sessionRef: "cs_test_123",
			session: &stripe.CheckoutSession{
				PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
			},
			wantTier: fitplan.TierBase,
		},
		{
			name:       "unpaid session refused",
			sessionRef: "cs_test_123",
			session: &stripe.CheckoutSession{
				PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
			},
			wantErr: true,
		},
		{
			name:       "lookup error refused",
			sessionRef: "cs_test_123",
			err:        errors.New("no such session"),
			wantErr:    true,
		},
		{
			name:       "empty reference refused",
			sessionRef: "   ",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getter := &mockSessionGetter{session: tt.session, err: tt.err}
			v := &StripeVerifier{sessions: getter}

			ent, err := v.Verify(context.Background(), tt.sessionRef)
			if tt.wantErr {
				must.Error(t, err)
				should.ErrorIs(t, err, fitplan.ErrEntitlement)
				return
			}

			must.NoError(t, err)
			should.True(t, ent.Paid)
			should.Equal(t, tt.wantTier, ent.Tier)
			should.Equal(t, "cs_test_123", ent.SessionRef)
			if tt.session.CustomerDetails != nil {
				should.Equal(t, "buyer@example.com", ent.Email)
			}
		})
	}
}

func TestStaticVerifier(t *testing.T) {
	ent, err := StaticVerifier{Tier: fitplan.TierPro, Email: "dev@example.com"}.Verify(context.Background(), "anything")
	must.NoError(t, err)
	should.True(t, ent.Paid)
	should.Equal(t, fitplan.TierPro, ent.Tier)

	ent, err = StaticVerifier{}.Verify(context.Background(), "x")
	must.NoError(t, err)
	should.Equal(t, fitplan.TierBase, ent.Tier)
}
