package workflow

import (
	"testing"

	"tradeportal-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInquiryTransitions(t *testing.T) {
	cases := []struct {
		from, to models.InquiryStatus
		allowed  bool
	}{
		{models.InquiryPending, models.InquiryQuoted, true},
		{models.InquiryPending, models.InquiryCancelled, true},
		{models.InquiryPending, models.InquiryOrdered, true},
		{models.InquiryQuoted, models.InquiryQuoted, true}, // re-quote
		{models.InquiryQuoted, models.InquiryAccepted, true},
		{models.InquiryQuoted, models.InquiryOrdered, true},
		{models.InquiryAccepted, models.InquiryOrdered, true},
		{models.InquiryAccepted, models.InquiryQuoted, false},
		{models.InquiryCancelled, models.InquiryOrdered, false},
		{models.InquiryCancelled, models.InquiryQuoted, false},
		{models.InquiryRejected, models.InquiryOrdered, false},
		{models.InquiryOrdered, models.InquiryPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanInquiryTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderTransitions(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		allowed  bool
	}{
		{models.OrderPending, models.OrderConfirmed, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderShipped, false},
		{models.OrderConfirmed, models.OrderConfirmed, true}, // re-confirm by same user
		{models.OrderConfirmed, models.OrderReady, true},
		{models.OrderConfirmed, models.OrderShipped, true},
		{models.OrderReady, models.OrderShipped, true},
		{models.OrderShipped, models.OrderCompleted, true},
		{models.OrderShipped, models.OrderCancelled, false},
		{models.OrderCompleted, models.OrderShipped, false},
		{models.OrderCancelled, models.OrderConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanOrderTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestPaymentTransitions(t *testing.T) {
	assert.True(t, CanPaymentTransition(models.PaymentUnpaid, models.PaymentPaid))
	assert.True(t, CanPaymentTransition(models.PaymentUnpaid, models.PaymentPartial))
	assert.True(t, CanPaymentTransition(models.PaymentPartial, models.PaymentPaid))
	assert.False(t, CanPaymentTransition(models.PaymentPaid, models.PaymentUnpaid))
	assert.False(t, CanPaymentTransition(models.PaymentPartial, models.PaymentUnpaid))
}

func TestCheckTransitionError(t *testing.T) {
	err := CheckOrderTransition(models.OrderCompleted, models.OrderShipped)
	require.Error(t, err)

	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "订单", terr.Entity)
	assert.Equal(t, "订单状态不允许从 completed 变更为 shipped", err.Error())

	assert.NoError(t, CheckOrderTransition(models.OrderPending, models.OrderConfirmed))
}

func TestOrderableInquiryStatuses(t *testing.T) {
	orderable := OrderableInquiryStatuses()
	assert.ElementsMatch(t, []models.InquiryStatus{
		models.InquiryPending, models.InquiryQuoted, models.InquiryAccepted,
	}, orderable)
	assert.NotContains(t, orderable, models.InquiryCancelled)
	assert.NotContains(t, orderable, models.InquiryRejected)
}
