package workflow

import (
	"fmt"

	"tradeportal-backend/internal/models"
)

// TransitionError reports a status change that is not in the transition table.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s状态不允许从 %s 变更为 %s", e.Entity, e.From, e.To)
}

// Every permitted transition is listed explicitly; anything absent is rejected.
// Re-quote (quoted -> quoted) and re-confirm (confirmed -> confirmed) are
// permitted so the responsible sales person can revise their own submission.
var inquiryTransitions = map[models.InquiryStatus][]models.InquiryStatus{
	models.InquiryPending: {
		models.InquiryQuoted,
		models.InquiryCancelled,
		models.InquiryRejected,
		models.InquiryOrdered,
	},
	models.InquiryQuoted: {
		models.InquiryQuoted,
		models.InquiryAccepted,
		models.InquiryRejected,
		models.InquiryCancelled,
		models.InquiryOrdered,
	},
	models.InquiryAccepted: {
		models.InquiryOrdered,
	},
	// accepted handled above; rejected, cancelled and ordered are terminal.
}

var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending: {
		models.OrderConfirmed,
		models.OrderCancelled,
	},
	models.OrderConfirmed: {
		models.OrderConfirmed,
		models.OrderReady,
		models.OrderShipped,
		models.OrderCancelled,
	},
	models.OrderReady: {
		models.OrderShipped,
		models.OrderCancelled,
	},
	models.OrderShipped: {
		models.OrderCompleted,
	},
	// completed and cancelled are terminal.
}

var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentUnpaid: {
		models.PaymentPartial,
		models.PaymentPaid,
	},
	models.PaymentPartial: {
		models.PaymentPaid,
	},
	// paid is terminal.
}

func CanInquiryTransition(from, to models.InquiryStatus) bool {
	for _, s := range inquiryTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func CheckInquiryTransition(from, to models.InquiryStatus) error {
	if !CanInquiryTransition(from, to) {
		return &TransitionError{Entity: "询单", From: string(from), To: string(to)}
	}
	return nil
}

func CanOrderTransition(from, to models.OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func CheckOrderTransition(from, to models.OrderStatus) error {
	if !CanOrderTransition(from, to) {
		return &TransitionError{Entity: "订单", From: string(from), To: string(to)}
	}
	return nil
}

func CanPaymentTransition(from, to models.PaymentStatus) bool {
	for _, s := range paymentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func CheckPaymentTransition(from, to models.PaymentStatus) error {
	if !CanPaymentTransition(from, to) {
		return &TransitionError{Entity: "付款", From: string(from), To: string(to)}
	}
	return nil
}

// OrderableInquiryStatuses lists the inquiry states an order may be created
// from. A cancelled or rejected inquiry can no longer be turned into an order.
func OrderableInquiryStatuses() []models.InquiryStatus {
	return []models.InquiryStatus{
		models.InquiryPending,
		models.InquiryQuoted,
		models.InquiryAccepted,
	}
}
