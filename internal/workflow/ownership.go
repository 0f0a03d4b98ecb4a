package workflow

import (
	"errors"
	"fmt"

	"tradeportal-backend/internal/models"
)

// Sales-ownership lock: the first supplier to quote an inquiry, or failing that
// the one who confirms the order, becomes the sole authority for every later
// status-changing action on that lineage. There is no override path here;
// administrators act through their own interface.

var (
	ErrNotResponsibleShip     = errors.New("仅负责销售可执行发货操作。")
	ErrNotResponsiblePayment  = errors.New("仅负责销售可确认收款。")
	ErrNotResponsibleComplete = errors.New("仅负责销售可确认订单完成。")
	ErrPaymentNotConfirmed    = errors.New("未确认收款，不能完成订单。请先确认收款。")
)

// ResponsibleUser resolves the pinned sales person for an order: the confirming
// user if set, else the quoting user of the linked inquiry, else nil (nobody is
// responsible yet). Order.Inquiry must be preloaded when InquiryID is set.
func ResponsibleUser(o *models.Order) *models.User {
	if o.ConfirmedByID != nil {
		return o.ConfirmedBy
	}
	if o.Inquiry != nil && o.Inquiry.QuotedByID != nil {
		return o.Inquiry.QuotedBy
	}
	return nil
}

// ResponsibleUserID is the id-level variant used by the guards below.
func ResponsibleUserID(o *models.Order) *uint {
	if o.ConfirmedByID != nil {
		return o.ConfirmedByID
	}
	if o.Inquiry != nil && o.Inquiry.QuotedByID != nil {
		return o.Inquiry.QuotedByID
	}
	return nil
}

func displayName(u *models.User) string {
	if u == nil {
		return "其他销售"
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// CheckQuote guards the quote action: once QuotedBy is set only that user may
// re-quote.
func CheckQuote(inq *models.Inquiry, actorID uint) error {
	if inq.QuotedByID != nil && *inq.QuotedByID != actorID {
		return fmt.Errorf("该询单已由销售 %s 负责，请联系其处理。", displayName(inq.QuotedBy))
	}
	return nil
}

// CheckConfirm guards the confirm action: the linked inquiry's quoting user and
// any existing confirming user must both be the actor (or unset).
func CheckConfirm(o *models.Order, actorID uint) error {
	if o.Inquiry != nil && o.Inquiry.QuotedByID != nil && *o.Inquiry.QuotedByID != actorID {
		return fmt.Errorf("该订单关联询单已由销售 %s 负责，请联系其进行确认。", displayName(o.Inquiry.QuotedBy))
	}
	if o.ConfirmedByID != nil && *o.ConfirmedByID != actorID {
		return fmt.Errorf("该订单已由销售 %s 确认，不可由其他人再次确认。", displayName(o.ConfirmedBy))
	}
	return nil
}

func isResponsible(o *models.Order, actorID uint) bool {
	id := ResponsibleUserID(o)
	return id != nil && *id == actorID
}

// CheckShip / CheckConfirmPayment / CheckComplete guard the post-confirmation
// actions: only the resolved responsible user may execute them.

func CheckShip(o *models.Order, actorID uint) error {
	if !isResponsible(o, actorID) {
		return ErrNotResponsibleShip
	}
	return nil
}

func CheckConfirmPayment(o *models.Order, actorID uint) error {
	if !isResponsible(o, actorID) {
		return ErrNotResponsiblePayment
	}
	return nil
}

func CheckComplete(o *models.Order, actorID uint) error {
	// Payment gate first: completing an unpaid order is rejected regardless of
	// who asks.
	if o.PaymentStatus != models.PaymentPaid {
		return ErrPaymentNotConfirmed
	}
	if !isResponsible(o, actorID) {
		return ErrNotResponsibleComplete
	}
	return nil
}
