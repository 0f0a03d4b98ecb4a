package workflow

import (
	"testing"

	"tradeportal-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func orderWithQuoter(quoterID uint) *models.Order {
	return &models.Order{
		Inquiry: &models.Inquiry{
			QuotedByID: uintPtr(quoterID),
			QuotedBy:   &models.User{ID: quoterID, Name: "张伟"},
		},
		InquiryID: uintPtr(1),
	}
}

func TestResponsibleUserResolution(t *testing.T) {
	// No confirmer, no linked inquiry: nobody responsible yet.
	assert.Nil(t, ResponsibleUserID(&models.Order{}))

	// Falls back to the inquiry's quoting user.
	o := orderWithQuoter(7)
	require.NotNil(t, ResponsibleUserID(o))
	assert.Equal(t, uint(7), *ResponsibleUserID(o))
	assert.Equal(t, "张伟", ResponsibleUser(o).Name)

	// Confirming user wins over the quoter.
	o.ConfirmedByID = uintPtr(9)
	o.ConfirmedBy = &models.User{ID: 9, Name: "李娜"}
	assert.Equal(t, uint(9), *ResponsibleUserID(o))
	assert.Equal(t, "李娜", ResponsibleUser(o).Name)
}

func TestCheckQuote(t *testing.T) {
	// Unclaimed inquiry: anyone may quote.
	assert.NoError(t, CheckQuote(&models.Inquiry{}, 5))

	claimed := &models.Inquiry{
		QuotedByID: uintPtr(3),
		QuotedBy:   &models.User{ID: 3, Name: "王芳"},
	}
	assert.NoError(t, CheckQuote(claimed, 3))

	err := CheckQuote(claimed, 5)
	require.Error(t, err)
	assert.Equal(t, "该询单已由销售 王芳 负责，请联系其处理。", err.Error())
}

func TestCheckQuoteDisplayNameFallsBackToEmail(t *testing.T) {
	claimed := &models.Inquiry{
		QuotedByID: uintPtr(3),
		QuotedBy:   &models.User{ID: 3, Email: "sales@example.com"},
	}
	err := CheckQuote(claimed, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sales@example.com")
}

func TestCheckConfirm(t *testing.T) {
	// Order from an unquoted inquiry: any supplier may confirm.
	assert.NoError(t, CheckConfirm(&models.Order{}, 5))

	// Quoter of the linked inquiry owns confirmation.
	o := orderWithQuoter(3)
	assert.NoError(t, CheckConfirm(o, 3))
	assert.Error(t, CheckConfirm(o, 5))

	// Already confirmed by someone else.
	o2 := &models.Order{
		ConfirmedByID: uintPtr(3),
		ConfirmedBy:   &models.User{ID: 3, Name: "张伟"},
	}
	assert.NoError(t, CheckConfirm(o2, 3))
	err := CheckConfirm(o2, 5)
	require.Error(t, err)
	assert.Equal(t, "该订单已由销售 张伟 确认，不可由其他人再次确认。", err.Error())
}

func TestCheckShip(t *testing.T) {
	o := orderWithQuoter(3)
	assert.NoError(t, CheckShip(o, 3))

	err := CheckShip(o, 5)
	assert.ErrorIs(t, err, ErrNotResponsibleShip)
	assert.Equal(t, "仅负责销售可执行发货操作。", err.Error())

	// Nobody responsible yet: nobody may ship.
	assert.ErrorIs(t, CheckShip(&models.Order{}, 3), ErrNotResponsibleShip)
}

func TestCheckConfirmPayment(t *testing.T) {
	o := &models.Order{ConfirmedByID: uintPtr(4)}
	assert.NoError(t, CheckConfirmPayment(o, 4))
	assert.ErrorIs(t, CheckConfirmPayment(o, 5), ErrNotResponsiblePayment)
}

func TestCheckComplete(t *testing.T) {
	o := &models.Order{
		ConfirmedByID: uintPtr(4),
		PaymentStatus: models.PaymentUnpaid,
	}

	// The payment gate fires before responsibility, even for the owner.
	assert.ErrorIs(t, CheckComplete(o, 4), ErrPaymentNotConfirmed)
	assert.ErrorIs(t, CheckComplete(o, 5), ErrPaymentNotConfirmed)

	o.PaymentStatus = models.PaymentPartial
	assert.ErrorIs(t, CheckComplete(o, 4), ErrPaymentNotConfirmed)

	o.PaymentStatus = models.PaymentPaid
	assert.NoError(t, CheckComplete(o, 4))
	assert.ErrorIs(t, CheckComplete(o, 5), ErrNotResponsibleComplete)
}
