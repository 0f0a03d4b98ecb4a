package directory

import (
	"testing"

	"tradeportal-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestApprovalTransitions(t *testing.T) {
	cases := []struct {
		from, to models.ApprovalStatus
		allowed  bool
	}{
		{models.ApprovalPending, models.ApprovalApproved, true},
		{models.ApprovalPending, models.ApprovalRejected, true},
		{models.ApprovalApproved, models.ApprovalRejected, true}, // admin reversal
		{models.ApprovalRejected, models.ApprovalApproved, true}, // admin reversal
		{models.ApprovalApproved, models.ApprovalPending, false},
		{models.ApprovalRejected, models.ApprovalPending, false},
		{models.ApprovalApproved, models.ApprovalApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanApprovalTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestCheckApprovalTransition(t *testing.T) {
	assert.NoError(t, CheckApprovalTransition(models.ApprovalPending, models.ApprovalApproved))

	err := CheckApprovalTransition(models.ApprovalApproved, models.ApprovalPending)
	assert.EqualError(t, err, "审批状态不允许从 approved 变更为 pending")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "buyer@example.com", NormalizeEmail("  Buyer@Example.COM "))
	assert.Equal(t, "a@b.cn", NormalizeEmail("a@b.cn"))
}
