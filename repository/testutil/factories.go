package testutil

import (
	"time"

	"poolpay/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestPool creates a pool with default values
func CreateTestPool(ownerID int64, name string) *entities.Pool {
	return &entities.Pool{
		OwnerID:          ownerID,
		Name:             name,
		Description:      "test pool",
		GoalAmount:       decimal.Zero,
		TotalContributed: decimal.NewFromInt(1000),
		IsPrivate:        false,
	}
}

// CreateTestPoolWithBalance creates a pool with a specific balance
func CreateTestPoolWithBalance(ownerID int64, name string, balance decimal.Decimal) *entities.Pool {
	pool := CreateTestPool(ownerID, name)
	pool.TotalContributed = balance
	return pool
}

// CreateTestMember creates a plain pool member
func CreateTestMember(poolID, userID int64) *entities.PoolMember {
	return &entities.PoolMember{
		PoolID:           poolID,
		UserID:           userID,
		Role:             entities.PoolMemberRoleMember,
		Shares:           decimal.NewFromInt(1),
		TotalContributed: decimal.Zero,
	}
}

// CreateTestOwnerMember creates the owning member of a pool
func CreateTestOwnerMember(poolID, userID int64) *entities.PoolMember {
	member := CreateTestMember(poolID, userID)
	member.Role = entities.PoolMemberRoleOwner
	return member
}

// CreateTestPayout creates a pending payout with default values
func CreateTestPayout(poolID, recipientID, createdBy int64, amount decimal.Decimal) *entities.PoolPayout {
	return &entities.PoolPayout{
		PublicID:           uuid.New(),
		PoolID:             poolID,
		RecipientID:        recipientID,
		Amount:             amount,
		Description:        "test payout",
		PayoutMethod:       "paypal",
		Status:             entities.PayoutStatusPending,
		CreatedBy:          createdBy,
		VotingStatus:       entities.VotingStatusNotStarted,
		VotingResult:       entities.VotingResultPending,
		ApprovalPercentage: decimal.Zero,
	}
}

// CreateTestVotingPayout creates a payout with an open voting window
func CreateTestVotingPayout(poolID, recipientID, createdBy int64, amount decimal.Decimal) *entities.PoolPayout {
	payout := CreateTestPayout(poolID, recipientID, createdBy, amount)
	payout.OpenVoting(time.Now(), 72*time.Hour)
	return payout
}

// CreateTestVote creates a vote on a payout
func CreateTestVote(payoutID, voterID int64, voteType entities.VoteType) *entities.PoolPayoutVote {
	return &entities.PoolPayoutVote{
		PayoutID:    payoutID,
		VoterID:     voterID,
		VoteType:    voteType,
		VotingPower: decimal.NewFromInt(1),
	}
}

// CreateTestTransaction creates a consistent debit ledger row
func CreateTestTransaction(poolID int64, payoutID *int64, amount, balanceBefore decimal.Decimal) *entities.PoolPayoutTransaction {
	return &entities.PoolPayoutTransaction{
		PoolID:          poolID,
		PayoutID:        payoutID,
		TransactionType: entities.TransactionTypeDebit,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceBefore.Sub(amount),
		Description:     "test transaction",
	}
}
