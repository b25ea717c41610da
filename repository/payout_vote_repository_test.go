package repository

import (
	"context"
	"testing"

	"poolpay/domain/entities"
	"poolpay/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayoutVoteRepository_UpsertReplacesVote(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	poolRepo := NewPoolRepository(testDB.DB)
	payoutRepo := NewPayoutRepository(testDB.DB)
	voteRepo := NewPayoutVoteRepository(testDB.DB)
	ctx := context.Background()

	pool := testutil.CreateTestPool(100, "vote pool")
	require.NoError(t, poolRepo.Create(ctx, pool))

	payout := testutil.CreateTestVotingPayout(pool.ID, 300, 200, decimal.NewFromInt(50))
	require.NoError(t, payoutRepo.Create(ctx, payout))

	first := testutil.CreateTestVote(payout.ID, 201, entities.VoteTypeApprove)
	require.NoError(t, voteRepo.Upsert(ctx, first))
	require.NotZero(t, first.ID)

	fetched, err := voteRepo.GetByPayoutAndVoter(ctx, payout.ID, 201)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, entities.VoteTypeApprove, fetched.VoteType)

	// Recasting replaces the previous ballot instead of adding a second row.
	recast := testutil.CreateTestVote(payout.ID, 201, entities.VoteTypeReject)
	recast.VotingPower = decimal.NewFromInt(3)
	require.NoError(t, voteRepo.Upsert(ctx, recast))
	assert.Equal(t, first.ID, recast.ID)

	votes, err := voteRepo.ListByPayout(ctx, payout.ID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, entities.VoteTypeReject, votes[0].VoteType)
	assert.True(t, votes[0].VotingPower.Equal(decimal.NewFromInt(3)))
}

func TestPayoutVoteRepository_ListByPayout(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	poolRepo := NewPoolRepository(testDB.DB)
	payoutRepo := NewPayoutRepository(testDB.DB)
	voteRepo := NewPayoutVoteRepository(testDB.DB)
	ctx := context.Background()

	pool := testutil.CreateTestPool(100, "tally pool")
	require.NoError(t, poolRepo.Create(ctx, pool))

	payout := testutil.CreateTestVotingPayout(pool.ID, 300, 200, decimal.NewFromInt(50))
	require.NoError(t, payoutRepo.Create(ctx, payout))

	other := testutil.CreateTestVotingPayout(pool.ID, 301, 200, decimal.NewFromInt(50))
	require.NoError(t, payoutRepo.Create(ctx, other))

	require.NoError(t, voteRepo.Upsert(ctx, testutil.CreateTestVote(payout.ID, 201, entities.VoteTypeApprove)))
	require.NoError(t, voteRepo.Upsert(ctx, testutil.CreateTestVote(payout.ID, 202, entities.VoteTypeAbstain)))
	require.NoError(t, voteRepo.Upsert(ctx, testutil.CreateTestVote(other.ID, 203, entities.VoteTypeReject)))

	votes, err := voteRepo.ListByPayout(ctx, payout.ID)
	require.NoError(t, err)
	assert.Len(t, votes, 2)

	missing, err := voteRepo.GetByPayoutAndVoter(ctx, payout.ID, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
