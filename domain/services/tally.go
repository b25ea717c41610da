package services

import (
	"poolpay/domain/entities"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeTally re-derives the vote aggregates for a payout from the current
// vote rows. The tally is never patched incrementally; concurrent upserts of
// the same voter's row therefore cannot cause drift.
//
// approval_percentage = approve_weight / (approve_weight + reject_weight) * 100.
// Abstain weight is excluded from the denominator and only counts toward quorum.
func ComputeTally(votes []*entities.PoolPayoutVote, settings *entities.PoolVotingSettings, eligibleVoters int, windowExpired bool) *entities.VoteTally {
	tally := &entities.VoteTally{
		ApproveWeight:      decimal.Zero,
		RejectWeight:       decimal.Zero,
		AbstainWeight:      decimal.Zero,
		ApprovalPercentage: decimal.Zero,
		EligibleVoters:     eligibleVoters,
	}

	for _, vote := range votes {
		switch vote.VoteType {
		case entities.VoteTypeApprove:
			tally.ApproveVotes++
			tally.ApproveWeight = tally.ApproveWeight.Add(vote.VotingPower)
		case entities.VoteTypeReject:
			tally.RejectVotes++
			tally.RejectWeight = tally.RejectWeight.Add(vote.VotingPower)
		case entities.VoteTypeAbstain:
			tally.AbstainVotes++
			tally.AbstainWeight = tally.AbstainWeight.Add(vote.VotingPower)
		}
	}
	tally.TotalVotes = tally.ApproveVotes + tally.RejectVotes + tally.AbstainVotes

	decisive := tally.ApproveWeight.Add(tally.RejectWeight)
	if decisive.IsPositive() {
		tally.ApprovalPercentage = tally.ApproveWeight.Div(decisive).Mul(hundred).Round(2)
	}

	tally.Outcome = decideOutcome(tally, settings, windowExpired)
	return tally
}

// decideOutcome applies the threshold, quorum and window rules to a tally.
//
// Mid-window a tally only resolves early when auto_approve is set; otherwise
// the outcome stays pending until the window closes. A window that expires
// without quorum resolves to failed, one that expires below the threshold
// (or with no votes at all) resolves to rejected.
func decideOutcome(tally *entities.VoteTally, settings *entities.PoolVotingSettings, windowExpired bool) entities.VotingResult {
	if settings.RequireQuorum && tally.EligibleVoters > 0 {
		participation := decimal.NewFromInt(int64(tally.TotalVotes)).
			Div(decimal.NewFromInt(int64(tally.EligibleVoters))).
			Mul(hundred)
		if participation.LessThan(settings.QuorumPercentage) {
			if windowExpired {
				return entities.VotingResultFailed
			}
			return entities.VotingResultPending
		}
	}

	if windowExpired && tally.TotalVotes == 0 {
		return entities.VotingResultRejected
	}

	if tally.TotalVotes > 0 &&
		tally.TotalVotes >= settings.MinVoters &&
		tally.ApprovalPercentage.GreaterThanOrEqual(settings.VotingThreshold) {
		if settings.AutoApprove || windowExpired {
			return entities.VotingResultApproved
		}
		return entities.VotingResultPending
	}

	if windowExpired {
		return entities.VotingResultRejected
	}
	return entities.VotingResultPending
}
