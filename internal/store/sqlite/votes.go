package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
)

// currentVote reads a voter's stored vote on a review. A missing row is VoteNone.
func currentVote(ctx context.Context, q querier, showID, reviewUserID, voterUserID int64) (domain.VoteState, error) {
	var v int
	err := q.QueryRowContext(ctx, `
		SELECT vote FROM review_votes
		WHERE show_id = ? AND review_user_id = ? AND voter_user_id = ?`,
		showID, reviewUserID, voterUserID,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VoteNone, nil
	}
	if err != nil {
		return domain.VoteNone, fmt.Errorf("get vote: %w", err)
	}
	return domain.VoteState(v), nil
}

// SetVote applies a toggle vote on a review and returns the resulting state.
// Positive input votes up and anything else votes down; repeating the current
// direction clears the vote. Read and write happen in one transaction.
func (s *Store) SetVote(ctx context.Context, showID, reviewUserID, voterUserID int64, vote int) (domain.VoteState, error) {
	requested := domain.NormalizeVote(vote)

	var next domain.VoteState
	err := s.withTx(ctx, func(q querier) error {
		current, err := currentVote(ctx, q, showID, reviewUserID, voterUserID)
		if err != nil {
			return err
		}
		next = domain.NextVote(current, requested)

		switch {
		case !next.Stored():
			_, err = q.ExecContext(ctx, `
				DELETE FROM review_votes
				WHERE show_id = ? AND review_user_id = ? AND voter_user_id = ?`,
				showID, reviewUserID, voterUserID)
		case current == domain.VoteNone:
			_, err = q.ExecContext(ctx, `
				INSERT INTO review_votes (show_id, review_user_id, voter_user_id, vote, ts)
				VALUES (?, ?, ?, ?, ?)`,
				showID, reviewUserID, voterUserID, int(next), s.nowUnix())
		default:
			_, err = q.ExecContext(ctx, `
				UPDATE review_votes SET vote = ?, ts = ?
				WHERE show_id = ? AND review_user_id = ? AND voter_user_id = ?`,
				int(next), s.nowUnix(), showID, reviewUserID, voterUserID)
		}
		if err != nil {
			if isForeignKeyViolation(err) {
				return domainerrors.NotFound("review or voter not found").WithCause(err)
			}
			return fmt.Errorf("write vote: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.VoteNone, err
	}

	s.logger.Debug("vote applied",
		"show_id", showID,
		"review_user_id", reviewUserID,
		"voter_user_id", voterUserID,
		"state", next.String(),
	)
	return next, nil
}

// VoteFor returns a voter's current vote on a review.
func (s *Store) VoteFor(ctx context.Context, showID, reviewUserID, voterUserID int64) (domain.VoteState, error) {
	return currentVote(ctx, s.db, showID, reviewUserID, voterUserID)
}

// VoteScore returns the sum of votes on a review.
func (s *Store) VoteScore(ctx context.Context, showID, reviewUserID int64) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(vote), 0) FROM review_votes
		WHERE show_id = ? AND review_user_id = ?`,
		showID, reviewUserID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("vote score: %w", err)
	}
	return score, nil
}
