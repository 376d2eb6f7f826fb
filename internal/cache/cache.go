package cache

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed scripts/issue_coupon.lua
var issueCouponScript string

// IssueResult is the outcome of the atomic issuance attempt in Redis.
type IssueResult int

const (
	IssueWin IssueResult = iota
	IssueDuplicate
	IssueExhausted
)

const (
	issuedKeyPrefix = "coupon:issued:"
	closedKeyPrefix = "coupon:closed:"

	// closedTTL keeps the exhausted flag short-lived so a rolled-back
	// issuance can free a slot again.
	closedTTL = 2 * time.Minute
)

// Client is the fast-cache side of coupon issuance: an atomic set of user
// IDs per coupon, never authoritative on its own.
type Client struct {
	rdb         *redis.Client
	issueScript *redis.Script
}

func NewClient(ctx context.Context, addr string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:         rdb,
		issueScript: redis.NewScript(issueCouponScript),
	}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// TryIssue runs the dedup and cap checks and the set insert as a single
// atomic script. A win is provisional until the issuance is persisted.
func (c *Client) TryIssue(ctx context.Context, couponID, userID int64, maxIssueCount int) (IssueResult, error) {
	key := issuedKeyPrefix + strconv.FormatInt(couponID, 10)

	result, err := c.issueScript.Run(ctx, c.rdb, []string{key},
		strconv.FormatInt(userID, 10), maxIssueCount).Int64()
	if err != nil {
		return 0, fmt.Errorf("issue script failed: %w", err)
	}

	switch result {
	case -1:
		return IssueDuplicate, nil
	case 0:
		return IssueExhausted, nil
	default:
		return IssueWin, nil
	}
}

// Revoke removes a provisional win so a later request is not unfairly
// blocked after a failed persist.
func (c *Client) Revoke(ctx context.Context, couponID, userID int64) error {
	key := issuedKeyPrefix + strconv.FormatInt(couponID, 10)
	return c.rdb.SRem(ctx, key, strconv.FormatInt(userID, 10)).Err()
}

// MarkClosed caches the exhausted state so follow-up requests are shed
// before touching the issued set.
func (c *Client) MarkClosed(ctx context.Context, couponID int64) error {
	key := closedKeyPrefix + strconv.FormatInt(couponID, 10)
	return c.rdb.Set(ctx, key, "1", closedTTL).Err()
}

// IsClosed reports whether the coupon was recently marked exhausted.
func (c *Client) IsClosed(ctx context.Context, couponID int64) (bool, error) {
	key := closedKeyPrefix + strconv.FormatInt(couponID, 10)
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IssuedMembers returns the user IDs currently in the issued set, for
// reconciliation against the ledger store.
func (c *Client) IssuedMembers(ctx context.Context, couponID int64) ([]int64, error) {
	key := issuedKeyPrefix + strconv.FormatInt(couponID, 10)
	members, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unexpected member %q in %s: %w", m, key, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
