package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

const (
	jobListKeyPrefix  = "jobs:list:"
	jobListLockPrefix = "jobs:lock:"
	dashboardStatsKey = "dashboard:stats"
)

type jobListCacheKeyInput struct {
	Status       string `json:"status"`
	Company      string `json:"company"`
	PostedAfter  string `json:"posted_after"`
	PostedBefore string `json:"posted_before"`
	Limit        int    `json:"limit"`
	Offset       int    `json:"offset"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func JobListCacheKey(params JobListParams) string {
	in := jobListCacheKeyInput{
		Status:       string(params.Status),
		Company:      normalizeSearchValue(params.Company),
		PostedAfter:  formatBound(params.PostedAfter),
		PostedBefore: formatBound(params.PostedBefore),
		Limit:        params.Limit,
		Offset:       params.Offset,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return jobListKeyPrefix + hex.EncodeToString(sum[:])
}

func JobListLockKey(listKey string) string {
	return jobListLockPrefix + strings.TrimPrefix(listKey, jobListKeyPrefix)
}
