package aggregate

import (
	"errors"

	"github.com/mir2x/herpill-dashboard/internal/request/model"
	"github.com/mir2x/herpill-dashboard/internal/request/model/api"
	userModel "github.com/mir2x/herpill-dashboard/internal/user/model/db"
)

// UnknownKey is the bucket for requests whose user reference cannot be
// resolved to any identifier. Such requests are kept, not dropped.
const UnknownKey = "unknown"

type Filter int

const (
	Pending Filter = iota
	Accepted
	Declined
	DeliveryDone
)

var ErrUnknownFilter = errors.New("unknown status filter")

func ParseFilter(s string) (Filter, error) {
	switch s {
	case api.StatusPending:
		return Pending, nil
	case api.StatusAccepted:
		return Accepted, nil
	case api.StatusDeclined:
		return Declined, nil
	case api.TabDelivered:
		return DeliveryDone, nil
	default:
		return 0, ErrUnknownFilter
	}
}

// Matches reports whether a request belongs to the filter's tab. Accepted and
// DeliveryDone are disjoint: together they cover exactly the accepted requests.
func (f Filter) Matches(r model.Request) bool {
	switch f {
	case Pending:
		return r.ApprovalStatus == model.Pending
	case Accepted:
		return r.ApprovalStatus == model.Accepted && r.DeliveryStatus != model.Done
	case Declined:
		return r.ApprovalStatus == model.Declined
	case DeliveryDone:
		return r.ApprovalStatus == model.Accepted && r.DeliveryStatus == model.Done
	}
	return false
}

type Group struct {
	User     userModel.UserSummary
	Requests []model.Request
}

// GroupByUser filters requests by f and buckets them by resolved user id,
// preserving first-seen order of groups and source order within each group.
func GroupByUser(requests []model.Request, f Filter) []Group {
	groups := []Group{}
	index := make(map[string]int)
	for _, r := range requests {
		if !f.Matches(r) {
			continue
		}
		user := r.User.Resolve()
		if user.ID == "" {
			user.ID = UnknownKey
		}
		i, ok := index[user.ID]
		if !ok {
			i = len(groups)
			index[user.ID] = i
			groups = append(groups, Group{User: user})
		}
		groups[i].Requests = append(groups[i].Requests, r)
	}
	return groups
}

type Page struct {
	Groups      []Group
	Number      int
	TotalPages  int
	TotalGroups int
}

// Paginate slices groups into 1-indexed pages of pageSize groups each. A group
// occupies one page slot regardless of how many requests it holds. An
// out-of-range page is clamped into the valid range.
func Paginate(groups []Group, page, pageSize int) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(groups)
	totalPages := (total + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	lo := (page - 1) * pageSize
	if lo > total {
		lo = total
	}
	hi := lo + pageSize
	if hi > total {
		hi = total
	}
	return Page{Groups: groups[lo:hi], Number: page, TotalPages: totalPages, TotalGroups: total}
}

type Counts struct {
	Pending   int
	Accepted  int
	Declined  int
	Delivered int
}

// CountByFilter tallies requests per tab over the full unfiltered list.
// Counts are of requests, not groups, and do not depend on pagination.
func CountByFilter(requests []model.Request) Counts {
	var c Counts
	for _, r := range requests {
		switch {
		case Pending.Matches(r):
			c.Pending++
		case Accepted.Matches(r):
			c.Accepted++
		case Declined.Matches(r):
			c.Declined++
		case DeliveryDone.Matches(r):
			c.Delivered++
		}
	}
	return c
}
