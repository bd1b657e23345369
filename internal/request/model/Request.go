package model

import (
	"errors"
	"time"

	"github.com/mir2x/herpill-dashboard/internal/request/model/api"
	userModel "github.com/mir2x/herpill-dashboard/internal/user/model/db"
	"github.com/mir2x/herpill-dashboard/internal/utils"
)

type Category int

const (
	POP Category = iota
	COCP
)

var ErrUnknownCategory = errors.New("unknown request category")

func ParseCategory(s string) (Category, error) {
	switch s {
	case api.TypePOP:
		return POP, nil
	case api.TypeCOCP:
		return COCP, nil
	default:
		return 0, ErrUnknownCategory
	}
}

func (c Category) String() string {
	if c == COCP {
		return api.TypeCOCP
	}
	return api.TypePOP
}

type ApprovalStatus int

const (
	Pending ApprovalStatus = iota
	Accepted
	Declined
)

type DeliveryStatus int

const (
	NotStarted DeliveryStatus = iota
	Started
	Done
)

// UserRef is the polymorphic user reference of a request: either an embedded
// summary or a bare identifier, resolved once when the row is read.
type UserRef struct {
	summary *userModel.UserSummary
	id      string
}

func EmbeddedUser(summary userModel.UserSummary) UserRef {
	return UserRef{summary: &summary}
}

func UserByID(id string) UserRef {
	return UserRef{id: id}
}

// Resolve returns the embedded summary when present, otherwise a stub holding
// only the identifier. A zero UserRef resolves to an empty summary.
func (r UserRef) Resolve() userModel.UserSummary {
	if r.summary != nil {
		return *r.summary
	}
	return userModel.UserSummary{ID: r.id}
}

type Request struct {
	ID             string
	Category       Category
	User           UserRef
	ApprovalStatus ApprovalStatus
	DeliveryStatus DeliveryStatus
	CreatedAt      time.Time
}

func (r *Request) ToAPI() api.Request {
	s := ""
	switch r.ApprovalStatus {
	case Pending:
		s = api.StatusPending
	case Accepted:
		s = api.StatusAccepted
	case Declined:
		s = api.StatusDeclined
	}

	// delivery status stays absent until the courier picks the order up
	d := ""
	switch r.DeliveryStatus {
	case Started:
		d = api.DeliveryStarted
	case Done:
		d = api.DeliveryDone
	}

	return api.Request{
		ID:             r.ID,
		Type:           r.Category.String(),
		Status:         s,
		DeliveryStatus: d,
		CreatedAt:      utils.FormatDate(r.CreatedAt),
	}
}

func (r *Request) ToAPIWithUser() api.Request {
	a := r.ToAPI()
	u := r.User.Resolve()
	au := u.ToAPI()
	a.User = &au
	return a
}
