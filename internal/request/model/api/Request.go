package api

import (
	"errors"
	"net/url"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	userApi "github.com/mir2x/herpill-dashboard/internal/user/model/api"
)

const (
	TypePOP  = "pop"
	TypeCOCP = "cocp"

	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"

	TabDelivered = "delivered"

	DeliveryStarted = "started"
	DeliveryDone    = "done"

	ActionAccept  = "accept"
	ActionDecline = "decline"
)

type Request struct {
	ID             string               `json:"id"`
	Type           string               `json:"type"`
	Status         string               `json:"status"`
	DeliveryStatus string               `json:"delivery_status,omitempty"`
	CreatedAt      string               `json:"created_at"`
	User           *userApi.UserSummary `json:"user,omitempty"`
}

type Group struct {
	User     userApi.UserSummary `json:"user"`
	Requests []Request           `json:"requests"`
}

type TabCounts struct {
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	Declined  int `json:"declined"`
	Delivered int `json:"delivered"`
}

type RequestList struct {
	Groups      []Group   `json:"groups"`
	Page        int       `json:"page"`
	TotalPages  int       `json:"total_pages"`
	TotalGroups int       `json:"total_groups"`
	Counts      TabCounts `json:"counts"`
}

type StatusChange struct {
	Status string `json:"status"`
}

func (s StatusChange) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Status, validation.Required, validation.In(ActionAccept, ActionDecline)),
	)
}

// ListQuery carries the view state of the grouped listing: tab, page, page size.
type ListQuery struct {
	Status string
	Page   int
	Limit  int
}

func ParseListQuery(values url.Values) (*ListQuery, error) {
	q := &ListQuery{Status: StatusPending, Page: 1, Limit: 10}
	if s := values.Get("status"); s != "" {
		q.Status = s
	}
	if p := values.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.New("page must be a number")
		}
		q.Page = n
	}
	if l := values.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			return nil, errors.New("limit must be a number")
		}
		q.Limit = n
	}
	if err := q.validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *ListQuery) validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Status, validation.In(StatusPending, StatusAccepted, StatusDeclined, TabDelivered)),
		validation.Field(&q.Page, validation.Min(1)),
		validation.Field(&q.Limit, validation.Min(1), validation.Max(100)),
	)
}
