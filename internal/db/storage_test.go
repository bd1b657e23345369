package db

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mir2x/herpill-dashboard/internal/request/model"
)

func getLogger() *zap.SugaredLogger {
	l, _ := zap.NewProduction()
	return l.Sugar()
}

var connURL = "host=localhost port=5432 user=postgres dbname=postgres sslmode=disable"
var xdb = sqlx.MustConnect("postgres", connURL)

func cleanTables() {
	xdb.MustExec(`truncate table admins;`)
	xdb.MustExec(`truncate table requests;`)
	xdb.MustExec(`truncate table users;`)
}

func initNewDB(t *testing.T) Storage {
	db, err := NewStorage(connURL, context.TODO(), getLogger())
	if err != nil {
		t.Fatal(err)
		return nil
	}
	return db
}

const (
	userAnn = "10000000-0000-0000-0000-00000000000a"
	userBea = "10000000-0000-0000-0000-00000000000b"
	reqOne  = "20000000-0000-0000-0000-000000000001"
	reqTwo  = "20000000-0000-0000-0000-000000000002"
	reqGone = "20000000-0000-0000-0000-000000000003"
)

func insertFixtures() {
	xdb.MustExec(`insert into users(id, first_name, last_name, email) values
		($1, 'Ann', 'Doe', 'ann@example.com'),
		($2, 'Bea', 'Ray', 'bea@example.com');`, userAnn, userBea)
	xdb.MustExec(`insert into requests(id, category, user_id, approval_status, delivery_status) values
		($1, 0, $3, 0, 0),
		($2, 0, $4, 1, 2);`, reqOne, reqTwo, userAnn, userBea)
	// a request whose user row is gone
	xdb.MustExec(`insert into requests(id, category, user_id) values ($1, 0, '10000000-0000-0000-0000-00000000000f');`, reqGone)
}

func Test_storageImpl_RegisterAdmin(t *testing.T) {
	db := initNewDB(t)
	tests := []struct {
		name    string
		prepare func()
		check   func(error)
	}{
		{
			"register success",
			func() {},
			func(err error) { assert.NoError(t, err, "error not eq nil") },
		},
		{
			"duplicate login",
			func() {
				xdb.MustExec(`insert into admins(id, login, password) values('30000000-0000-0000-0000-000000000001','login','password');`)
			},
			func(err error) {
				assert.ErrorIs(t, err, ErrDuplicateLogin)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanTables()
			tt.prepare()
			_, err := db.RegisterAdmin("login", "password")
			tt.check(err)
		})
	}
}

func Test_storageImpl_GetRequests(t *testing.T) {
	db := initNewDB(t)
	cleanTables()
	insertFixtures()

	requests, err := db.GetRequests(model.POP)
	assert.NoError(t, err)
	assert.Len(t, requests, 3)

	byID := map[string]model.Request{}
	for _, r := range requests {
		byID[r.ID] = r
	}

	one := byID[reqOne]
	assert.Equal(t, model.Pending, one.ApprovalStatus)
	assert.Equal(t, "Ann", one.User.Resolve().FirstName)

	two := byID[reqTwo]
	assert.Equal(t, model.Accepted, two.ApprovalStatus)
	assert.Equal(t, model.Done, two.DeliveryStatus)

	gone := byID[reqGone]
	assert.Equal(t, "10000000-0000-0000-0000-00000000000f", gone.User.Resolve().ID)
	assert.Empty(t, gone.User.Resolve().FirstName, "dangling reference degrades to an id-only stub")

	cocp, err := db.GetRequests(model.COCP)
	assert.NoError(t, err)
	assert.Empty(t, cocp)
}

func Test_storageImpl_SetRequestStatus(t *testing.T) {
	db := initNewDB(t)
	tests := []struct {
		name  string
		id    string
		check func(error)
	}{
		{
			"accept pending request",
			reqOne,
			func(err error) { assert.NoError(t, err) },
		},
		{
			"already accepted request",
			reqTwo,
			func(err error) { assert.ErrorIs(t, err, ErrRequestNotPending) },
		},
		{
			"missing request",
			"20000000-0000-0000-0000-0000000000ff",
			func(err error) { assert.ErrorIs(t, err, ErrRequestNotFound) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanTables()
			insertFixtures()
			tt.check(db.SetRequestStatus(model.POP, tt.id, model.Accepted))
		})
	}
}

func Test_storageImpl_DeleteRequest(t *testing.T) {
	db := initNewDB(t)
	tests := []struct {
		name  string
		id    string
		check func(error)
	}{
		{
			"delete accepted request",
			reqTwo,
			func(err error) { assert.NoError(t, err) },
		},
		{
			"pending request is not deletable",
			reqOne,
			func(err error) { assert.ErrorIs(t, err, ErrRequestNotDeletable) },
		},
		{
			"missing request",
			"20000000-0000-0000-0000-0000000000ff",
			func(err error) { assert.ErrorIs(t, err, ErrRequestNotFound) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanTables()
			insertFixtures()
			tt.check(db.DeleteRequest(model.POP, tt.id))
		})
	}
}

func Test_storageImpl_SyncDeliveries(t *testing.T) {
	db := initNewDB(t)
	cleanTables()
	insertFixtures()

	// reqTwo is already delivered, only in-flight accepted requests are offered
	xdb.MustExec(`update requests set approval_status = 1 where id = $1;`, reqOne)

	var offered []string
	count, err := db.SyncDeliveries(0, 10, func(ids []string) map[string]model.DeliveryStatus {
		offered = ids
		return map[string]model.DeliveryStatus{reqOne: model.Started}
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{reqOne}, offered)

	request, err := db.GetRequest(model.POP, reqOne)
	assert.NoError(t, err)
	assert.Equal(t, model.Started, request.DeliveryStatus)
}
