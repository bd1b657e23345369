package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/mir2x/herpill-dashboard/internal/request/model"
	userModel "github.com/mir2x/herpill-dashboard/internal/user/model/db"
)

type Storage interface {
	RegisterAdmin(login, password string) (string, error)
	GetAdminByLoginPassword(login, password string) (string, error)

	GetUsers(offset, limit int) ([]userModel.User, int, error)
	GetUser(id string) (*userModel.User, error)
	GetUserRequests(userID string) ([]model.Request, error)

	GetRequests(category model.Category) ([]model.Request, error)
	GetRequest(category model.Category, id string) (*model.Request, error)
	SetRequestStatus(category model.Category, id string, status model.ApprovalStatus) error
	DeleteRequest(category model.Category, id string) error

	SyncDeliveries(offset, limit int, updF func(ids []string) map[string]model.DeliveryStatus) (int, error)
}

var ErrDuplicateLogin = errors.New("login already exist")
var ErrAdminNotFound = errors.New("admin not found")
var ErrUserNotFound = errors.New("user not found")

var ErrRequestNotFound = errors.New("request not found")
var ErrRequestNotPending = errors.New("request is not pending")
var ErrRequestNotDeletable = errors.New("request is neither accepted nor declined")

type storageImpl struct {
	url    string
	ctx    context.Context
	xdb    *sqlx.DB
	logger *zap.SugaredLogger
}

const (
	createTablesIfNeedSQL = `
	create table if not exists admins(
		id uuid primary key,
		login varchar(256) unique,
		password varchar(256) not null
	);

	create table if not exists users(
		id uuid primary key,
		first_name varchar(256) not null default '',
		last_name varchar(256) not null default '',
		email varchar(256) not null default '',
		phone varchar(64) not null default '',
		avatar text not null default '',
		created_at timestamp with time zone not null default now()
	);

	create table if not exists requests(
		id uuid primary key,
		category int not null,
		user_id uuid,
		approval_status int not null default 0,
		delivery_status int not null default 0,
		created_at timestamp with time zone not null default now(),
		updated_at timestamp with time zone not null default now()
	);
	`

	getAdminIDByLoginPasswordSQL = `select id from admins where login = $1 and password = $2;`
	getCountByLoginPasswordSQL   = `select count(*) from admins where login = $1 and password = $2;`
	insertAdminSQL               = `insert into admins(id, login, password) values($1,$2,$3) returning id;`

	countUsersSQL  = `select count(*) from users;`
	selectUsersSQL = `
	select
		id,
		first_name,
		last_name,
		email,
		phone,
		avatar,
		created_at
	from users order by created_at desc, id offset $1 limit $2;`
	selectUserSQL = `select id, first_name, last_name, email, phone, avatar, created_at from users where id = $1;`

	requestColumnsSQL = `
	select
		r.id,
		r.category,
		r.approval_status,
		r.delivery_status,
		r.created_at,
		r.user_id,
		u.id as summary_id,
		u.first_name,
		u.last_name,
		u.email,
		u.phone,
		u.avatar
	from requests r left join users u on u.id = r.user_id`

	selectRequestsSQL     = requestColumnsSQL + ` where r.category = $1 order by r.created_at desc, r.id;`
	selectRequestSQL      = requestColumnsSQL + ` where r.category = $1 and r.id = $2;`
	selectUserRequestsSQL = requestColumnsSQL + ` where r.user_id = $1 order by r.created_at desc, r.id;`

	updateRequestStatusSQL = `update requests set approval_status = $1, updated_at = now() where id = $2 and category = $3 and approval_status = $4;`
	getRequestStatusSQL    = `select approval_status from requests where id = $1 and category = $2;`
	deleteRequestSQL       = `delete from requests where id = $1 and category = $2 and approval_status in ($3, $4);`

	selectInFlightSQL = `
	select id from requests
	where approval_status = $1 and delivery_status != $2
	order by created_at, id offset $3 limit $4;`
	updateDeliverySQL = `update requests set delivery_status = $1, updated_at = now() where id = $2;`
)

func NewStorage(url string, ctx context.Context, logger *zap.SugaredLogger) (Storage, error) {
	logger.Infow("start init dbstorage ...")
	xdb, err := sqlx.Connect("postgres", url)
	if err != nil {
		logger.Errorf("error on connect to db: %v", err)
		return nil, err
	}

	storage := &storageImpl{url, ctx, xdb, logger}
	if err := storage.initDB(); err != nil {
		logger.Errorf("error on init db: %v", err)
		return nil, err
	}
	logger.Info("dbstorage initialized successfully")
	return storage, nil
}

func (db *storageImpl) initDB() error {
	_, err := db.xdb.ExecContext(db.ctx, createTablesIfNeedSQL)
	return err
}

func (db *storageImpl) RegisterAdmin(login, password string) (string, error) {
	tx, err := db.xdb.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var count int
	if err := db.xdb.GetContext(db.ctx, &count, getCountByLoginPasswordSQL, login, password); err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrDuplicateLogin
	}
	row := db.xdb.QueryRowContext(db.ctx, insertAdminSQL, uuid.New().String(), login, password)

	var id string
	if err := row.Scan(&id); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return id, nil
}

func (db *storageImpl) GetAdminByLoginPassword(login, password string) (string, error) {
	var id string
	err := db.xdb.GetContext(db.ctx, &id, getAdminIDByLoginPasswordSQL, login, password)
	if err == sql.ErrNoRows {
		return "", ErrAdminNotFound
	} else if err != nil {
		return "", err
	}

	return id, nil
}

func (db *storageImpl) GetUsers(offset, limit int) ([]userModel.User, int, error) {
	var total int
	if err := db.xdb.GetContext(db.ctx, &total, countUsersSQL); err != nil {
		return nil, 0, err
	}
	users := []userModel.User{}
	if err := db.xdb.SelectContext(db.ctx, &users, selectUsersSQL, offset, limit); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (db *storageImpl) GetUser(id string) (*userModel.User, error) {
	var user userModel.User
	err := db.xdb.GetContext(db.ctx, &user, selectUserSQL, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return &user, nil
}

// requestRow is the join shape of a request with its (possibly absent) user.
type requestRow struct {
	ID             string               `db:"id"`
	Category       model.Category       `db:"category"`
	ApprovalStatus model.ApprovalStatus `db:"approval_status"`
	DeliveryStatus model.DeliveryStatus `db:"delivery_status"`
	CreatedAt      sql.NullTime         `db:"created_at"`
	UserID         sql.NullString       `db:"user_id"`
	SummaryID      sql.NullString       `db:"summary_id"`
	FirstName      sql.NullString       `db:"first_name"`
	LastName       sql.NullString       `db:"last_name"`
	Email          sql.NullString       `db:"email"`
	Phone          sql.NullString       `db:"phone"`
	Avatar         sql.NullString       `db:"avatar"`
}

func (r *requestRow) toModel() model.Request {
	var ref model.UserRef
	switch {
	case r.SummaryID.Valid:
		ref = model.EmbeddedUser(userModel.UserSummary{
			ID:        r.SummaryID.String,
			FirstName: r.FirstName.String,
			LastName:  r.LastName.String,
			Email:     r.Email.String,
			Phone:     r.Phone.String,
			Avatar:    r.Avatar.String,
		})
	case r.UserID.Valid:
		// dangling reference, the user row is gone
		ref = model.UserByID(r.UserID.String)
	}
	return model.Request{
		ID:             r.ID,
		Category:       r.Category,
		User:           ref,
		ApprovalStatus: r.ApprovalStatus,
		DeliveryStatus: r.DeliveryStatus,
		CreatedAt:      r.CreatedAt.Time,
	}
}

func rowsToModels(rows []requestRow) []model.Request {
	requests := make([]model.Request, len(rows))
	for i := range rows {
		requests[i] = rows[i].toModel()
	}
	return requests
}

func (db *storageImpl) GetRequests(category model.Category) ([]model.Request, error) {
	rows := []requestRow{}
	if err := db.xdb.SelectContext(db.ctx, &rows, selectRequestsSQL, category); err != nil {
		return nil, err
	}
	return rowsToModels(rows), nil
}

func (db *storageImpl) GetRequest(category model.Category, id string) (*model.Request, error) {
	var row requestRow
	err := db.xdb.GetContext(db.ctx, &row, selectRequestSQL, category, id)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	} else if err != nil {
		return nil, err
	}
	request := row.toModel()
	return &request, nil
}

func (db *storageImpl) GetUserRequests(userID string) ([]model.Request, error) {
	rows := []requestRow{}
	if err := db.xdb.SelectContext(db.ctx, &rows, selectUserRequestsSQL, userID); err != nil {
		return nil, err
	}
	return rowsToModels(rows), nil
}

func (db *storageImpl) SetRequestStatus(category model.Category, id string, status model.ApprovalStatus) error {
	res, err := db.xdb.ExecContext(db.ctx, updateRequestStatusSQL, status, id, category, model.Pending)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n > 0 {
		return nil
	}

	var current model.ApprovalStatus
	err = db.xdb.GetContext(db.ctx, &current, getRequestStatusSQL, id, category)
	if err == sql.ErrNoRows {
		return ErrRequestNotFound
	} else if err != nil {
		return err
	}
	return ErrRequestNotPending
}

func (db *storageImpl) DeleteRequest(category model.Category, id string) error {
	res, err := db.xdb.ExecContext(db.ctx, deleteRequestSQL, id, category, model.Accepted, model.Declined)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n > 0 {
		return nil
	}

	var current model.ApprovalStatus
	err = db.xdb.GetContext(db.ctx, &current, getRequestStatusSQL, id, category)
	if err == sql.ErrNoRows {
		return ErrRequestNotFound
	} else if err != nil {
		return err
	}
	return ErrRequestNotDeletable
}

func (db *storageImpl) SyncDeliveries(offset, limit int, updF func(ids []string) map[string]model.DeliveryStatus) (int, error) {
	ids := []string{}
	if err := db.xdb.SelectContext(db.ctx, &ids, selectInFlightSQL, model.Accepted, model.Done, offset, limit); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	updates := updF(ids)

	tx, err := db.xdb.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for id, status := range updates {
		if _, err := tx.ExecContext(db.ctx, updateDeliverySQL, status, id); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(ids), nil
}
