// internal/db/customers.go
package db

import (
	"context"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type Customer struct {
	ID     int64
	UserID int64
	Name   string
	Phone  string
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role) VALUES (?, ?, ?, ?)`,
		arg.Username, arg.Email, arg.PasswordHash, arg.Role,
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID(result)
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var user User
	err := q.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at
		 FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	return user, err
}

type CreateCustomerParams struct {
	UserID int64
	Name   string
	Phone  string
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO customers (user_id, name, phone) VALUES (?, ?, ?)`,
		arg.UserID, arg.Name, arg.Phone,
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID(result)
}

func (q *Queries) GetCustomerByUserID(ctx context.Context, userID int64) (Customer, error) {
	var customer Customer
	err := q.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, phone FROM customers WHERE user_id = ?`,
		userID,
	).Scan(&customer.ID, &customer.UserID, &customer.Name, &customer.Phone)
	return customer, err
}

// GetCustomerEmail resolves a customer's login email, used for payment
// receipts.
func (q *Queries) GetCustomerEmail(ctx context.Context, customerID int64) (string, error) {
	var email string
	err := q.db.QueryRowContext(ctx,
		`SELECT u.email FROM users u JOIN customers c ON c.user_id = u.id WHERE c.id = ?`,
		customerID,
	).Scan(&email)
	return email, err
}
