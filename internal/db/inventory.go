// internal/db/inventory.go
package db

import "context"

const (
	StockStatusAvailable   = "available"
	StockStatusUnavailable = "unavailable"
)

type Equipment struct {
	ID            int64
	Name          string
	Brand         string
	EquipmentType string
	PriceCents    int64
	Stock         int64
	Status        string
}

type Food struct {
	ID         int64
	Name       string
	Category   string
	PriceCents int64
	Stock      int64
}

func (q *Queries) GetEquipment(ctx context.Context, id int64) (Equipment, error) {
	var item Equipment
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, brand, equipment_type, price_cents, stock, status
		 FROM equipment WHERE id = ?`,
		id,
	).Scan(&item.ID, &item.Name, &item.Brand, &item.EquipmentType, &item.PriceCents, &item.Stock, &item.Status)
	return item, err
}

// ListEquipmentParams carries optional filters; zero values mean "no filter".
type ListEquipmentParams struct {
	EquipmentType string
	MaxPriceCents int64
	InStockOnly   bool
}

func (q *Queries) ListEquipment(ctx context.Context, arg ListEquipmentParams) ([]Equipment, error) {
	query := `SELECT id, name, brand, equipment_type, price_cents, stock, status FROM equipment`
	var clauses []string
	var args []any
	if arg.EquipmentType != "" {
		clauses = append(clauses, `equipment_type = ?`)
		args = append(args, arg.EquipmentType)
	}
	if arg.MaxPriceCents > 0 {
		clauses = append(clauses, `price_cents <= ?`)
		args = append(args, arg.MaxPriceCents)
	}
	if arg.InStockOnly {
		clauses = append(clauses, `stock > 0`)
	}
	query += whereClause(clauses) + ` ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Equipment
	for rows.Next() {
		var item Equipment
		if err := rows.Scan(&item.ID, &item.Name, &item.Brand, &item.EquipmentType, &item.PriceCents, &item.Stock, &item.Status); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type CreateEquipmentParams struct {
	Name          string
	Brand         string
	EquipmentType string
	PriceCents    int64
	Stock         int64
	Status        string
}

func (q *Queries) CreateEquipment(ctx context.Context, arg CreateEquipmentParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO equipment (name, brand, equipment_type, price_cents, stock, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Brand, arg.EquipmentType, arg.PriceCents, arg.Stock, arg.Status,
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID(result)
}

// DecrementEquipmentStock conditionally takes one unit of stock. It returns
// the number of rows updated: zero means the stock was already exhausted and
// the caller must abort its transaction.
func (q *Queries) DecrementEquipmentStock(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`UPDATE equipment SET stock = stock - 1 WHERE id = ? AND stock > 0`,
		id,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (q *Queries) RestockEquipment(ctx context.Context, id int64, delta int64) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`UPDATE equipment SET stock = stock + ? WHERE id = ?`,
		delta, id,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (q *Queries) GetFood(ctx context.Context, id int64) (Food, error) {
	var item Food
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, category, price_cents, stock FROM cafeteria_food WHERE id = ?`,
		id,
	).Scan(&item.ID, &item.Name, &item.Category, &item.PriceCents, &item.Stock)
	return item, err
}

type ListFoodParams struct {
	Category      string
	MaxPriceCents int64
	InStockOnly   bool
}

func (q *Queries) ListFood(ctx context.Context, arg ListFoodParams) ([]Food, error) {
	query := `SELECT id, name, category, price_cents, stock FROM cafeteria_food`
	var clauses []string
	var args []any
	if arg.Category != "" {
		clauses = append(clauses, `category = ?`)
		args = append(args, arg.Category)
	}
	if arg.MaxPriceCents > 0 {
		clauses = append(clauses, `price_cents <= ?`)
		args = append(args, arg.MaxPriceCents)
	}
	if arg.InStockOnly {
		clauses = append(clauses, `stock > 0`)
	}
	query += whereClause(clauses) + ` ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Food
	for rows.Next() {
		var item Food
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.PriceCents, &item.Stock); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type CreateFoodParams struct {
	Name       string
	Category   string
	PriceCents int64
	Stock      int64
}

func (q *Queries) CreateFood(ctx context.Context, arg CreateFoodParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO cafeteria_food (name, category, price_cents, stock) VALUES (?, ?, ?, ?)`,
		arg.Name, arg.Category, arg.PriceCents, arg.Stock,
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID(result)
}

// DecrementFoodStock has the same conditional semantics as
// DecrementEquipmentStock.
func (q *Queries) DecrementFoodStock(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`UPDATE cafeteria_food SET stock = stock - 1 WHERE id = ? AND stock > 0`,
		id,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (q *Queries) RestockFood(ctx context.Context, id int64, delta int64) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`UPDATE cafeteria_food SET stock = stock + ? WHERE id = ?`,
		delta, id,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
