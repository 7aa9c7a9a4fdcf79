package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
)

// PostgresStore implements every repository over one pgx pool. Each
// exported method is a single logical operation: it either runs one
// statement or wraps its statements in one transaction.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// --- products ---

func (s *PostgresStore) Create(ctx context.Context, p *domain.Product) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO product (title, description, price, image, type)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.Title, p.Description, p.Price, p.Image, p.Type,
	).Scan(&p.ID)
}

func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, description, price, image, type FROM product WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Image, &p.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	query := `SELECT id, title, description, price, image, type FROM product WHERE TRUE`
	args := []any{}
	if f.PriceFrom != nil {
		args = append(args, *f.PriceFrom)
		query += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if f.PriceTo != nil {
		args = append(args, *f.PriceTo)
		query += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	if f.Type != nil {
		args = append(args, *f.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	query += " ORDER BY id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Image, &p.Type); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM product WHERE id = $1`, id)
	return err
}

// --- baskets ---

func (s *PostgresStore) GetOpen(ctx context.Context, userID uuid.UUID) (*domain.Basket, error) {
	var b domain.Basket
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, is_ordered FROM basket WHERE user_id = $1 AND NOT is_ordered`, userID,
	).Scan(&b.ID, &b.UserID, &b.Ordered)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.Items, err = s.loadItems(ctx, b.ID); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *PostgresStore) CreateOpen(ctx context.Context, userID uuid.UUID) error {
	// The partial unique index makes concurrent first accesses collapse
	// into one open basket.
	_, err := s.pool.Exec(ctx,
		`INSERT INTO basket (user_id) VALUES ($1)
		 ON CONFLICT (user_id) WHERE NOT is_ordered DO NOTHING`, userID)
	return err
}

func (s *PostgresStore) UpsertItem(ctx context.Context, basketID, productID int64) (*domain.BasketItem, error) {
	item := domain.BasketItem{BasketID: basketID, ProductID: productID}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO basket_item (basket_id, product_id, quantity) VALUES ($1, $2, 1)
		 ON CONFLICT (basket_id, product_id)
		 DO UPDATE SET quantity = basket_item.quantity + 1
		 RETURNING id, quantity`,
		basketID, productID,
	).Scan(&item.ID, &item.Quantity)
	if err != nil {
		return nil, err
	}
	if item.Product, err = s.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *PostgresStore) DecrementItem(ctx context.Context, basketID, productID int64) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id, quantity int64
	err = tx.QueryRow(ctx,
		`SELECT id, quantity FROM basket_item
		 WHERE basket_id = $1 AND product_id = $2 FOR UPDATE`,
		basketID, productID,
	).Scan(&id, &quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		// removing a product that was never added is a no-op
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	quantity--
	if quantity == 0 {
		_, err = tx.Exec(ctx, `DELETE FROM basket_item WHERE id = $1`, id)
	} else {
		_, err = tx.Exec(ctx, `UPDATE basket_item SET quantity = $2 WHERE id = $1`, id, quantity)
	}
	if err != nil {
		return 0, err
	}
	return quantity, tx.Commit(ctx)
}

func (s *PostgresStore) loadBasket(ctx context.Context, basketID int64) (*domain.Basket, error) {
	var b domain.Basket
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, is_ordered FROM basket WHERE id = $1`, basketID,
	).Scan(&b.ID, &b.UserID, &b.Ordered)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.Items, err = s.loadItems(ctx, b.ID); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *PostgresStore) loadItems(ctx context.Context, basketID int64) ([]domain.BasketItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT bi.id, bi.basket_id, bi.product_id, bi.quantity,
		        p.id, p.title, p.description, p.price, p.image, p.type
		 FROM basket_item bi
		 JOIN product p ON p.id = bi.product_id
		 WHERE bi.basket_id = $1
		 ORDER BY bi.id`, basketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.BasketItem{}
	for rows.Next() {
		var it domain.BasketItem
		var p domain.Product
		if err := rows.Scan(&it.ID, &it.BasketID, &it.ProductID, &it.Quantity,
			&p.ID, &p.Title, &p.Description, &p.Price, &p.Image, &p.Type); err != nil {
			return nil, err
		}
		it.Product = &p
		items = append(items, it)
	}
	return items, rows.Err()
}

// --- orders ---

func (s *PostgresStore) CreateOrder(ctx context.Context, userID uuid.UUID, basketID int64, address, comments string) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE basket SET is_ordered = TRUE WHERE id = $1 AND NOT is_ordered`, basketID)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("basket %d is already ordered", basketID)
	}

	var orderID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, basket_id, status, address, comments)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		userID, basketID, domain.StatusCreated, address, comments,
	).Scan(&orderID)
	if err != nil {
		return 0, err
	}
	return orderID, tx.Commit(ctx)
}

func (s *PostgresStore) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, basket_id, status, address, comments, create_date
		 FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.UserID, &o.BasketID, &o.Status, &o.Address, &o.Comments, &o.CreateDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Basket, err = s.loadBasket(ctx, o.BasketID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, id int64, status domain.Status) error {
	tag, err := s.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return s.listOrders(ctx, `WHERE user_id = $1`, userID)
}

func (s *PostgresStore) ListAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.listOrders(ctx, ``)
}

func (s *PostgresStore) listOrders(ctx context.Context, where string, args ...any) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, basket_id, status, address, comments, create_date
		 FROM orders `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.BasketID, &o.Status, &o.Address, &o.Comments, &o.CreateDate); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Basket, err = s.loadBasket(ctx, out[i].BasketID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PostgresStore) TopProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT p.id, p.title, p.description, p.price, p.image, p.type
		 FROM product p
		 JOIN basket_item bi ON bi.product_id = p.id
		 JOIN basket b ON b.id = bi.basket_id
		 JOIN orders o ON o.basket_id = b.id
		 GROUP BY p.id
		 ORDER BY count(o.id) DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Image, &p.Type); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// --- telegram links ---

func (s *PostgresStore) GetLinkByUser(ctx context.Context, userID uuid.UUID) (*domain.TelegramLink, error) {
	return s.scanLink(s.pool.QueryRow(ctx,
		`SELECT id, user_id, link_hex, chat_id FROM telegram_link WHERE user_id = $1`, userID))
}

func (s *PostgresStore) CreateLink(ctx context.Context, userID uuid.UUID, linkHex string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO telegram_link (user_id, link_hex) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO NOTHING`, userID, linkHex)
	return err
}

func (s *PostgresStore) GetLinkByToken(ctx context.Context, linkHex string) (*domain.TelegramLink, error) {
	return s.scanLink(s.pool.QueryRow(ctx,
		`SELECT id, user_id, link_hex, chat_id FROM telegram_link WHERE link_hex = $1`, linkHex))
}

func (s *PostgresStore) SetLinkChatID(ctx context.Context, id int64, chatID int64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE telegram_link SET chat_id = $2 WHERE id = $1`, id, chatID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) scanLink(row pgx.Row) (*domain.TelegramLink, error) {
	var l domain.TelegramLink
	err := row.Scan(&l.ID, &l.UserID, &l.LinkHex, &l.ChatID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}
