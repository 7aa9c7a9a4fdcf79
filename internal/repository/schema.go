package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS product (
	id          BIGSERIAL PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       DOUBLE PRECISION NOT NULL,
	image       TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS basket (
	id         BIGSERIAL PRIMARY KEY,
	user_id    UUID NOT NULL,
	is_ordered BOOLEAN NOT NULL DEFAULT FALSE
);

-- at most one open basket per user
CREATE UNIQUE INDEX IF NOT EXISTS basket_open_per_user
	ON basket (user_id) WHERE NOT is_ordered;

CREATE TABLE IF NOT EXISTS basket_item (
	id         BIGSERIAL PRIMARY KEY,
	basket_id  BIGINT NOT NULL REFERENCES basket (id),
	product_id BIGINT NOT NULL REFERENCES product (id),
	quantity   BIGINT NOT NULL CHECK (quantity >= 1),
	UNIQUE (basket_id, product_id)
);

CREATE TABLE IF NOT EXISTS orders (
	id          BIGSERIAL PRIMARY KEY,
	user_id     UUID NOT NULL,
	basket_id   BIGINT NOT NULL REFERENCES basket (id),
	status      TEXT NOT NULL DEFAULT 'created',
	address     TEXT NOT NULL,
	comments    TEXT NOT NULL DEFAULT '',
	create_date TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS telegram_link (
	id       BIGSERIAL PRIMARY KEY,
	user_id  UUID NOT NULL UNIQUE,
	link_hex TEXT NOT NULL UNIQUE,
	chat_id  BIGINT
);
`

// EnsureSchema creates the shop tables if they are missing. Safe to run on
// every service start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
