package repository

import "context"

// Schema is applied on startup. Connection uniqueness and the no-self-connect
// rule live here as constraints; the service layer relies on them instead of
// read-then-check.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	phone_number     VARCHAR(32) PRIMARY KEY,
	user_id          VARCHAR(32) NOT NULL,
	name             VARCHAR(200),
	email            VARCHAR(320),
	linkedin_url     TEXT,
	raw_profile_text TEXT,
	category         VARCHAR(16),
	points           INTEGER     NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT users_user_id_key UNIQUE (user_id)
);

CREATE TABLE IF NOT EXISTS connections (
	id              SERIAL PRIMARY KEY,
	connector_phone VARCHAR(32) NOT NULL REFERENCES users (phone_number),
	connectee_phone VARCHAR(32) NOT NULL REFERENCES users (phone_number),
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT uq_connection_once  UNIQUE (connector_phone, connectee_phone),
	CONSTRAINT ck_no_self_connect  CHECK (connector_phone <> connectee_phone)
);

CREATE INDEX IF NOT EXISTS idx_connections_connector ON connections (connector_phone);
CREATE INDEX IF NOT EXISTS idx_connections_connectee ON connections (connectee_phone);
`

func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}
