package storage

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"

	"github.com/example/guriri-dispatch/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

const orderColumns = `id, COALESCE(client_id,''), COALESCE(motoboy_id::text,''),
	COALESCE(valor::text,''), COALESCE(produto_valor_total::text,''), COALESCE(taxa_motoboy::text,''),
	COALESCE(observacoes,''), COALESCE(coleta_lat::text,''), COALESCE(coleta_lng::text,''),
	COALESCE(coleta_endereco,''), COALESCE(payment_ref,''), status, created_at, accepted_at, delivered_at`

func scanOrder(row interface{ Scan(...any) error }) (models.Order, error) {
	var o models.Order
	var accepted, delivered sql.NullTime
	err := row.Scan(&o.ID, &o.ClientID, &o.MotoboyID,
		&o.FreightValue, &o.ProductValue, &o.CourierFee,
		&o.Notes, &o.PickupLat, &o.PickupLng,
		&o.PickupAddress, &o.PaymentRef, &o.Status, &o.CreatedAt, &accepted, &delivered)
	if err != nil {
		return models.Order{}, err
	}
	if accepted.Valid {
		o.AcceptedAt = &accepted.Time
	}
	if delivered.Valid {
		o.DeliveredAt = &delivered.Time
	}
	return o, nil
}

func (p *PostgresStore) SaveOrder(ctx context.Context, o *models.Order) error {
	_, err := p.db.ExecContext(ctx, `INSERT INTO orders
		(id, client_id, motoboy_id, valor, produto_valor_total, taxa_motoboy, observacoes,
		 coleta_lat, coleta_lng, coleta_endereco, payment_ref, status, created_at, accepted_at, delivered_at)
		VALUES ($1, NULLIF($2,''), NULLIF($3,'')::uuid, NULLIF($4,'')::numeric, NULLIF($5,'')::numeric,
		 NULLIF($6,'')::numeric, NULLIF($7,''), NULLIF($8,'')::numeric, NULLIF($9,'')::numeric,
		 NULLIF($10,''), NULLIF($11,''), $12, $13, $14, $15)`,
		o.ID, o.ClientID, o.MotoboyID, o.FreightValue, o.ProductValue, o.CourierFee, o.Notes,
		o.PickupLat, o.PickupLng, o.PickupAddress, o.PaymentRef, o.Status, o.CreatedAt, o.AcceptedAt, o.DeliveredAt)
	return err
}

func (p *PostgresStore) UpdateOrder(ctx context.Context, o *models.Order) error {
	res, err := p.db.ExecContext(ctx, `UPDATE orders SET
		motoboy_id = NULLIF($1,'')::uuid, taxa_motoboy = NULLIF($2,'')::numeric,
		payment_ref = NULLIF($3,''), status = $4, accepted_at = $5, delivered_at = $6
		WHERE id = $7`,
		o.MotoboyID, o.CourierFee, o.PaymentRef, o.Status, o.AcceptedAt, o.DeliveredAt, o.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) OrderByID(ctx context.Context, id string) (models.Order, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	return o, err
}

func (p *PostgresStore) Orders(ctx context.Context) ([]models.Order, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Motoboys(ctx context.Context) ([]models.Motoboy, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, name, online, COALESCE(taxa_padrao::text,'') FROM motoboys ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Motoboy
	for rows.Next() {
		var m models.Motoboy
		if err := rows.Scan(&m.ID, &m.Name, &m.Online, &m.StandardFee); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (p *PostgresStore) MotoboyByID(ctx context.Context, id string) (models.Motoboy, error) {
	var m models.Motoboy
	err := p.db.QueryRowContext(ctx, `SELECT id, name, online, COALESCE(taxa_padrao::text,'') FROM motoboys WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.Online, &m.StandardFee)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Motoboy{}, ErrNotFound
	}
	return m, err
}

func (p *PostgresStore) MotoboySchedules(ctx context.Context, motoboyID string) ([]models.Schedule, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT motoboy_id, dia_semana, turno_manha, turno_tarde, turno_noite
		FROM motoboy_schedules WHERE motoboy_id = $1 ORDER BY dia_semana`, motoboyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Schedule
	for rows.Next() {
		var s models.Schedule
		if err := rows.Scan(&s.MotoboyID, &s.Weekday, &s.Morning, &s.Afternoon, &s.Night); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
