package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/products-hexagonal-api/internal/domain"
)

const productsTable = "products"

// Schema creates the products table when it does not exist yet
const Schema = `CREATE TABLE IF NOT EXISTS products (
	product_id TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	price      NUMERIC(19, 2) NOT NULL,
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertSuffix = "ON CONFLICT (product_id) DO UPDATE SET " +
	"name = EXCLUDED.name, price = EXCLUDED.price, status = EXCLUDED.status, updated_at = now()"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ProductRepository is a PostgreSQL implementation of domain.ProductRepository
type ProductRepository struct {
	db     *sql.DB
	tracer trace.Tracer
	logger *slog.Logger
}

var _ domain.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(db *sql.DB, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		tracer: tracer,
		logger: logger,
	}
}

// EnsureSchema creates the products table if needed
func (r *ProductRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return errors.Wrap(err, "creating products table")
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "PostgresProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	row := findByIDQuery(id).RunWith(r.db).QueryRowContext(ctx)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.String("product_id", id.String()),
		)
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, r.fail(span, errors.Wrapf(err, "selecting product %s", id))
	}

	span.SetStatus(codes.Ok, "Product found")
	return product, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "PostgresProductRepository.FindAll")
	defer span.End()

	rows, err := findAllQuery().RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, r.fail(span, errors.Wrap(err, "selecting products"))
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, r.fail(span, errors.Wrap(err, "scanning product"))
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(span, errors.Wrap(err, "iterating products"))
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	r.logger.InfoContext(ctx, "Products retrieved from database",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "PostgresProductRepository.Save")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", product.ID().String()))

	if _, err := saveQuery(product).RunWith(r.db).ExecContext(ctx); err != nil {
		return nil, r.fail(span, errors.Wrapf(err, "upserting product %s", product.ID()))
	}

	r.logger.InfoContext(ctx, "Product saved in database",
		slog.String("product_id", product.ID().String()),
	)

	span.SetStatus(codes.Ok, "Product saved successfully")
	return product.Clone(), nil
}

func (r *ProductRepository) DeleteByID(ctx context.Context, id domain.ProductID) error {
	ctx, span := r.tracer.Start(ctx, "PostgresProductRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id.String()))

	if _, err := deleteQuery(id).RunWith(r.db).ExecContext(ctx); err != nil {
		return r.fail(span, errors.Wrapf(err, "deleting product %s", id))
	}

	r.logger.InfoContext(ctx, "Product deleted from database",
		slog.String("product_id", id.String()),
	)

	span.SetStatus(codes.Ok, "Product deleted")
	return nil
}

func (r *ProductRepository) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func selectProducts() squirrel.SelectBuilder {
	return psql.Select("product_id", "name", "price", "status").From(productsTable)
}

func findByIDQuery(id domain.ProductID) squirrel.SelectBuilder {
	return selectProducts().Where(squirrel.Eq{"product_id": id.String()})
}

func findAllQuery() squirrel.SelectBuilder {
	return selectProducts().OrderBy("created_at", "product_id")
}

func saveQuery(p *domain.Product) squirrel.InsertBuilder {
	return psql.Insert(productsTable).
		Columns("product_id", "name", "price", "status").
		Values(p.ID().String(), p.Name(), p.Price().Amount(), p.Status().String()).
		Suffix(upsertSuffix)
}

func deleteQuery(id domain.ProductID) squirrel.DeleteBuilder {
	return psql.Delete(productsTable).Where(squirrel.Eq{"product_id": id.String()})
}

func scanProduct(scanner squirrel.RowScanner) (*domain.Product, error) {
	var (
		id, name, rawStatus string
		price               decimal.Decimal
	)
	if err := scanner.Scan(&id, &name, &price, &rawStatus); err != nil {
		return nil, err
	}

	status, err := domain.ParseProductStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	return domain.RestoreProduct(domain.ProductIDOf(id), name, domain.NewMoney(price), status), nil
}
