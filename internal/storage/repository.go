// Package storage provides a generic gorm-backed repository with staged
// writes.
//
// A Repository is a unit of work: reads go straight to the database while
// Add, Update and Delete only queue changes until Save applies them in one
// transaction. Each entity type declares its eager-loaded relations once, in
// Config, and both read paths load exactly that set.
package storage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog/internal/platform/metrics"
	"catalog/internal/platform/observability"
	"catalog/pkg/platform/sentinel"
	strutil "catalog/pkg/platform/strings"
	"catalog/pkg/platform/tx"
)

// Entity is a persisted record identified by ID. Implementations are pointer
// types so SetID can write through.
type Entity[ID comparable] interface {
	GetID() ID
	SetID(ID)
}

// Config declares how one entity type is read.
type Config struct {
	// Name labels metrics and spans. Defaults to the lower-cased type name.
	Name string
	// Relations are the associations eager-loaded by GetByID and GetAll.
	// Nested paths such as "Supplier.Products" are allowed.
	Relations []string
}

var ErrNilEntity = errors.New("entity is nil")

type changeKind int

const (
	changeAdd changeKind = iota
	changeUpdate
	changeDelete
)

func (k changeKind) String() string {
	switch k {
	case changeAdd:
		return "add"
	case changeUpdate:
		return "update"
	default:
		return "delete"
	}
}

type change[T any] struct {
	kind   changeKind
	entity T
}

// Repository is not safe for concurrent use; scope one per request.
type Repository[T Entity[ID], ID comparable] struct {
	db        *gorm.DB
	name      string
	relations []string
	staged    []change[T]
	metrics   *metrics.Metrics
	tracer    *observability.Tracer
}

type settings struct {
	metrics *metrics.Metrics
	tracer  *observability.Tracer
}

type Option func(*settings)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

func WithTracer(t *observability.Tracer) Option {
	return func(s *settings) {
		s.tracer = t
	}
}

// New constructs a Repository for T. Relation names are trimmed, de-duplicated
// and checked against T's gorm schema.
func New[T Entity[ID], ID comparable](db *gorm.DB, cfg Config, opts ...Option) (*Repository[T, ID], error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	elem := reflect.TypeOf((*T)(nil)).Elem()
	if elem.Kind() != reflect.Pointer || elem.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("entity type %s must be a pointer to a struct", elem)
	}

	relations := strutil.DedupeAndTrim(cfg.Relations)
	if err := checkRelations(db, reflect.New(elem.Elem()).Interface(), relations); err != nil {
		return nil, err
	}

	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = observability.NewNoopTracer()
	}

	name := cfg.Name
	if name == "" {
		name = strings.ToLower(elem.Elem().Name())
	}
	return &Repository[T, ID]{
		db:        db,
		name:      name,
		relations: relations,
		metrics:   s.metrics,
		tracer:    s.tracer,
	}, nil
}

func checkRelations(db *gorm.DB, model any, relations []string) error {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}
	for _, rel := range relations {
		head, _, _ := strings.Cut(rel, ".")
		if _, ok := stmt.Schema.Relationships.Relations[head]; !ok {
			return fmt.Errorf("%s has no relation %q", stmt.Schema.Name, head)
		}
	}
	return nil
}

// Relations returns the eager-load set applied to every read.
func (r *Repository[T, ID]) Relations() []string {
	out := make([]string, len(r.relations))
	copy(out, r.relations)
	return out
}

// query is the single read builder. Both read paths go through it so they
// always load the same relations. A transaction in ctx is joined.
func (r *Repository[T, ID]) query(ctx context.Context) *gorm.DB {
	db := r.db
	if t, ok := tx.From(ctx); ok {
		db = t
	}
	q := db.WithContext(ctx)
	for _, rel := range r.relations {
		q = q.Preload(rel)
	}
	return q
}

// GetByID returns the entity with id and its relations. A missing row is
// reported as sentinel.ErrNotFound.
func (r *Repository[T, ID]) GetByID(ctx context.Context, id ID) (entity T, err error) {
	ctx, done := r.observe(ctx, "get_by_id", observability.EntityKeyAttr(id))
	defer func() { done(err) }()

	var rows []T
	if err = r.query(ctx).Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).Limit(1).Find(&rows).Error; err != nil {
		return entity, fmt.Errorf("get %s %v: %w", r.name, id, err)
	}
	if len(rows) == 0 {
		return entity, fmt.Errorf("%s %v: %w", r.name, id, sentinel.ErrNotFound)
	}
	return rows[0], nil
}

// GetAll returns every entity ordered by primary key, with relations.
func (r *Repository[T, ID]) GetAll(ctx context.Context) (rows []T, err error) {
	ctx, done := r.observe(ctx, "get_all")
	defer func() { done(err) }()

	if err = r.query(ctx).Order(clause.OrderByColumn{Column: clause.PrimaryColumn}).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", r.name, err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// Add stages an insert. No identifier is assigned until Save.
func (r *Repository[T, ID]) Add(e T) error {
	return r.stage(changeAdd, e)
}

// Update stages a full-row update of e.
func (r *Repository[T, ID]) Update(e T) error {
	return r.stage(changeUpdate, e)
}

// Delete stages removal of e.
func (r *Repository[T, ID]) Delete(e T) error {
	return r.stage(changeDelete, e)
}

func (r *Repository[T, ID]) stage(kind changeKind, e T) error {
	if isNil(e) {
		return fmt.Errorf("%s %s: %w", kind, r.name, ErrNilEntity)
	}
	r.staged = append(r.staged, change[T]{kind: kind, entity: e})
	return nil
}

// Pending reports how many changes are staged.
func (r *Repository[T, ID]) Pending() int {
	return len(r.staged)
}

// Discard drops every staged change without touching the database.
func (r *Repository[T, ID]) Discard() {
	r.staged = nil
}

// Save applies staged changes in staging order inside one transaction. On
// failure nothing is committed, inserted entities get their zero identifier
// back and the staged changes are kept for a retry. On success the staged
// list is cleared.
func (r *Repository[T, ID]) Save(ctx context.Context) (err error) {
	if len(r.staged) == 0 {
		return nil
	}
	ctx, done := r.observe(ctx, "save", observability.StagedCountAttr(len(r.staged)))
	defer func() { done(err) }()

	var zero ID
	assigned := make([]bool, len(r.staged))
	for i, c := range r.staged {
		assigned[i] = c.kind == changeAdd && c.entity.GetID() == zero
	}

	err = tx.Run(ctx, r.db, func(_ context.Context, db *gorm.DB) error {
		for _, c := range r.staged {
			if err := r.apply(db, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		for i, c := range r.staged {
			if assigned[i] {
				c.entity.SetID(zero)
			}
		}
		return fmt.Errorf("save %s: %w", r.name, err)
	}
	r.staged = nil
	return nil
}

func (r *Repository[T, ID]) apply(db *gorm.DB, c change[T]) error {
	var zero ID
	switch c.kind {
	case changeAdd:
		return db.Omit(clause.Associations).Create(c.entity).Error
	case changeUpdate:
		if c.entity.GetID() == zero {
			return fmt.Errorf("update %s without identifier: %w", r.name, sentinel.ErrInvalidState)
		}
		res := db.Model(c.entity).Omit(clause.Associations).Select("*").Updates(c.entity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("update %s %v: %w", r.name, c.entity.GetID(), sentinel.ErrNotFound)
		}
	case changeDelete:
		if c.entity.GetID() == zero {
			return fmt.Errorf("delete %s without identifier: %w", r.name, sentinel.ErrInvalidState)
		}
		res := db.Delete(c.entity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete %s %v: %w", r.name, c.entity.GetID(), sentinel.ErrNotFound)
		}
	}
	return nil
}

// observe opens a span and returns a func that closes it and records metrics.
func (r *Repository[T, ID]) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := r.tracer.StartRepositoryOp(ctx, r.name, op, r.relations, attrs...)
	return ctx, func(err error) {
		r.tracer.RecordError(span, err)
		span.End()
		r.metrics.ObserveRepositoryOp(r.name, op, outcome(err), time.Since(start))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, sentinel.ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
