// Package factory is the orchestration surface of the chassis subsystem.
// Callers go through it for every operation: single and batch VIN
// issuance, prefix-resolved issuance, manufacturer chassis numbers,
// random fixtures, sequence continuation and validation.
//
// The factory owns no global state. Its sequence store, prefix database,
// logger, metrics and audit publisher arrive by injection, so independent
// factories (one per test, say) never share issuance history unless
// explicitly wired to the same store.
package factory

import (
	"context"
	"io"
	"log/slog"

	"chassisd/internal/audit"
	"chassisd/internal/chassis/codec"
	"chassisd/internal/chassis/generator"
	"chassisd/internal/chassis/metrics"
	"chassisd/internal/chassis/models"
	"chassisd/internal/chassis/prefixdb"
	"chassisd/internal/chassis/store/sequence"
	"chassisd/internal/chassis/validator"
	dErrors "chassisd/pkg/domain-errors"
)

// chassisCounterField is the template placeholder the factory feeds from
// the sequence store.
const chassisCounterField = "serial"

// Factory orchestrates identifier generation and validation.
type Factory struct {
	store     sequence.Store
	prefixes  *prefixdb.DB
	vins      *generator.VIN
	chassis   *generator.Chassis
	validator *validator.Validator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	audit     *audit.Publisher
}

// Option customizes a Factory.
type Option func(*Factory)

// WithLogger attaches a structured logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) { f.logger = logger }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Factory) { f.metrics = m }
}

// WithAudit attaches an issuance audit publisher.
func WithAudit(p *audit.Publisher) Option {
	return func(f *Factory) { f.audit = p }
}

// WithChassisBounds overrides the manufacturer chassis length bounds.
func WithChassisBounds(minLen, maxLen int) Option {
	return func(f *Factory) {
		g, err := generator.NewChassisWithBounds(minLen, maxLen)
		if err == nil {
			f.chassis = g
		}
	}
}

// New builds a factory around the given sequence store and prefix
// database.
func New(store sequence.Store, prefixes *prefixdb.DB, opts ...Option) (*Factory, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInvalidParameter, "sequence store is required")
	}
	if prefixes == nil {
		prefixes = prefixdb.New()
	}
	f := &Factory{
		store:     store,
		prefixes:  prefixes,
		vins:      generator.NewVIN(),
		chassis:   generator.NewChassis(),
		validator: validator.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// VINParams carries the components of a VIN issuance request. A nil
// Sequence asks the factory to allocate from the sequence store; a
// non-nil one bypasses the store entirely (the caller owns uniqueness).
type VINParams struct {
	WMI      string
	VDS      string
	Year     int
	Plant    byte
	Sequence *int64
}

func (p VINParams) sequenceKey() (models.SequenceKey, error) {
	yearCode, err := yearCodeOf(p.Year)
	if err != nil {
		return models.SequenceKey{}, err
	}
	return models.SequenceKey{WMI: p.WMI, VDS: p.VDS, YearCode: yearCode, PlantCode: p.Plant}, nil
}

// CreateVIN issues one VIN.
func (f *Factory) CreateVIN(ctx context.Context, p VINParams) (models.Identifier, error) {
	ids, err := f.CreateVINBatch(ctx, p, 1)
	if err != nil {
		return models.Identifier{}, err
	}
	return ids[0], nil
}

// CreateVINBatch issues quantity VINs with consecutive sequence numbers.
// When the store allocates, the whole batch is one logical reservation:
// concurrent callers on the same key receive disjoint ranges.
func (f *Factory) CreateVINBatch(ctx context.Context, p VINParams, quantity int) ([]models.Identifier, error) {
	if quantity < 1 {
		return nil, f.fail(dErrors.New(dErrors.CodeInvalidParameter, "quantity must be positive"))
	}

	first, err := f.vinSequenceStart(ctx, p, quantity)
	if err != nil {
		return nil, f.fail(err)
	}

	ids, err := f.vins.GenerateBatch(p.WMI, p.VDS, p.Year, p.Plant, first, quantity)
	if err != nil {
		return nil, f.fail(err)
	}

	key, _ := p.sequenceKey()
	f.recordIssued(ctx, models.KindVIN, audit.Event{
		Action:      audit.ActionVINIssued,
		SequenceKey: key.String(),
		Identifier:  ids[0].Value,
		Quantity:    quantity,
	})
	f.logger.InfoContext(ctx, "vins issued",
		"key", key.String(), "first_sequence", first, "quantity", quantity)
	return ids, nil
}

func (f *Factory) vinSequenceStart(ctx context.Context, p VINParams, quantity int) (int64, error) {
	if p.Sequence != nil {
		return *p.Sequence, nil
	}
	key, err := p.sequenceKey()
	if err != nil {
		return 0, err
	}
	return f.store.Allocate(ctx, key.String(), quantity)
}

// CreateVINFromPrefix resolves a real manufacturer prefix and issues
// against it. The query is tried as an exact code, then as a manufacturer
// name, then as a country. The first match wins.
func (f *Factory) CreateVINFromPrefix(ctx context.Context, query string, p VINParams, quantity int) ([]models.Identifier, error) {
	rec, ok := f.resolvePrefix(query)
	if !ok {
		return nil, f.fail(dErrors.Newf(dErrors.CodeUnknownManufacturer, "no manufacturer prefix matches %q", query))
	}
	p.WMI = rec.Code
	return f.CreateVINBatch(ctx, p, quantity)
}

func (f *Factory) resolvePrefix(query string) (prefixdb.Record, bool) {
	if rec, ok := f.prefixes.LookupCode(query); ok {
		return rec, true
	}
	if recs := f.prefixes.SearchManufacturer(query); len(recs) > 0 {
		return recs[0], true
	}
	if recs := f.prefixes.SearchCountry(query); len(recs) > 0 {
		return recs[0], true
	}
	return prefixdb.Record{}, false
}

// PrefixDatabase exposes the read-only prefix registry for lookups.
func (f *Factory) PrefixDatabase() *prefixdb.DB { return f.prefixes }

// ChassisParams carries a manufacturer chassis issuance request. The
// template must contain a {serial:N} placeholder; the factory fills it
// from the sequence store (keyed by the template itself) unless Serial
// pins an explicit starting value.
type ChassisParams struct {
	Template string
	Fields   map[string]int64
	Serial   *int64
}

// CreateChassis issues one manufacturer chassis number.
func (f *Factory) CreateChassis(ctx context.Context, p ChassisParams) (models.Identifier, error) {
	ids, err := f.CreateChassisBatch(ctx, p, 1)
	if err != nil {
		return models.Identifier{}, err
	}
	return ids[0], nil
}

// CreateChassisBatch issues quantity chassis numbers with consecutive
// serials.
func (f *Factory) CreateChassisBatch(ctx context.Context, p ChassisParams, quantity int) ([]models.Identifier, error) {
	if quantity < 1 {
		return nil, f.fail(dErrors.New(dErrors.CodeInvalidParameter, "quantity must be positive"))
	}
	tmpl, err := generator.ParseTemplate(p.Template)
	if err != nil {
		return nil, f.fail(err)
	}
	if !hasField(tmpl, chassisCounterField) {
		return nil, f.fail(dErrors.Newf(dErrors.CodeInvalidParameter,
			"template must contain a {%s:N} placeholder", chassisCounterField))
	}

	first := int64(0)
	if p.Serial != nil {
		first = *p.Serial
	} else {
		first, err = f.store.Allocate(ctx, "tpl:"+p.Template, quantity)
		if err != nil {
			return nil, f.fail(err)
		}
	}

	ids, err := f.chassis.GenerateBatch(tmpl, p.Fields, chassisCounterField, first, quantity)
	if err != nil {
		return nil, f.fail(err)
	}

	f.recordIssued(ctx, models.KindManufacturer, audit.Event{
		Action:      audit.ActionChassisIssued,
		SequenceKey: "tpl:" + p.Template,
		Identifier:  ids[0].Value,
		Quantity:    quantity,
	})
	f.logger.InfoContext(ctx, "chassis numbers issued",
		"template", p.Template, "first_serial", first, "quantity", quantity)
	return ids, nil
}

// Generate serves the document pipeline's generation request block.
// ensure_unique=false skips the durable store and numbers the batch from 1,
// for dry runs that must not consume real issuance history.
func (f *Factory) Generate(ctx context.Context, req models.GenerationRequest) ([]models.Identifier, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, f.fail(err)
	}
	if !req.Generate {
		return nil, nil
	}
	p := VINParams{
		WMI:   req.ManufacturerCode,
		VDS:   req.Descriptor,
		Year:  req.Year,
		Plant: req.PlantCode[0],
	}
	if !req.Unique() {
		one := int64(1)
		p.Sequence = &one
	}
	return f.CreateVINBatch(ctx, p, req.Quantity)
}

// Validate checks an identifier of either family. Verdicts, including
// invalid ones, are results rather than errors.
func (f *Factory) Validate(input string) models.ValidationResult {
	res := f.validator.Validate(input)
	if f.metrics != nil {
		outcome := "invalid"
		if res.Valid {
			outcome = "valid"
		}
		f.metrics.Validations.WithLabelValues(outcome).Inc()
	}
	return res
}

// ResetSequence drops the counter for a key. Administrative action: the
// non-collision guarantee does not survive it.
func (f *Factory) ResetSequence(ctx context.Context, key string) error {
	if err := f.store.Reset(ctx, key); err != nil {
		return err
	}
	if f.metrics != nil {
		f.metrics.SequenceResets.Inc()
	}
	f.emitAudit(ctx, audit.Event{Action: audit.ActionSequenceReset, SequenceKey: key})
	f.logger.WarnContext(ctx, "sequence counter reset", "key", key)
	return nil
}

// PeekSequence returns the last issued value for a key.
func (f *Factory) PeekSequence(ctx context.Context, key string) (int64, error) {
	return f.store.Peek(ctx, key)
}

func (f *Factory) recordIssued(ctx context.Context, kind models.Kind, e audit.Event) {
	if f.metrics != nil {
		f.metrics.IdentifiersIssued.WithLabelValues(string(kind)).Add(float64(e.Quantity))
	}
	f.emitAudit(ctx, e)
}

func (f *Factory) emitAudit(ctx context.Context, e audit.Event) {
	if f.audit == nil {
		return
	}
	if err := f.audit.Emit(ctx, e); err != nil {
		f.logger.ErrorContext(ctx, "audit emit failed", "error", err)
	}
}

// fail counts a generation failure by code and passes the error through.
func (f *Factory) fail(err error) error {
	if f.metrics != nil {
		f.metrics.GenerationFailures.WithLabelValues(string(dErrors.CodeOf(err))).Inc()
	}
	return err
}

func yearCodeOf(year int) (byte, error) {
	return codec.EncodeYear(year)
}

func hasField(tmpl generator.Template, name string) bool {
	for _, field := range tmpl.Fields() {
		if field == name {
			return true
		}
	}
	return false
}
