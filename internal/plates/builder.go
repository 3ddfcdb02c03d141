package plates

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"

	"ysianalyzer/internal/dataprocessing"
	apierrors "ysianalyzer/internal/errors"
	"ysianalyzer/pkg/contracts/domain"
)

// DefaultPlateCount is used when the form carries no plate count.
const DefaultPlateCount = 1

// StructValidator validates tagged structs.
type StructValidator interface {
	ValidateStruct(v interface{}) error
}

// UploadValidator checks an uploaded file before it is read.
type UploadValidator interface {
	ValidateUpload(field string, fh *multipart.FileHeader) error
}

// BuilderConfig holds configuration options for the Builder.
type BuilderConfig struct {
	MaxPlates int
}

// Builder turns a submitted analysis form into plate entries.
type Builder struct {
	logger    *slog.Logger
	validator StructValidator
	uploads   UploadValidator
	maxPlates int
}

// NewBuilder creates a plate builder. A nil uploads validator accepts every
// file.
func NewBuilder(logger *slog.Logger, validator StructValidator, uploads UploadValidator, config BuilderConfig) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxPlates <= 0 {
		config.MaxPlates = 100
	}
	return &Builder{
		logger:    logger.With(slog.String("component", "plate_builder")),
		validator: validator,
		uploads:   uploads,
		maxPlates: config.MaxPlates,
	}
}

// MaxPlates returns the largest plate count the builder accepts.
func (b *Builder) MaxPlates() int {
	return b.maxPlates
}

// ParseForm reads and validates the text fields of the form.
func (b *Builder) ParseForm(form *multipart.Form) (*PlateForm, error) {
	if form == nil {
		return nil, apierrors.NewValidationError("request is not a multipart form")
	}

	count := DefaultPlateCount
	if raw := strings.TrimSpace(formValue(form, FieldPlateCount)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, apierrors.ErrValidation(FieldPlateCount, fmt.Sprintf("%s must be a whole number", FieldPlateCount))
		}
		count = n
	}
	if count < 0 || count > b.maxPlates {
		return nil, apierrors.ErrValidation(FieldPlateCount,
			fmt.Sprintf("%s must be between 0 and %d", FieldPlateCount, b.maxPlates))
	}

	pf := &PlateForm{PlateCount: count, Plates: make([]PlateFields, count)}
	for i := 0; i < count; i++ {
		fields := PlateFields{
			Index:      i,
			SampleName: strings.TrimSpace(formValue(form, SampleNameField(i))),
			Wells:      make(map[string]string),
		}
		for _, well := range domain.PlateWells() {
			if label := strings.TrimSpace(formValue(form, WellField(i, well))); label != "" {
				fields.Wells[string(well)] = label
			}
		}
		pf.Plates[i] = fields
	}

	if b.validator != nil {
		if err := b.validator.ValidateStruct(pf); err != nil {
			return nil, err
		}
	}
	return pf, nil
}

// Build parses the form and loads every plate's uploads. Plates keep their
// form order; active wells keep grid order. A plate without a Bioanalysis
// upload is returned with a nil Bio table.
func (b *Builder) Build(ctx context.Context, form *multipart.Form) ([]domain.PlateEntry, error) {
	pf, err := b.ParseForm(form)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.PlateEntry, 0, pf.PlateCount)
	for _, fields := range pf.Plates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry := domain.PlateEntry{
			Index:      fields.Index,
			SampleName: fields.SampleName,
		}
		for _, well := range domain.PlateWells() {
			if label, ok := fields.Wells[string(well)]; ok {
				entry.ActiveWells = append(entry.ActiveWells, domain.WellAssignment{WellID: well, Label: label})
			}
		}

		if entry.Bio, err = b.loadUpload(ctx, form, BioFileField(fields.Index)); err != nil {
			return nil, err
		}
		if entry.ISE, err = b.loadUpload(ctx, form, ISEFileField(fields.Index)); err != nil {
			return nil, err
		}

		b.logger.DebugContext(ctx, "plate built",
			slog.Int("plate", entry.DisplayNumber()),
			slog.Int("active_wells", len(entry.ActiveWells)),
			slog.Bool("bio", entry.Bio != nil),
			slog.Bool("ise", entry.ISE != nil))
		entries = append(entries, entry)
	}
	return entries, nil
}

// loadUpload reads the table uploaded in field, or returns nil if nothing
// was uploaded there.
func (b *Builder) loadUpload(ctx context.Context, form *multipart.Form, field string) (*domain.RawTable, error) {
	fh := formFile(form, field)
	if fh == nil {
		return nil, nil
	}
	if b.uploads != nil {
		if err := b.uploads.ValidateUpload(field, fh); err != nil {
			return nil, err
		}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apierrors.InvalidUpload(field, err)
	}
	defer f.Close()

	table, err := dataprocessing.LoadRawTable(f)
	if err != nil {
		var missing *dataprocessing.MissingColumnsError
		if stderrors.As(err, &missing) {
			return nil, apierrors.MissingColumns(field, missing.Columns)
		}
		return nil, apierrors.InvalidUpload(field, err)
	}

	b.logger.DebugContext(ctx, "upload loaded",
		slog.String("field", field),
		slog.String("filename", fh.Filename),
		slog.Int("rows", table.Len()))
	return table, nil
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// formFile returns the first non-empty file part of field. Browsers send an
// empty part with no filename when no file was chosen.
func formFile(form *multipart.Form, field string) *multipart.FileHeader {
	for _, fh := range form.File[field] {
		if fh.Filename != "" || fh.Size > 0 {
			return fh
		}
	}
	return nil
}
