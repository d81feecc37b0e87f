package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eugenenazirov/pixels-conf/internal/settings"
)

var validate = validator.New()

// Resolve reads every writer setting from props and store. It fails on the
// first malformed value; absent schemas are not an error.
func Resolve(props settings.Properties, store settings.Store) (Options, error) {
	var (
		opts Options
		err  error
	)

	if opts.RowIndexStride, err = settings.RowIndexStride.Long(props, store); err != nil {
		return Options{}, err
	}
	if opts.StripeSize, err = settings.StripeSize.Long(props, store); err != nil {
		return Options{}, err
	}
	if opts.BlockSize, err = settings.BlockSize.Long(props, store); err != nil {
		return Options{}, err
	}
	if opts.BlockReplication, err = settings.BlockReplication.Long(props, store); err != nil {
		return Options{}, err
	}
	if opts.BlockPadding, err = settings.BlockPadding.Bool(props, store); err != nil {
		return Options{}, err
	}
	if opts.EncodingLevel, err = settings.EncodingLevel.EncodingLevel(props, store); err != nil {
		return Options{}, err
	}
	if opts.CompressionStrategy, err = settings.CompressionStrategy.Long(props, store); err != nil {
		return Options{}, err
	}

	opts.ShuffleKeySchema, opts.HasShuffleKeySchema = settings.MapredShuffleKeySchema.Raw(props, store)
	opts.ShuffleValueSchema, opts.HasShuffleValueSchema = settings.MapredShuffleValueSchema.Raw(props, store)
	opts.OutputSchema, opts.HasOutputSchema = settings.MapredOutputSchema.Raw(props, store)

	return opts, nil
}

// Validate checks sizes are positive and a stripe fits inside a block.
func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "ltefield":
		return fmt.Sprintf("%s (%v) must not exceed %s", fe.Field(), fe.Value(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be at most %s, got %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
