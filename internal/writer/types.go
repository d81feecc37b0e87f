package writer

import "github.com/eugenenazirov/pixels-conf/internal/encoding"

// Options is the resolved writer configuration for one table. Schema fields
// are empty when no override supplied them; the matching Has flag tells the
// two cases apart.
type Options struct {
	RowIndexStride      int64          `json:"rowIndexStride" yaml:"row_index_stride" validate:"gt=0"`
	StripeSize          int64          `json:"stripeSize" yaml:"stripe_size" validate:"gt=0,ltefield=BlockSize"`
	BlockSize           int64          `json:"blockSize" yaml:"block_size" validate:"gt=0"`
	BlockReplication    int64          `json:"blockReplication" yaml:"block_replication" validate:"gt=0,lte=32767"`
	BlockPadding        bool           `json:"blockPadding" yaml:"block_padding"`
	EncodingLevel       encoding.Level `json:"encodingLevel" yaml:"encoding_level"`
	CompressionStrategy int64          `json:"compressionStrategy" yaml:"compression_strategy" validate:"gte=0"`

	ShuffleKeySchema    string `json:"shuffleKeySchema,omitempty" yaml:"shuffle_key_schema,omitempty"`
	HasShuffleKeySchema bool   `json:"-" yaml:"-"`

	ShuffleValueSchema    string `json:"shuffleValueSchema,omitempty" yaml:"shuffle_value_schema,omitempty"`
	HasShuffleValueSchema bool   `json:"-" yaml:"-"`

	OutputSchema    string `json:"outputSchema,omitempty" yaml:"output_schema,omitempty"`
	HasOutputSchema bool   `json:"-" yaml:"-"`
}
