package settings

import (
	"fmt"

	"github.com/eugenenazirov/pixels-conf/internal/encoding"
)

var (
	// RowIndexStride is the number of rows covered by one index entry.
	RowIndexStride = Setting{
		key:       "pixels.row.index.stride",
		legacyKey: "hive.exec.pixels.default.row.index.stride",
		def:       int64(10000),
		kind:      KindLong,
		description: "Define the default Pixels index stride in number of rows. (Stride is the\n" +
			" number of rows n index entry represents.)",
	}
	// StripeSize is the target stripe size in bytes.
	StripeSize = Setting{
		key:         "pixels.stripe.size",
		legacyKey:   "hive.exec.pixels.default.stripe.size",
		def:         int64(64 * 1024 * 1024),
		kind:        KindLong,
		description: "Define the default Pixels stripe size, in bytes.",
	}
	// BlockSize is the file system block size for Pixels files.
	BlockSize = Setting{
		key:         "pixels.block.size",
		legacyKey:   "hive.exec.pixels.default.block.size",
		def:         int64(256 * 1024 * 1024),
		kind:        KindLong,
		description: "Define the default file system block size for Pixels files.",
	}
	// BlockReplication is the file system block replication. It shares its
	// legacy key with BlockSize; the alias has been published that way and is
	// kept for compatibility.
	BlockReplication = Setting{
		key:         "pixels.block.replication",
		legacyKey:   "hive.exec.pixels.default.block.size",
		def:         int64(3),
		kind:        KindLong,
		description: "Define the default file system block replication for Pixels files.",
	}
	// BlockPadding pads stripes to block boundaries when true.
	BlockPadding = Setting{
		key:         "pixels.block.padding",
		legacyKey:   "hive.exec.pixels.default.block.padding",
		def:         true,
		kind:        KindBoolean,
		description: "Define whether stripes should be padded to the HDFS block boundaries.",
	}
	// EncodingLevel selects the lightweight column encoding level.
	EncodingLevel = Setting{
		key:       "pixels.encoding.level",
		legacyKey: "hive.exec.pixels.encoding.level",
		def:       encoding.EL2,
		kind:      KindEncodingLevel,
		description: "Define the encoding level to use while writing data. Changing this\n" +
			"will only affect the light weight encoding for columns. This\n" +
			"flag will not change the compression level of higher level\n" +
			"compression codec (like ZLIB).",
	}
	// CompressionStrategy selects the compression strategy of the codec.
	CompressionStrategy = Setting{
		key:       "pixels.compression.strategy",
		legacyKey: "hive.exec.pixels.compression.strategy",
		def:       int64(1),
		kind:      KindLong,
		description: "Define the compression strategy to use while writing data.\n" +
			"This changes the compression level of higher level compression\n" +
			"codec (like ZLIB).",
	}
	// MapredShuffleKeySchema is the MapReduce shuffle key schema. It has no default.
	MapredShuffleKeySchema = Setting{
		key:  "pixels.mapred.map.output.key.schema",
		kind: KindString,
		description: "The schema of the MapReduce shuffle key. The values are\n" +
			"interpreted using TypeDescription.fromString.",
	}
	// MapredShuffleValueSchema is the MapReduce shuffle value schema. It has no default.
	MapredShuffleValueSchema = Setting{
		key:  "pixels.mapred.map.output.value.schema",
		kind: KindString,
		description: "The schema of the MapReduce shuffle value. The values are\n" +
			"interpreted using TypeDescription.fromString.",
	}
	// MapredOutputSchema is the schema written by MapReduce jobs. It has no default.
	MapredOutputSchema = Setting{
		key:  "pixels.mapred.output.schema",
		kind: KindString,
		description: "The schema that the user desires to write. The values are\n" +
			"interpreted using TypeDescription.fromString.",
	}
)

// registry lists every setting in declaration order.
var registry = []Setting{
	RowIndexStride,
	StripeSize,
	BlockSize,
	BlockReplication,
	BlockPadding,
	EncodingLevel,
	CompressionStrategy,
	MapredShuffleKeySchema,
	MapredShuffleValueSchema,
	MapredOutputSchema,
}

var byKey = buildIndex(registry)

func buildIndex(all []Setting) map[string]int {
	index := make(map[string]int, len(all))
	for i, s := range all {
		if _, dup := index[s.key]; dup {
			panic(fmt.Sprintf("duplicate registration of setting key %q", s.key))
		}
		index[s.key] = i
	}
	return index
}

// All returns every registered setting in declaration order. The returned
// slice is a copy.
func All() []Setting {
	out := make([]Setting, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a setting by its canonical key.
func Lookup(key string) (Setting, error) {
	i, ok := byKey[key]
	if !ok {
		return Setting{}, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return registry[i], nil
}
