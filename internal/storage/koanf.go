package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// Environment prefixes mapped onto store keys, e.g.
// PIXELS_STRIPE_SIZE -> pixels.stripe.size.
var envPrefixes = []string{"PIXELS_", "HIVE_EXEC_PIXELS_"}

// KoanfOptions selects the layers loaded into a KoanfStore. Later files
// override earlier ones and environment variables override all files.
type KoanfOptions struct {
	Files []string
	Env   bool
}

// KoanfStore is a store backed by a koanf tree assembled from YAML files and
// the environment. Every leaf holds the text exactly as written in its
// source, so "1e3" stays "1e3" instead of becoming a number. Writes only
// affect the in-memory tree.
type KoanfStore struct {
	mu sync.RWMutex
	k  *koanf.Koanf
}

// NewKoanfStore loads every configured layer. YAML files may use nested maps
// or flat dotted keys.
func NewKoanfStore(opts KoanfOptions) (*KoanfStore, error) {
	k := koanf.New(".")

	for _, path := range opts.Files {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if err := k.Load(yamlFile{path: path}, nil); err != nil {
			return nil, fmt.Errorf("load store file %s: %w", path, err)
		}
	}

	if opts.Env {
		for _, prefix := range envPrefixes {
			if err := k.Load(env.Provider(prefix, ".", envKey), nil); err != nil {
				return nil, fmt.Errorf("load environment %s*: %w", prefix, err)
			}
		}
	}

	return &KoanfStore{k: k}, nil
}

// yamlFile reads a YAML file into a tree whose leaves are the raw scalar
// text. Dotted keys are unflattened so that "pixels.stripe.size: 1" and the
// nested form land on the same node. Mixing both forms for one subtree
// inside a single file is not supported.
type yamlFile struct {
	path string
}

func (f yamlFile) ReadBytes() ([]byte, error) {
	return nil, errors.New("yamlFile does not support ReadBytes")
}

func (f yamlFile) Read() (map[string]interface{}, error) {
	b, err := file.Provider(f.path).ReadBytes()
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return map[string]interface{}{}, nil
	}

	mp, ok := rawValue(doc.Content[0]).(map[string]interface{})
	if !ok {
		return nil, ErrNotMapping
	}
	return maps.Unflatten(mp, "."), nil
}

// rawValue converts a YAML node into maps, slices and scalar source text.
// Explicit nulls become nil.
func rawValue(n *yaml.Node) interface{} {
	switch n.Kind {
	case yaml.AliasNode:
		return rawValue(n.Alias)
	case yaml.MappingNode:
		out := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			out[n.Content[i].Value] = rawValue(n.Content[i+1])
		}
		return out
	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(n.Content))
		for _, item := range n.Content {
			out = append(out, rawValue(item))
		}
		return out
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil
		}
		return n.Value
	default:
		return nil
	}
}

func envKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "."))
}

// Get returns the text stored at key. Maps, lists and nulls are not
// settings and report absent.
func (s *KoanfStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.k.Get(key).(string)
	return v, ok
}

// set refuses keys that would replace a subtree or hang a subtree off an
// existing value, since koanf would otherwise drop the displaced leaves.
func (s *KoanfStore) set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.k.Get(key).(map[string]interface{}); ok {
		return fmt.Errorf("%w: %s holds nested keys", ErrKeyConflict, key)
	}
	for i := strings.Index(key, "."); i > 0; i = nextDot(key, i) {
		parent := key[:i]
		if s.k.Exists(parent) {
			if _, ok := s.k.Get(parent).(map[string]interface{}); !ok {
				return fmt.Errorf("%w: %s already holds a value", ErrKeyConflict, parent)
			}
		}
	}

	if err := s.k.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func nextDot(key string, from int) int {
	j := strings.Index(key[from+1:], ".")
	if j < 0 {
		return -1
	}
	return from + 1 + j
}

// Set stores value verbatim under key.
func (s *KoanfStore) Set(key, value string) error {
	return s.set(key, value)
}

// SetLong stores value in base 10.
func (s *KoanfStore) SetLong(key string, value int64) error {
	return s.set(key, strconv.FormatInt(value, 10))
}

// SetString stores value verbatim.
func (s *KoanfStore) SetString(key, value string) error {
	return s.set(key, value)
}

// SetBoolean stores "true" or "false".
func (s *KoanfStore) SetBoolean(key string, value bool) error {
	return s.set(key, strconv.FormatBool(value))
}

// SetDouble stores the shortest decimal form that reads back as value.
func (s *KoanfStore) SetDouble(key string, value float64) error {
	return s.set(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// Snapshot returns every leaf of the tree keyed by its dotted path.
func (s *KoanfStore) Snapshot() map[string]string {
	s.mu.RLock()
	keys := s.k.Keys()
	s.mu.RUnlock()

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := s.Get(key); ok {
			out[key] = v
		}
	}
	return out
}
