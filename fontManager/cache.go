package fontManager

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"path"
	"sync"
	"time"

	"github.com/tinywasm/fmt"
	"github.com/tinywasm/json"
	"golang.org/x/exp/slices"

	"github.com/tinywasm/tfpdf/errs"
)

// CacheKey identifies one version of a font file.
type CacheKey struct {
	Path    string
	Size    int64
	ModTime int64 // unix nanoseconds
}

// NewCacheKey builds the key for a file of the given size and mtime.
func NewCacheKey(filePath string, size int64, modTime time.Time) CacheKey {
	return CacheKey{Path: filePath, Size: size, ModTime: modTime.UnixNano()}
}

// fileName is the blob name of the key inside the cache directory.
func (k CacheKey) fileName() string {
	b := append([]byte(k.Path), 0)
	b = binary.BigEndian.AppendUint64(b, uint64(k.Size))
	b = binary.BigEndian.AppendUint64(b, uint64(k.ModTime))
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:]) + ".json"
}

// MetricsCache stores parsed font metrics so a font file that has not
// changed is not parsed again. Entries live in memory and, when a
// directory is set, as JSON blobs in that directory.
type MetricsCache struct {
	mu        sync.Mutex
	dir       string
	mem       map[CacheKey]*Metrics
	readFile  func(filePath string) ([]byte, error)
	writeFile func(filePath string, content []byte) error
}

// NewMetricsCache returns a cache. dir may be empty for a memory only
// cache; readFile and writeFile are used for the directory and may be nil
// when dir is empty.
func NewMetricsCache(dir string, readFile func(string) ([]byte, error), writeFile func(string, []byte) error) *MetricsCache {
	return &MetricsCache{
		dir:       dir,
		mem:       make(map[CacheKey]*Metrics),
		readFile:  readFile,
		writeFile: writeFile,
	}
}

func (c *MetricsCache) persistent() bool {
	return c.dir != "" && c.readFile != nil && c.writeFile != nil
}

// Get returns the metrics stored for key.
func (c *MetricsCache) Get(key CacheKey) (*Metrics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.mem[key]; ok {
		return m, true
	}
	if !c.persistent() {
		return nil, false
	}
	blob, err := c.readFile(path.Join(c.dir, key.fileName()))
	if err != nil {
		return nil, false
	}
	stored, m, err := decodeMetrics(blob)
	if err != nil || stored != key {
		return nil, false
	}
	c.mem[key] = m
	return m, true
}

// Put stores metrics under key.
func (c *MetricsCache) Put(key CacheKey, m *Metrics) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem[key] = m
	if !c.persistent() {
		return nil
	}
	blob, err := encodeMetrics(key, m)
	if err != nil {
		return err
	}
	return c.writeFile(path.Join(c.dir, key.fileName()), blob)
}

// Len returns the number of entries held in memory.
func (c *MetricsCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.mem)
}

// metricsRecord is the JSON blob of one cache entry. The key is stored
// in the blob so a hash collision never returns the metrics of another
// file.
type metricsRecord struct {
	key CacheKey
	m   *Metrics
	// widths flattens Cw into rune, width pairs in rune order
	widths []int
}

func (r *metricsRecord) Schema() []fmt.Field {
	return []fmt.Field{
		{Name: "path", Type: fmt.FieldText},
		{Name: "size", Type: fmt.FieldInt},
		{Name: "mod_time", Type: fmt.FieldInt},
		{Name: "postscript_name", Type: fmt.FieldText},
		{Name: "units_per_em", Type: fmt.FieldInt},
		{Name: "num_glyphs", Type: fmt.FieldInt},
		{Name: "underline_position", Type: fmt.FieldInt},
		{Name: "underline_thickness", Type: fmt.FieldInt},
		{Name: "last_rune", Type: fmt.FieldInt},
		{Name: "desc", Type: fmt.FieldStruct},
		{Name: "widths", Type: fmt.FieldIntSlice},
	}
}

func (r *metricsRecord) Pointers() []any {
	return []any{&r.key.Path, &r.key.Size, &r.key.ModTime,
		&r.m.PostScriptName, &r.m.UnitsPerEm, &r.m.NumGlyphs,
		&r.m.UnderlinePosition, &r.m.UnderlineThickness, &r.m.LastRune,
		&descRecord{&r.m.Desc}, &r.widths}
}

type descRecord struct{ d *FontDesc }

func (r *descRecord) Schema() []fmt.Field {
	return []fmt.Field{
		{Name: "ascent", Type: fmt.FieldInt},
		{Name: "descent", Type: fmt.FieldInt},
		{Name: "cap_height", Type: fmt.FieldInt},
		{Name: "flags", Type: fmt.FieldInt},
		{Name: "bbox", Type: fmt.FieldStruct},
		{Name: "italic_angle", Type: fmt.FieldInt},
		{Name: "stem_v", Type: fmt.FieldInt},
		{Name: "missing_width", Type: fmt.FieldInt},
	}
}

func (r *descRecord) Pointers() []any {
	d := r.d
	return []any{&d.Ascent, &d.Descent, &d.CapHeight, &d.Flags, &boxRecord{&d.FontBBox},
		&d.ItalicAngle, &d.StemV, &d.MissingWidth}
}

type boxRecord struct{ b *FontBox }

func (r *boxRecord) Schema() []fmt.Field {
	return []fmt.Field{
		{Name: "xmin", Type: fmt.FieldInt},
		{Name: "ymin", Type: fmt.FieldInt},
		{Name: "xmax", Type: fmt.FieldInt},
		{Name: "ymax", Type: fmt.FieldInt},
	}
}

func (r *boxRecord) Pointers() []any {
	return []any{&r.b.Xmin, &r.b.Ymin, &r.b.Xmax, &r.b.Ymax}
}

func encodeMetrics(key CacheKey, m *Metrics) ([]byte, error) {
	runes := make([]rune, 0, len(m.Cw))
	for r := range m.Cw {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	rec := &metricsRecord{key: key, m: m, widths: make([]int, 0, 2*len(runes))}
	for _, r := range runes {
		rec.widths = append(rec.widths, int(r), m.Cw[r])
	}
	var blob []byte
	if err := json.Encode(rec, &blob); err != nil {
		return nil, errs.Wrapf(errs.KindUnknown, "", err, "could not encode font metrics")
	}
	return blob, nil
}

func decodeMetrics(blob []byte) (CacheKey, *Metrics, error) {
	rec := &metricsRecord{m: new(Metrics)}
	if err := json.Decode(blob, rec); err != nil {
		return CacheKey{}, nil, errs.Wrapf(errs.KindUnknown, "", err, "could not decode font metrics")
	}
	if len(rec.widths)%2 != 0 {
		return CacheKey{}, nil, errs.Errorf("could not decode font metrics: %d width values", len(rec.widths))
	}
	if len(rec.widths) > 0 {
		rec.m.Cw = make(map[rune]int, len(rec.widths)/2)
		for i := 0; i < len(rec.widths); i += 2 {
			rec.m.Cw[rune(rec.widths[i])] = rec.widths[i+1]
		}
	}
	return rec.key, rec.m, nil
}
