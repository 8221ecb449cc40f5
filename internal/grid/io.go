// Package grid reads the hexcell grid, attaches continent metadata to every
// cell and writes the enriched copy.
package grid

import (
	"bytes"
	"encoding/json"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Property keys written to each cell.
const (
	PropStateID     = "state_id"
	PropContinentID = "continent_id"
	PropCenterpoint = "centerpoint"
)

// member is one key/value pair of a JSON object, kept in document order.
type member struct {
	key   string
	value json.RawMessage
}

// Document is a grid file. The embedded collection is what gets processed;
// the raw members of the file and of each feature are kept so Write can
// reproduce everything except the properties, which are re-encoded from the
// collection.
type Document struct {
	*geojson.FeatureCollection

	members  []member
	features [][]member
}

// NewDocument wraps a collection that was not read from a file.
func NewDocument(fc *geojson.FeatureCollection) *Document {
	return &Document{FeatureCollection: fc}
}

// Read decodes a GeoJSON FeatureCollection from path.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "grid: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "grid: parse %s", path)
	}

	members, err := decodeObject(data)
	if err != nil {
		return nil, eris.Wrapf(err, "grid: parse %s", path)
	}

	doc := &Document{FeatureCollection: &fc, members: members}
	if raw, ok := lookup(members, "features"); ok {
		var rawFeatures []json.RawMessage
		if err := json.Unmarshal(raw, &rawFeatures); err != nil {
			return nil, eris.Wrapf(err, "grid: parse features of %s", path)
		}
		for i, rf := range rawFeatures {
			fm, err := decodeObject(rf)
			if err != nil {
				return nil, eris.Wrapf(err, "grid: parse feature %d of %s", i+1, path)
			}
			doc.features = append(doc.features, fm)
		}
	}
	return doc, nil
}

// Write encodes doc to path as two-space indented JSON, preserving feature
// order and every member read from the input.
func Write(path string, doc *Document) error {
	data, err := doc.encode()
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return eris.Wrap(err, "grid: indent feature collection")
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "grid: write %s", path)
	}
	return nil
}

// FeatureJSON returns feature i encoded the way Write encodes it.
func (d *Document) FeatureJSON(i int) (json.RawMessage, error) {
	if i < 0 || i >= len(d.Features) {
		return nil, eris.Errorf("grid: no feature %d", i+1)
	}
	f := d.Features[i]
	if i >= len(d.features) {
		data, err := json.Marshal(f)
		if err != nil {
			return nil, eris.Wrapf(err, "grid: encode feature %d", i+1)
		}
		return data, nil
	}

	props, err := encodeProperties(d.features[i], f.Properties)
	if err != nil {
		return nil, eris.Wrapf(err, "grid: encode properties of feature %d", i+1)
	}

	ms := make([]member, 0, len(d.features[i])+1)
	replaced := false
	for _, m := range d.features[i] {
		if m.key == "properties" {
			m.value = props
			replaced = true
		}
		ms = append(ms, m)
	}
	if !replaced {
		ms = append(ms, member{key: "properties", value: props})
	}
	return encodeObject(ms)
}

func (d *Document) encode() ([]byte, error) {
	if d.members == nil {
		data, err := json.Marshal(d.FeatureCollection)
		if err != nil {
			return nil, eris.Wrap(err, "grid: encode feature collection")
		}
		return data, nil
	}

	var features bytes.Buffer
	features.WriteByte('[')
	for i := range d.Features {
		if i > 0 {
			features.WriteByte(',')
		}
		data, err := d.FeatureJSON(i)
		if err != nil {
			return nil, err
		}
		features.Write(data)
	}
	features.WriteByte(']')

	ms := make([]member, 0, len(d.members)+1)
	replaced := false
	for _, m := range d.members {
		if m.key == "features" {
			m.value = features.Bytes()
			replaced = true
		}
		ms = append(ms, m)
	}
	if !replaced {
		ms = append(ms, member{key: "features", value: features.Bytes()})
	}
	return encodeObject(ms)
}

// encodeProperties encodes props keeping the key order of the original
// properties object; keys it did not have follow in sorted order.
func encodeProperties(feature []member, props map[string]any) (json.RawMessage, error) {
	if props == nil {
		return json.RawMessage("null"), nil
	}

	var order []string
	if raw, ok := lookup(feature, "properties"); ok {
		if orig, err := decodeObject(raw); err == nil {
			for _, m := range orig {
				order = append(order, m.key)
			}
		}
	}

	seen := make(map[string]bool, len(props))
	ms := make([]member, 0, len(props))
	add := func(k string) error {
		v, ok := props[k]
		if !ok || seen[k] {
			return nil
		}
		seen[k] = true
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		ms = append(ms, member{key: k, value: data})
		return nil
	}

	for _, k := range order {
		if err := add(k); err != nil {
			return nil, err
		}
	}
	rest := make([]string, 0, len(props))
	for k := range props {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		if err := add(k); err != nil {
			return nil, err
		}
	}
	return encodeObject(ms)
}

// decodeObject splits a JSON object into its members in document order.
// A JSON null yields no members.
func decodeObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, eris.Wrap(err, "grid: decode object")
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, eris.New("grid: expected a JSON object")
	}

	ms := []member{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, eris.Wrap(err, "grid: decode member name")
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, eris.Wrapf(err, "grid: decode member %q", key)
		}
		ms = append(ms, member{key: key, value: raw})
	}
	return ms, nil
}

func encodeObject(ms []member) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range ms {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, eris.Wrap(err, "grid: encode member name")
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func lookup(ms []member, key string) (json.RawMessage, bool) {
	for _, m := range ms {
		if m.key == key {
			return m.value, true
		}
	}
	return nil, false
}
