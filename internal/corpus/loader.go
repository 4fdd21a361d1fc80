// Package corpus loads the grouped review corpus from a JSON or YAML file.
//
// The file maps a university name to a list of reviews:
//
//	{"MIT": [{"professor": "Smith", "subject": "CS", "review": "Great lecturer", "stars": 5}]}
//
// Universities are returned in file order.
package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/profrag/internal/domain"
)

type format int

const (
	formatJSON format = iota
	formatYAML
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and parses the corpus at path.
func Load(path string) (domain.Corpus, error) {
	b, err := os.ReadFile(path) // #nosec G304 -- operator-supplied input path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("op=corpus.Load: %w: reviews file not found: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("op=corpus.Load: %w", err)
	}
	c, err := Parse(b, path)
	if err != nil {
		return nil, fmt.Errorf("op=corpus.Load: %w", err)
	}
	return c, nil
}

// Parse decodes corpus bytes. name is used for format detection by extension
// and may be empty, in which case the content is sniffed.
func Parse(data []byte, name string) (domain.Corpus, error) {
	var (
		out domain.Corpus
		err error
	)
	if detectFormat(name, data) == formatJSON {
		out, err = parseJSON(data)
	} else {
		out, err = parseYAML(data)
	}
	if err != nil {
		return nil, err
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: no reviews to seed", domain.ErrInvalidArgument)
	}
	return out, nil
}

// builder accumulates university groups and rejects repeated keys.
type builder struct {
	out  domain.Corpus
	seen map[string]struct{}
}

func (b *builder) open(university string, line int) error {
	if b.seen == nil {
		b.seen = make(map[string]struct{})
	}
	if _, dup := b.seen[university]; dup {
		if line > 0 {
			return fmt.Errorf("%w: duplicate university %q (line %d)", domain.ErrInvalidArgument, university, line)
		}
		return fmt.Errorf("%w: duplicate university %q", domain.ErrInvalidArgument, university)
	}
	b.seen[university] = struct{}{}
	b.out = append(b.out, domain.UniversityReviews{University: university})
	return nil
}

func (b *builder) add(r domain.Review) error {
	g := &b.out[len(b.out)-1]
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s[%d]: %v", domain.ErrInvalidArgument, g.University, len(g.Reviews), err)
	}
	g.Reviews = append(g.Reviews, r)
	return nil
}

// parseJSON walks the top-level object token by token so universities keep
// their file order; each group is decoded by encoding/json.
func parseJSON(data []byte) (domain.Corpus, error) {
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		return nil, fmt.Errorf("%w: malformed json: %v", domain.ErrInvalidArgument, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, _ := dec.Token(); tok != json.Delim('{') {
		return nil, fmt.Errorf("%w: corpus must map university to reviews", domain.ErrInvalidArgument)
	}

	var b builder
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: malformed json: %v", domain.ErrInvalidArgument, err)
		}
		university, _ := tok.(string)
		if err := b.open(university, 0); err != nil {
			return nil, err
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: malformed json: %v", domain.ErrInvalidArgument, err)
		}
		if len(raw) == 0 || raw[0] != '[' {
			return nil, fmt.Errorf("%w: reviews of %q must be a list", domain.ErrInvalidArgument, university)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArgument, university, err)
		}
		for j, item := range items {
			var r domain.Review
			if err := json.Unmarshal(item, &r); err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %v", domain.ErrInvalidArgument, university, j, err)
			}
			if err := b.add(r); err != nil {
				return nil, err
			}
		}
	}
	return b.out, nil
}

func parseYAML(data []byte) (domain.Corpus, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed yaml: %v", domain.ErrInvalidArgument, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty corpus", domain.ErrInvalidArgument)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: corpus must map university to reviews (line %d)", domain.ErrInvalidArgument, root.Line)
	}

	var b builder
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if err := b.open(k.Value, k.Line); err != nil {
			return nil, err
		}
		if v.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%w: reviews of %q must be a list (line %d)", domain.ErrInvalidArgument, k.Value, v.Line)
		}
		for j, item := range v.Content {
			var r domain.Review
			if err := item.Decode(&r); err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %v", domain.ErrInvalidArgument, k.Value, j, err)
			}
			if err := b.add(r); err != nil {
				return nil, err
			}
		}
	}
	return b.out, nil
}

func detectFormat(name string, data []byte) format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return formatJSON
	case ".yaml", ".yml":
		return formatYAML
	}
	if mimetype.Detect(data).Is("application/json") {
		return formatJSON
	}
	return formatYAML
}
