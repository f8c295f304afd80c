package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"prediction-service/internal/core/domain"
	ports "prediction-service/internal/core/ports/output"
)

// FormatVersion is the only artifact layout this loader understands.
const FormatVersion = 1

// document is the on-disk layout. JSON artifacts decode too, since JSON is a
// subset of YAML.
type document struct {
	FormatVersion int       `yaml:"format_version"`
	Name          string    `yaml:"name"`
	Kind          string    `yaml:"kind"`
	Features      []string  `yaml:"features"`
	Labels        []string  `yaml:"labels"`
	KNN           *knnSpec  `yaml:"knn,omitempty"`
	Tree          *treeSpec `yaml:"tree,omitempty"`
}

// header is the validated, kind-independent part of a document.
type header struct {
	features domain.FeatureSchema
	labels   []domain.Label
	index    map[domain.Label]int
}

type decoderFunc func(doc *document, h *header) (domain.Classifier, error)

var decoders = map[domain.ModelKind]decoderFunc{
	domain.ModelKindKNN:          decodeKNN,
	domain.ModelKindDecisionTree: decodeTree,
}

type FileLoader struct {
	maxBytes int64
}

// NewFileLoader creates a loader that refuses files larger than maxBytes
// (0 means no limit).
func NewFileLoader(maxBytes int64) ports.ArtifactLoader {
	return &FileLoader{maxBytes: maxBytes}
}

func (l *FileLoader) Load(ctx context.Context, path string) (*domain.ModelArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.ModelLoadError{Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ModelLoadError{Path: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if l.maxBytes > 0 {
		r = io.LimitReader(f, l.maxBytes+1)
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, &domain.ModelLoadError{Path: path, Err: fmt.Errorf("read artifact: %w", err)}
	}
	if l.maxBytes > 0 && int64(len(payload)) > l.maxBytes {
		return nil, &domain.ModelLoadError{Path: path, Err: fmt.Errorf("%w: larger than %d bytes", domain.ErrInvalidArtifact, l.maxBytes)}
	}

	artifact, err := Decode(payload)
	if err != nil {
		return nil, &domain.ModelLoadError{Path: path, Err: err}
	}
	if artifact.Name == "" {
		artifact.Name = path
	}
	return artifact, nil
}

// Decode parses and validates an artifact document.
func Decode(payload []byte) (*domain.ModelArtifact, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidArtifact)
	}

	dec := yaml.NewDecoder(bytes.NewReader(payload))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidArtifact)
		}
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrInvalidArtifact, err)
	}

	if doc.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format_version %d (want %d)", domain.ErrInvalidArtifact, doc.FormatVersion, FormatVersion)
	}

	kind, err := domain.ParseModelKind(doc.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, doc.Kind)
	}

	h, err := parseHeader(&doc)
	if err != nil {
		return nil, err
	}

	classifier, err := decoders[kind](&doc, h)
	if err != nil {
		return nil, err
	}

	return &domain.ModelArtifact{
		Name:       doc.Name,
		Kind:       kind,
		Features:   h.features,
		Labels:     h.labels,
		Classifier: classifier,
	}, nil
}

func parseHeader(doc *document) (*header, error) {
	if len(doc.Features) == 0 {
		return nil, fmt.Errorf("%w: no features", domain.ErrInvalidArtifact)
	}
	if len(doc.Labels) == 0 {
		return nil, fmt.Errorf("%w: no labels", domain.ErrInvalidArtifact)
	}

	seen := make(map[string]bool, len(doc.Features))
	features := make(domain.FeatureSchema, 0, len(doc.Features))
	for _, f := range doc.Features {
		if f == "" {
			return nil, fmt.Errorf("%w: empty feature name", domain.ErrInvalidArtifact)
		}
		if seen[f] {
			return nil, fmt.Errorf("%w: duplicate feature %q", domain.ErrInvalidArtifact, f)
		}
		seen[f] = true
		features = append(features, f)
	}

	index := make(map[domain.Label]int, len(doc.Labels))
	labels := make([]domain.Label, 0, len(doc.Labels))
	for i, l := range doc.Labels {
		label := domain.Label(l)
		if l == "" {
			return nil, fmt.Errorf("%w: empty label", domain.ErrInvalidArtifact)
		}
		if _, dup := index[label]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q", domain.ErrInvalidArtifact, l)
		}
		index[label] = i
		labels = append(labels, label)
	}

	return &header{features: features, labels: labels, index: index}, nil
}
