package shimconfig

import (
	"bytes"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shimexe/shimexe/internal/shimerr"
)

// EffectiveMode returns the configured mode, defaulting to Template when
// unset — matching the TOML wire format's documented default.
func (a ArgsConfig) EffectiveMode() ArgsMode {
	if a.Mode == "" {
		return ArgsModeTemplate
	}
	return a.Mode
}

// EffectiveSourceType returns the configured source type, defaulting to
// File when unset.
func (c ShimCore) EffectiveSourceType() SourceType {
	if c.SourceType == "" {
		return SourceFile
	}
	return c.SourceType
}

// Decode parses TOML bytes into a ShimDocument.
func Decode(data []byte) (*ShimDocument, error) {
	var doc ShimDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, shimerr.New(shimerr.ErrParse, "<bytes>", err.Error())
	}
	return &doc, nil
}

// Encode serializes a ShimDocument to TOML.
func Encode(doc *ShimDocument) ([]byte, error) {
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, shimerr.New(shimerr.ErrSerialize, doc.Shim.Name, err.Error())
	}
	return data, nil
}

// Load reads and parses a ShimDocument from path, then validates it.
func Load(path string) (*ShimDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, shimerr.New(shimerr.ErrIO, path, err.Error())
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Save serializes doc and writes it to path. If the existing file's
// trimmed contents already equal the new serialization, the write is
// skipped — this keeps mtime-based caches and relocation copies stable
// across no-op saves.
func Save(path string, doc *ShimDocument) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(path); err == nil {
		if bytes.Equal(bytes.TrimSpace(existing), bytes.TrimSpace(data)) {
			return nil
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return shimerr.New(shimerr.ErrIO, path, err.Error())
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return shimerr.New(shimerr.ErrIO, path, err.Error())
	}

	return nil
}

// LoadResult pairs a path with its load outcome, for LoadMany's fan-out.
type LoadResult struct {
	Path string
	Doc  *ShimDocument
	Err  error
}

// LoadMany loads every path concurrently and returns results in the same
// order as the input, regardless of completion order.
func LoadMany(paths []string) []LoadResult {
	results := make([]LoadResult, len(paths))
	done := make(chan int, len(paths))

	for i, p := range paths {
		go func(i int, p string) {
			doc, err := Load(p)
			results[i] = LoadResult{Path: p, Doc: doc, Err: err}
			done <- i
		}(i, p)
	}

	for range paths {
		<-done
	}

	return results
}

// Validate checks the structural invariants ConfigStore is responsible
// for: non-empty name and path. Semantic checks (does the executable
// exist) belong to the runner.
func Validate(doc *ShimDocument) error {
	if doc.Shim.Name == "" {
		return shimerr.New(shimerr.ErrConfig, "<unknown>", "shim name must not be empty")
	}
	if doc.Shim.Path == "" {
		return shimerr.New(shimerr.ErrConfig, doc.Shim.Name, "shim path must not be empty")
	}
	return nil
}
