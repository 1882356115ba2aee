package shimmanager

import "github.com/shimexe/shimexe/internal/shimconfig"

// Builder assembles a ShimDocument through a fluent API, for programmatic
// callers that would rather not hand-construct the TOML structures.
type Builder struct {
	doc shimconfig.ShimDocument
}

// NewBuilder starts a Builder for a shim named name targeting path.
func NewBuilder(name, path string) *Builder {
	b := &Builder{}
	b.doc.Shim.Name = name
	b.doc.Shim.Path = path
	return b
}

func (b *Builder) Args(args ...string) *Builder {
	b.doc.Shim.Args = args
	return b
}

func (b *Builder) Env(key, value string) *Builder {
	if b.doc.Env == nil {
		b.doc.Env = make(map[string]string)
	}
	b.doc.Env[key] = value
	return b
}

func (b *Builder) Cwd(cwd string) *Builder {
	b.doc.Shim.Cwd = cwd
	return b
}

// DownloadURL sets the shim's remote origin and infers source_type from
// the URL's suffix: an archive suffix (zip/tar.gz/tgz) yields Archive,
// anything else yields Url.
func (b *Builder) DownloadURL(url string) *Builder {
	b.doc.Shim.DownloadURL = url
	b.doc.Shim.SourceType = shimconfig.InferSourceType(url)
	return b
}

func (b *Builder) Version(version string) *Builder {
	b.doc.Metadata.Version = version
	return b
}

func (b *Builder) Description(description string) *Builder {
	b.doc.Metadata.Description = description
	return b
}

func (b *Builder) Author(author string) *Builder {
	b.doc.Metadata.Author = author
	return b
}

func (b *Builder) Tag(tag string) *Builder {
	b.doc.Metadata.Tags = append(b.doc.Metadata.Tags, tag)
	return b
}

func (b *Builder) Tags(tags ...string) *Builder {
	b.doc.Metadata.Tags = append(b.doc.Metadata.Tags, tags...)
	return b
}

// Build returns the assembled document, validated for structural
// soundness.
func (b *Builder) Build() (*shimconfig.ShimDocument, error) {
	if err := shimconfig.Validate(&b.doc); err != nil {
		return nil, err
	}
	doc := b.doc
	return &doc, nil
}
