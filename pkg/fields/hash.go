package fields

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/arthur-debert/sifter/pkg/cache"
	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// Hash reports the hex digest of the file content. Directories have no value.
type Hash struct {
	base
	algorithm string
	newHash   func() (hash.Hash, error)
}

func NewHash(algorithm string) (*Hash, error) {
	var newHash func() (hash.Hash, error)
	switch algorithm {
	case "", "sha256":
		algorithm = "sha256"
		newHash = func() (hash.Hash, error) { return sha256.New(), nil }
	case "blake2b":
		newHash = func() (hash.Hash, error) { return blake2b.New256(nil) }
	default:
		return nil, errors.Newf(errors.ErrPluginOptions, "unknown hash algorithm %q (want sha256 or blake2b)", algorithm)
	}
	return &Hash{base: newBase("hash"), algorithm: algorithm, newHash: newHash}, nil
}

func (h *Hash) Values(ctx context.Context, file string, _ *cache.Set) ([]string, error) {
	info, err := h.fs.Stat(file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", file)
	}
	if info.IsDir() {
		return []string{}, nil
	}

	f, err := h.fs.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", file)
	}
	defer f.Close()

	digest, err := h.newHash()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot create hash")
	}
	if _, err := io.Copy(digest, &ctxReader{ctx: ctx, r: f}); err != nil {
		if errors.IsCanceled(err) {
			return nil, err
		}
		return nil, errors.Wrapf(err, errors.ErrFieldEval, "hashing %s", file)
	}
	return []string{hex.EncodeToString(digest.Sum(nil))}, nil
}

// ctxReader stops a long copy when the context ends.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func init() {
	plugins.RegisterField("hash", "hex digest of the content (sha256 or blake2b)", func(o plugins.Options) (types.FieldSource, error) {
		var opts struct {
			Algorithm string `koanf:"algorithm"`
		}
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewHash(opts.Algorithm)
	})
}
