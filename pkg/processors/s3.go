package processors

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/arthur-debert/sifter/pkg/errors"
	"github.com/arthur-debert/sifter/pkg/plugins"
	"github.com/arthur-debert/sifter/pkg/types"
)

// ObjectPutter is the part of the S3 client the upload processor uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures the s3 processor. Endpoint and PathStyle allow
// S3-compatible stores such as MinIO.
type S3Options struct {
	Bucket    string `koanf:"bucket"`
	Prefix    string `koanf:"prefix"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
	PathStyle bool   `koanf:"path_style"`
	Root      string `koanf:"root"`
}

// S3Upload uploads each file to a bucket. It produces no local files.
type S3Upload struct {
	Base
	opts   S3Options
	client ObjectPutter
}

func NewS3Upload(source types.InputFileSource, opts S3Options) (*S3Upload, error) {
	if opts.Bucket == "" {
		return nil, errors.New(errors.ErrPluginOptions, "s3 needs a bucket")
	}
	return &S3Upload{Base: NewBase("s3", source, types.ProducesNever), opts: opts}, nil
}

// WithClient replaces the client built from the AWS default configuration.
func (u *S3Upload) WithClient(client ObjectPutter) *S3Upload {
	u.client = client
	return u
}

func (u *S3Upload) Init(rc *types.RunContext) error {
	if err := u.Base.Init(rc); err != nil {
		return err
	}
	if u.client != nil {
		return nil
	}

	var loadOpts []func(*config.LoadOptions) error
	if u.opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(u.opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return errors.Wrap(err, errors.ErrPluginInit, "cannot load AWS configuration")
	}
	u.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if u.opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(u.opts.Endpoint)
		}
		o.UsePathStyle = u.opts.PathStyle
	})
	return nil
}

func (u *S3Upload) key(file string) string {
	name := filepath.Base(file)
	if u.opts.Root != "" {
		if rel, err := filepath.Rel(u.opts.Root, file); err == nil && !strings.HasPrefix(rel, "..") {
			name = filepath.ToSlash(rel)
		}
	}
	return path.Join(u.opts.Prefix, name)
}

func (u *S3Upload) Process(ctx context.Context, in types.ProcessInput) (types.ProcessingResult, error) {
	return EachFile(ctx, in, func(ctx context.Context, file string, _ types.ProcessInput) (types.ProcessingResult, error) {
		f, err := u.fs.Open(file)
		if err != nil {
			return types.ProcessingResult{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", file)
		}
		defer f.Close()

		key := u.key(file)
		_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(u.opts.Bucket),
			Key:    aws.String(key),
			Body:   f,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return types.ProcessingResult{}, ctxErr
			}
			return types.ProcessingResult{}, errors.Wrapf(err, errors.ErrProcessorRun, "cannot upload %s", file)
		}
		return types.Success("uploaded to s3://" + u.opts.Bucket + "/" + key), nil
	})
}

func init() {
	plugins.RegisterProcessor("s3", "uploads files to an S3 bucket", func(o plugins.Options) (types.Processor, error) {
		var opts S3Options
		if err := o.Decode(&opts); err != nil {
			return nil, err
		}
		return NewS3Upload(o.Input, opts)
	})
}
