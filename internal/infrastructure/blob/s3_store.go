// Package blob almacena las fotos de perfil en un bucket S3-compatible (MinIO, AWS S3, R2).
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
	"github.com/jhoicas/Dashboard-api/internal/domain"
	"github.com/jhoicas/Dashboard-api/pkg/config"
)

var _ actions.BlobStore = (*S3Store)(nil)

// publicReadPolicy permite GET anónimo sobre los objetos del bucket.
const publicReadPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"AWS": ["*"]},
    "Action": ["s3:GetObject"],
    "Resource": ["arn:aws:s3:::%s/*"]
  }]
}`

// S3Store implementación de actions.BlobStore sobre minio-go.
// Las URLs públicas son PublicBaseURL + "/" + key.
type S3Store struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewS3Store conecta con el endpoint y garantiza que el bucket exista con lectura pública.
func NewS3Store(ctx context.Context, cfg config.BlobConfig) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: crear cliente: %w", err)
	}
	s := &S3Store{client: client, bucket: cfg.Bucket, publicBase: strings.TrimRight(cfg.PublicBaseURL, "/")}
	if err := s.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *S3Store) ensureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("blob: verificar bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("blob: crear bucket: %w", err)
	}
	if err := s.client.SetBucketPolicy(ctx, s.bucket, fmt.Sprintf(publicReadPolicy, s.bucket)); err != nil {
		return fmt.Errorf("blob: política pública: %w", err)
	}
	return nil
}

// Put sube el contenido bajo key y devuelve su URL pública.
func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return s.URL(key), nil
}

// Delete elimina el objeto referenciado por su URL pública. Una URL que no pertenece a
// este almacenamiento (imágenes estáticas de datos sembrados) no tiene nada que borrar.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, err := KeyFromURL(s.publicBase, url)
	if errors.Is(err, domain.ErrBlobOutOfBucket) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// URL URL pública de key.
func (s *S3Store) URL(key string) string {
	return s.publicBase + "/" + key
}

// KeyFromURL extrae la clave de objeto de una URL pública con prefijo base.
func KeyFromURL(base, url string) (string, error) {
	prefix := strings.TrimRight(base, "/") + "/"
	key, ok := strings.CutPrefix(url, prefix)
	if !ok || key == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrBlobOutOfBucket, url)
	}
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key, nil
}
