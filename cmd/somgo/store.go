package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/somgo/blobstore"
	miniostore "github.com/hupe1980/somgo/blobstore/minio"
	"github.com/hupe1980/somgo/blobstore/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// openStore returns the store the trained map is saved into, or nil when
// neither -snapshot-dir nor -store is set.
//
// S3 uses the default AWS credential chain. A table query parameter
// (s3://bucket/prefix?table=somgo-commits) commits CURRENT through DynamoDB.
// MinIO credentials come from MINIO_ACCESS_KEY and MINIO_SECRET_KEY; set
// MINIO_INSECURE to use plain HTTP.
func openStore(ctx context.Context, cfg config) (blobstore.BlobStore, error) {
	if cfg.snapshotDir != "" {
		return blobstore.NewLocalStore(cfg.snapshotDir), nil
	}
	if cfg.store == "" {
		return nil, nil
	}

	loc, err := parseStoreURL(cfg.store)
	if err != nil {
		return nil, err
	}

	switch loc.scheme {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("aws config: %w", err)
		}
		store := s3.NewStore(awss3.NewFromConfig(awsCfg), loc.bucket, loc.prefix)
		if loc.table == "" {
			return store, nil
		}
		baseURI := "s3://" + loc.bucket + "/" + loc.prefix
		return s3.NewDDBCommitStore(store, dynamodb.NewFromConfig(awsCfg), loc.table, baseURI), nil
	case "minio":
		client, err := minio.New(loc.endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: os.Getenv("MINIO_INSECURE") == "",
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return miniostore.NewStore(client, loc.bucket, loc.prefix), nil
	default:
		return nil, fmt.Errorf("unsupported store scheme %q", loc.scheme)
	}
}

type storeLocation struct {
	scheme   string
	endpoint string
	bucket   string
	prefix   string
	table    string
}

// parseStoreURL parses s3://bucket/prefix[?table=name] and
// minio://endpoint/bucket/prefix.
func parseStoreURL(raw string) (storeLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return storeLocation{}, fmt.Errorf("invalid store %q: %w", raw, err)
	}

	path := strings.Trim(u.Path, "/")
	loc := storeLocation{scheme: u.Scheme}

	switch u.Scheme {
	case "s3":
		loc.bucket = u.Host
		loc.prefix = path
		loc.table = u.Query().Get("table")
	case "minio":
		loc.endpoint = u.Host
		loc.bucket, loc.prefix, _ = strings.Cut(path, "/")
		if loc.endpoint == "" {
			return storeLocation{}, fmt.Errorf("invalid store %q: missing endpoint", raw)
		}
	default:
		return storeLocation{}, fmt.Errorf("unsupported store scheme %q", u.Scheme)
	}

	if loc.bucket == "" {
		return storeLocation{}, fmt.Errorf("invalid store %q: missing bucket", raw)
	}
	return loc, nil
}
