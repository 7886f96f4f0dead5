package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/dvloznov/product-advisor/internal/domain"
)

// FetchCSV downloads and parses one transaction CSV from a GCS URI of
// the form "gs://bucket/path/to/file.csv". Application Default
// Credentials are assumed.
func FetchCSV(ctx context.Context, gcsURI string) ([]domain.Transaction, error) {
	bucketName, objectPath, err := splitGCSURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchCSV: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchCSV: opening gs://%s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	rows, err := ParseCSV(rc, objectBase(objectPath))
	if err != nil {
		return nil, fmt.Errorf("FetchCSV: %s: %w", gcsURI, err)
	}
	return rows, nil
}

// LoadGCS fetches and concatenates several GCS-hosted CSVs into a
// Table. A file missing the client column fails the run, same as
// LoadDir.
func LoadGCS(ctx context.Context, gcsURIs []string) (*Table, error) {
	var rows []domain.Transaction
	for _, uri := range gcsURIs {
		fileRows, err := FetchCSV(ctx, uri)
		if err != nil {
			return nil, fmt.Errorf("LoadGCS: %w", err)
		}
		rows = append(rows, fileRows...)
	}
	return NewTable(rows), nil
}

// Upload uploads a local file to a GCS bucket under the given object
// name.
func Upload(ctx context.Context, bucketName, objectName, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("Upload: open file %q: %w", filePath, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("Upload: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("Upload: copy file to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("Upload: finalize upload: %w", err)
	}
	return nil
}

func splitGCSURI(gcsURI string) (bucket, object string, err error) {
	if !strings.HasPrefix(gcsURI, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", gcsURI)
	}
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}
	return parts[0], parts[1], nil
}

func objectBase(objectPath string) string {
	if i := strings.LastIndex(objectPath, "/"); i >= 0 {
		return objectPath[i+1:]
	}
	return objectPath
}
