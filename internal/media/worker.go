package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// Resource kinds accepted by the ingest worker.
const (
	ResourceCollection = "collection"
	ResourceNFT        = "nft"
)

type IngestArgs struct {
	ResourceType string    `json:"resource_type"`
	ResourceID   uuid.UUID `json:"resource_id"`
	SourceURL    string    `json:"source_url"`
	ContentType  string    `json:"content_type"`
}

func (IngestArgs) Kind() string { return "ingest_media" }

// ImageSetter writes the final CDN URL back onto the catalog row.
type ImageSetter interface {
	SetImage(ctx context.Context, id uuid.UUID, url string) error
}

// Uploader is satisfied by Store.
type Uploader interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

const maxMediaBytes = 25 << 20

type IngestWorker struct {
	river.WorkerDefaults[IngestArgs]
	store       Uploader
	collections ImageSetter
	nfts        ImageSetter
	httpClient  *http.Client
}

func NewIngestWorker(store Uploader, collections, nfts ImageSetter) *IngestWorker {
	return &IngestWorker{
		store:       store,
		collections: collections,
		nfts:        nfts,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (w *IngestWorker) Work(ctx context.Context, job *river.Job[IngestArgs]) error {
	args := job.Args

	setter, err := w.setterFor(args.ResourceType)
	if err != nil {
		return river.JobCancel(err)
	}

	body, contentType, err := w.fetch(ctx, args.SourceURL)
	if err != nil {
		return fmt.Errorf("fetch media: %w", err)
	}
	if args.ContentType != "" {
		contentType = args.ContentType
	}

	key := fmt.Sprintf("%s/%s%s", args.ResourceType, args.ResourceID, extensionFor(contentType))
	url, err := w.store.Put(ctx, key, body, contentType)
	if err != nil {
		return err
	}

	if err := setter.SetImage(ctx, args.ResourceID, url); err != nil {
		return fmt.Errorf("set image url: %w", err)
	}
	return nil
}

func (w *IngestWorker) setterFor(resourceType string) (ImageSetter, error) {
	switch resourceType {
	case ResourceCollection:
		return w.collections, nil
	case ResourceNFT:
		return w.nfts, nil
	default:
		return nil, fmt.Errorf("unknown media resource type %q", resourceType)
	}
}

func (w *IngestWorker) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("source returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes))
	if err != nil {
		return nil, "", err
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}
