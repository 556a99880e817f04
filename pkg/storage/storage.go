// Package storage provides blob storage operations backed by Azure Blob
// Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/quillworks/quill/pkg/lifecycle"
)

// MaxListCap bounds a single List page regardless of configuration.
const MaxListCap int32 = 500

// Object describes a stored blob.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	LastModified time.Time `json:"last_modified"`
}

// ListPage holds one page of listed objects. NextMarker is non-nil when more
// results remain.
type ListPage struct {
	Objects    []Object `json:"objects"`
	NextMarker *string  `json:"next_marker,omitempty"`
}

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the storage container.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to a blob at the given key with the specified content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the blob at the given key. The caller must
	// close the reader. Returns ErrNotFound if the blob does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob at the given key. Returns ErrNotFound if the blob
	// does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a blob exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
	// List returns one page of blobs under prefix, resuming from marker when
	// provided.
	List(ctx context.Context, prefix string, marker *string, maxResults int32) (ListPage, error)
}

type azure struct {
	client      *azblob.Client
	containerN  string
	maxListSize int32
	logger      *slog.Logger
}

// New creates a storage system from the given configuration. It validates the
// connection string and creates the Azure client but does not touch the
// container until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:      client,
		containerN:  cfg.ContainerName,
		maxListSize: cfg.MaxListSize,
		logger:      logger.With("system", "storage"),
	}, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.containerN, nil)
		if err != nil {
			if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
				a.logger.Error("storage container initialization failed", "error", err)
				return
			}
		}

		a.logger.Info("storage container ready", "container", a.containerN)
	})

	return nil
}

func (a *azure) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	_, err := a.client.UploadStream(ctx, a.containerN, key, reader, opts)
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}

	return nil
}

func (a *azure) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.containerN, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}

	return resp.Body, nil
}

func (a *azure) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := a.client.DeleteBlob(ctx, a.containerN, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

func (a *azure) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	blobClient := a.client.
		ServiceClient().
		NewContainerClient(a.containerN).
		NewBlobClient(key)

	_, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check blob existence %s: %w", key, err)
	}

	return true, nil
}

func (a *azure) List(ctx context.Context, prefix string, marker *string, maxResults int32) (ListPage, error) {
	if maxResults <= 0 || maxResults > a.maxListSize {
		maxResults = a.maxListSize
	}

	opts := &container.ListBlobsFlatOptions{
		MaxResults: &maxResults,
		Marker:     marker,
	}
	if prefix != "" {
		opts.Prefix = &prefix
	}

	pager := a.client.NewListBlobsFlatPager(a.containerN, opts)
	if !pager.More() {
		return ListPage{Objects: []Object{}}, nil
	}

	resp, err := pager.NextPage(ctx)
	if err != nil {
		return ListPage{}, fmt.Errorf("list blobs: %w", err)
	}

	objects := make([]Object, 0, len(resp.Segment.BlobItems))
	for _, item := range resp.Segment.BlobItems {
		obj := Object{}
		if item.Name != nil {
			obj.Key = *item.Name
		}
		if item.Properties != nil {
			if item.Properties.ContentLength != nil {
				obj.Size = *item.Properties.ContentLength
			}
			if item.Properties.ContentType != nil {
				obj.ContentType = *item.Properties.ContentType
			}
			if item.Properties.LastModified != nil {
				obj.LastModified = *item.Properties.LastModified
			}
		}
		objects = append(objects, obj)
	}

	page := ListPage{Objects: objects}
	if resp.NextMarker != nil && *resp.NextMarker != "" {
		page.NextMarker = resp.NextMarker
	}

	return page, nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
