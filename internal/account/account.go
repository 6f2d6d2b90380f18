// Package account wraps the Azure Blob Storage SDK behind the small
// collaborator surface the issuer needs: base URL resolution and existence
// probes. No retries or caching are added here; transient SDK failures are
// the caller's to interpret.
package account

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/service"
)

// Config controls connectivity to the storage account.
type Config struct {
	// Account is the storage account name.
	Account string
	// AccountKey is the base64-encoded shared key.
	AccountKey string
	// Endpoint overrides the service URL, e.g. for Azurite. Defaults to
	// https://<account>.blob.core.windows.net.
	Endpoint string
}

// Client talks to one storage account.
type Client struct {
	service  *service.Client
	endpoint string
}

// New builds a Client with shared-key authentication.
func New(cfg Config) (*Client, error) {
	if cfg.Account == "" {
		return nil, fmt.Errorf("account: account name is required")
	}
	if cfg.AccountKey == "" {
		return nil, fmt.Errorf("account: account key is required")
	}
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.blob.core.windows.net", cfg.Account)
	}
	cred, err := azblob.NewSharedKeyCredential(cfg.Account, cfg.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("account: build credentials: %w", err)
	}
	client, err := azblob.NewClientWithSharedKeyCredential(endpoint+"/", cred, nil)
	if err != nil {
		return nil, fmt.Errorf("account: create client: %w", err)
	}
	return &Client{service: client.ServiceClient(), endpoint: endpoint}, nil
}

// BlobURL resolves the absolute base URL of a blob. Each path segment is
// percent-encoded individually so separators survive while spaces and other
// reserved characters do not.
func (c *Client) BlobURL(container, blobPath string) string {
	return c.endpoint + "/" + container + "/" + strings.Join(escapeSegments(blobPath), "/")
}

// ContainerExists probes the container with a properties request.
func (c *Client) ContainerExists(ctx context.Context, container string) (bool, error) {
	_, err := c.service.NewContainerClient(container).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.ContainerNotFound, bloberror.ResourceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("account: container properties %q: %w", container, err)
	}
	return true, nil
}

// BlobExists probes the blob with a properties request.
func (c *Client) BlobExists(ctx context.Context, container, blobPath string) (bool, error) {
	_, err := c.service.NewContainerClient(container).NewBlobClient(blobPath).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ResourceNotFound, bloberror.ContainerNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("account: blob properties %q: %w", blobPath, err)
	}
	return true, nil
}

func escapeSegments(p string) []string {
	parts := strings.Split(p, "/")
	escaped := make([]string, len(parts))
	for i, segment := range parts {
		escaped[i] = url.PathEscape(segment)
	}
	return escaped
}
