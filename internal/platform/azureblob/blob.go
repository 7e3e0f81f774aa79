package azureblob

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"

	"github.com/packtrace/sdp-backend/internal/platform/envutil"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

// Service is the blob-storage capability the upload orchestrator consumes.
// An empty container routes to the default container.
type Service interface {
	Upload(ctx context.Context, container, key string, data []byte, contentType string) (string, error)
	DefaultContainer() string
}

type Config struct {
	AccountName      string
	ConnectionString string
	DefaultContainer string
}

func LoadConfigFromEnv() Config {
	return Config{
		AccountName:      envutil.String("AZURE_STORAGE_ACCOUNT", ""),
		ConnectionString: envutil.String("AZURE_STORAGE_CONNECTION_STRING", ""),
		DefaultContainer: envutil.String("AZURE_CONTAINER_NAME", "sdp-evidence"),
	}
}

type blobService struct {
	log              *logger.Logger
	client           *azblob.Client
	serviceURL       string
	defaultContainer string
}

// New builds the blob service from a connection string when one is set,
// falling back to DefaultAzureCredential against the account endpoint
// (managed identity in the hosted environments, CLI login locally).
func New(log *logger.Logger, cfg Config) (Service, error) {
	serviceLog := log.With("service", "BlobService")

	if cfg.DefaultContainer == "" {
		return nil, fmt.Errorf("missing default blob container name")
	}

	if cfg.ConnectionString != "" {
		client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("blob client from connection string: %w", err)
		}
		serviceLog.Info("Blob storage initialized", "auth", "connection_string", "container", cfg.DefaultContainer)
		return &blobService{
			log:              serviceLog,
			client:           client,
			serviceURL:       strings.TrimRight(client.URL(), "/"),
			defaultContainer: cfg.DefaultContainer,
		}, nil
	}

	if cfg.AccountName == "" {
		return nil, fmt.Errorf("missing AZURE_STORAGE_ACCOUNT")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", cfg.AccountName)
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("blob client: %w", err)
	}
	serviceLog.Info("Blob storage initialized", "auth", "default_credential", "account", cfg.AccountName, "container", cfg.DefaultContainer)
	return &blobService{
		log:              serviceLog,
		client:           client,
		serviceURL:       serviceURL,
		defaultContainer: cfg.DefaultContainer,
	}, nil
}

func (s *blobService) DefaultContainer() string {
	return s.defaultContainer
}

func (s *blobService) Upload(ctx context.Context, container, key string, data []byte, contentType string) (string, error) {
	if container == "" {
		container = s.defaultContainer
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.UploadBuffer(ctx, container, key, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", err
	}
	return s.blobURL(container, key), nil
}

func (s *blobService) blobURL(container, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", s.serviceURL, container, strings.Join(segments, "/"))
}
