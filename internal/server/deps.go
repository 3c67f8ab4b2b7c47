package server

import (
	"log"
	"strings"

	"anoa.com/unimanage/internal/config"
	"anoa.com/unimanage/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
)

// LocalUploadPrefix is the URL prefix local uploads are served under.
const LocalUploadPrefix = "/uploads"

// NewFileStorage picks cloudinary when CLOUDINARY_URL is set and local disk
// otherwise. The returned directory is non-empty only for local storage.
func NewFileStorage(cfg *config.Config) (storage.FileStorage, string, error) {
	if cfg.CloudinaryURL != "" {
		fs, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryUploadFolder)
		if err != nil {
			return nil, "", err
		}
		log.Println("Using cloudinary file storage")
		return fs, "", nil
	}

	fs, err := storage.NewLocalStorage(cfg.UploadDir, LocalUploadPrefix)
	if err != nil {
		return nil, "", err
	}
	log.Printf("Using local file storage in %s", cfg.UploadDir)
	return fs, cfg.UploadDir, nil
}

// NewMeiliClient returns nil when no MEILISEARCH_HOST is configured.
func NewMeiliClient(cfg *config.Config) meilisearch.ServiceManager {
	host := strings.TrimSpace(cfg.MeiliSearchHost)
	if host == "" {
		return nil
	}
	if !strings.HasPrefix(host, "http") {
		host = "http://" + host + ":7700"
	}
	if cfg.MeiliMasterKey == "" {
		log.Println("WARNING: MEILI_MASTER_KEY is not set.")
	}
	return meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
}
