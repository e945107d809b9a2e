package config

import "os"

// StorageConfig selects the artifact store backend. When S3Bucket is set the
// S3 store is used, otherwise artifacts land on the local filesystem.
type StorageConfig struct {
	OutputDir string
	S3Bucket  string
	S3Region  string
}

func GetStorageConfig() (*StorageConfig, error) {
	outputDir := os.Getenv("OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "./outputs"
	}
	return &StorageConfig{
		OutputDir: outputDir,
		S3Bucket:  os.Getenv("ARTIFACTS_S3_BUCKET"),
		S3Region:  os.Getenv("ARTIFACTS_S3_REGION"),
	}, nil
}
